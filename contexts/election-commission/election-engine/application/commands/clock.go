package commands

import (
	"time"

	"madison/contexts/election-commission/election-engine/ports"
)

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}
