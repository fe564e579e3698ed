package application

import (
	"strings"
	"time"
)

// Config carries the tunables the engine consumes. It is provided once at
// construction by the composition root, never read ad hoc from the
// environment.
type Config struct {
	HouseSelectionCap     int
	SenateSelectionCap    int
	MaxRejectReasonLength int
	ReportRefreshInterval time.Duration
	StateCodes            map[string]struct{}
}

func (c Config) Normalized() Config {
	if c.HouseSelectionCap <= 0 {
		c.HouseSelectionCap = 3
	}
	if c.SenateSelectionCap <= 0 {
		c.SenateSelectionCap = 2
	}
	if c.MaxRejectReasonLength <= 0 {
		c.MaxRejectReasonLength = 500
	}
	if c.ReportRefreshInterval <= 0 {
		c.ReportRefreshInterval = 30 * time.Second
	}
	if len(c.StateCodes) == 0 {
		c.StateCodes = DefaultStateCodes()
	}
	return c
}

// RecognizedState reports whether value is a known two-letter state code.
func (c Config) RecognizedState(value string) bool {
	_, ok := c.StateCodes[strings.ToUpper(strings.TrimSpace(value))]
	return ok
}

// DefaultStateCodes returns the fifty states plus DC.
func DefaultStateCodes() map[string]struct{} {
	codes := []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
		"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
		"MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH",
		"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI",
		"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
		"WY",
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}
