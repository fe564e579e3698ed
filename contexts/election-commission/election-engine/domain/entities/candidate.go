package entities

import (
	"fmt"
	"time"
)

type Office string

const (
	OfficeHouse     Office = "HOUSE"
	OfficeSenate    Office = "SENATE"
	OfficePresident Office = "PRESIDENT"
)

func ValidOffice(value Office) bool {
	switch value {
	case OfficeHouse, OfficeSenate, OfficePresident:
		return true
	default:
		return false
	}
}

// Candidate belongs to exactly one election and one office.
// (ElectionID, Office, Name) is unique; State is required for House and
// Senate, District only for House.
type Candidate struct {
	CandidateID string
	ElectionID  string
	Office      Office
	Name        string
	Party       string
	State       string
	District    int
	CreatedAt   time.Time
}

// Label renders the office-specific display label. The format is a contract
// consumed by review queues, live reports, and certification snapshots.
func (c Candidate) Label() string {
	switch c.Office {
	case OfficeHouse:
		return fmt.Sprintf("%s (%s) — %s-%02d", c.Name, c.Party, c.State, c.District)
	case OfficeSenate:
		return fmt.Sprintf("%s (%s) — %s SEN", c.Name, c.Party, c.State)
	case OfficePresident:
		return fmt.Sprintf("%s (%s) — POTUS", c.Name, c.Party)
	default:
		return fmt.Sprintf("%s (%s)", c.Name, c.Party)
	}
}
