package entities

import "time"

type ElectionType string

const (
	ElectionTypeSpecial  ElectionType = "SPECIAL"
	ElectionTypeGeneral  ElectionType = "GENERAL"
	ElectionTypeMidterms ElectionType = "MIDTERMS"
)

type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "DRAFT"
	ElectionStatusOpen      ElectionStatus = "OPEN"
	ElectionStatusClosed    ElectionStatus = "CLOSED"
	ElectionStatusCertified ElectionStatus = "CERTIFIED"
)

// Election is one simulated vote with its own candidate set, ballots, and
// lifecycle state. The ID is a caller-supplied short token and is immutable.
type Election struct {
	ID               string
	Type             ElectionType
	IncludeHouse     bool
	IncludeSenate    bool
	IncludePresident bool
	Status           ElectionStatus
	ReportMessageRef string
	LastReportAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IncludesOffice reports whether ballots for this election carry a section
// for the given office.
func (e Election) IncludesOffice(office Office) bool {
	switch office {
	case OfficeHouse:
		return e.IncludeHouse
	case OfficeSenate:
		return e.IncludeSenate
	case OfficePresident:
		return e.IncludePresident
	default:
		return false
	}
}

// IncludedOffices returns the enabled offices in canonical order.
func (e Election) IncludedOffices() []Office {
	offices := make([]Office, 0, 3)
	if e.IncludeHouse {
		offices = append(offices, OfficeHouse)
	}
	if e.IncludeSenate {
		offices = append(offices, OfficeSenate)
	}
	if e.IncludePresident {
		offices = append(offices, OfficePresident)
	}
	return offices
}

func ValidElectionType(value ElectionType) bool {
	switch value {
	case ElectionTypeSpecial, ElectionTypeGeneral, ElectionTypeMidterms:
		return true
	default:
		return false
	}
}
