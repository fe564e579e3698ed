package entities

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusAccepted ReviewStatus = "ACCEPTED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// Ballot is one voter's selections for an election. At most one ballot exists
// per (ElectionID, VoterID); the selections are immutable after submission and
// the ballot is adjudicated exactly once.
type Ballot struct {
	BallotID        string
	ElectionID      string
	VoterID         string
	VoterName       string
	HouseChoices    []string
	SenateChoices   []string
	PresidentChoice string
	ReviewStatus    ReviewStatus
	ReviewedBy      string
	ReviewReason    string
	ReviewedAt      *time.Time
	SubmittedAt     time.Time
}

// IsEmpty reports whether the ballot carries no selection in any office.
func (b Ballot) IsEmpty() bool {
	return len(b.HouseChoices) == 0 && len(b.SenateChoices) == 0 && b.PresidentChoice == ""
}

// SelectionsFor returns the candidate references this ballot casts for the
// given office. House and Senate count at-large: one vote per selected
// candidate. President contributes at most a single vote.
func (b Ballot) SelectionsFor(office Office) []string {
	switch office {
	case OfficeHouse:
		return b.HouseChoices
	case OfficeSenate:
		return b.SenateChoices
	case OfficePresident:
		if b.PresidentChoice == "" {
			return nil
		}
		return []string{b.PresidentChoice}
	default:
		return nil
	}
}
