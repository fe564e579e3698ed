package entities

import "time"

// CandidateTally is one row of an office result listing.
type CandidateTally struct {
	CandidateID string  `json:"candidate_id"`
	Label       string  `json:"label"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// OfficeResult is the tabulated outcome for a single office, ordered by
// descending vote count with ties broken by ascending candidate name.
type OfficeResult struct {
	Office     Office           `json:"office"`
	TotalVotes int              `json:"total_votes"`
	Tallies    []CandidateTally `json:"tallies"`
}

// ReportingStats summarizes ballot intake progress for an election.
type ReportingStats struct {
	Submitted       int
	Accepted        int
	AcceptedPercent float64
}

// CertificationRecord freezes a closed election's results. There is at most
// one live record per election; re-certification after a revert supersedes
// the previous record rather than appending.
type CertificationRecord struct {
	ElectionID       string
	CertifiedBy      string
	Notes            string
	SubmittedBallots int
	AcceptedBallots  int
	Results          []OfficeResult
	CertifiedAt      time.Time
}

// LiveReport is the throttled public report payload published while an
// election is receiving and adjudicating ballots.
type LiveReport struct {
	ElectionID  string
	Status      ElectionStatus
	Stats       ReportingStats
	Results     []OfficeResult
	GeneratedAt time.Time
}
