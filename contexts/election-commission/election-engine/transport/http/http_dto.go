package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	ElectionID       string `json:"election_id"`
	Type             string `json:"type"`
	IncludeHouse     bool   `json:"include_house"`
	IncludeSenate    bool   `json:"include_senate"`
	IncludePresident bool   `json:"include_president"`
}

type ElectionResponse struct {
	ElectionID       string `json:"election_id"`
	Type             string `json:"type"`
	IncludeHouse     bool   `json:"include_house"`
	IncludeSenate    bool   `json:"include_senate"`
	IncludePresident bool   `json:"include_president"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

type RegisterCandidateRequest struct {
	Office   string `json:"office"`
	Name     string `json:"name"`
	Party    string `json:"party"`
	State    string `json:"state,omitempty"`
	District int    `json:"district,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	ElectionID  string `json:"election_id"`
	Office      string `json:"office"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	State       string `json:"state,omitempty"`
	District    int    `json:"district,omitempty"`
	Label       string `json:"label"`
}

type SubmitBallotRequest struct {
	VoterID         string   `json:"voter_id"`
	VoterName       string   `json:"voter_name"`
	HouseChoices    []string `json:"house_choices,omitempty"`
	SenateChoices   []string `json:"senate_choices,omitempty"`
	PresidentChoice string   `json:"president_choice,omitempty"`
}

type BallotResponse struct {
	BallotID        string   `json:"ballot_id"`
	ElectionID      string   `json:"election_id"`
	VoterID         string   `json:"voter_id"`
	VoterName       string   `json:"voter_name,omitempty"`
	HouseChoices    []string `json:"house_choices,omitempty"`
	SenateChoices   []string `json:"senate_choices,omitempty"`
	PresidentChoice string   `json:"president_choice,omitempty"`
	ReviewStatus    string   `json:"review_status"`
	ReviewedBy      string   `json:"reviewed_by,omitempty"`
	ReviewReason    string   `json:"review_reason,omitempty"`
	SubmittedAt     string   `json:"submitted_at"`
}

type RejectBallotRequest struct {
	Reason string `json:"reason"`
}

type CertifyElectionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RevertCertificationRequest struct {
	Reason string `json:"reason"`
}

type CandidateTallyItem struct {
	CandidateID string  `json:"candidate_id"`
	Label       string  `json:"label"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

type OfficeResultsResponse struct {
	ElectionID string               `json:"election_id"`
	Office     string               `json:"office"`
	TotalVotes int                  `json:"total_votes"`
	Tallies    []CandidateTallyItem `json:"tallies"`
}

type ReportingStatsResponse struct {
	ElectionID      string  `json:"election_id"`
	Submitted       int     `json:"submitted"`
	Accepted        int     `json:"accepted"`
	AcceptedPercent float64 `json:"accepted_percent"`
}

type OfficeInclusionResponse struct {
	ElectionID string   `json:"election_id"`
	Offices    []string `json:"offices"`
}

type NextPendingResponse struct {
	Found  bool            `json:"found"`
	Ballot *BallotResponse `json:"ballot,omitempty"`
}

type CertificationResponse struct {
	ElectionID       string                  `json:"election_id"`
	CertifiedBy      string                  `json:"certified_by"`
	Notes            string                  `json:"notes,omitempty"`
	SubmittedBallots int                     `json:"submitted_ballots"`
	AcceptedBallots  int                     `json:"accepted_ballots"`
	Results          []OfficeResultsResponse `json:"results"`
	CertifiedAt      string                  `json:"certified_at"`
}
