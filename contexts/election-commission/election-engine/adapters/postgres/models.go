package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"madison/contexts/election-commission/election-engine/domain/entities"
	"madison/internal/shared/outbox"
)

const (
	outboxStatusPending   = outbox.StatusPending
	outboxStatusPublished = outbox.StatusPublished
)

type electionModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	Type             string     `gorm:"column:type"`
	IncludeHouse     bool       `gorm:"column:include_house"`
	IncludeSenate    bool       `gorm:"column:include_senate"`
	IncludePresident bool       `gorm:"column:include_president"`
	Status           string     `gorm:"column:status"`
	ReportMessageRef string     `gorm:"column:report_message_ref"`
	LastReportAt     *time.Time `gorm:"column:last_report_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	row := electionModel{
		ID:               strings.TrimSpace(election.ID),
		Type:             string(election.Type),
		IncludeHouse:     election.IncludeHouse,
		IncludeSenate:    election.IncludeSenate,
		IncludePresident: election.IncludePresident,
		Status:           string(election.Status),
		ReportMessageRef: strings.TrimSpace(election.ReportMessageRef),
		LastReportAt:     normalizeOptionalTime(election.LastReportAt),
		CreatedAt:        election.CreatedAt.UTC(),
		UpdatedAt:        election.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ID:               m.ID,
		Type:             entities.ElectionType(m.Type),
		IncludeHouse:     m.IncludeHouse,
		IncludeSenate:    m.IncludeSenate,
		IncludePresident: m.IncludePresident,
		Status:           entities.ElectionStatus(m.Status),
		ReportMessageRef: m.ReportMessageRef,
		LastReportAt:     normalizeOptionalTime(m.LastReportAt),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ElectionID string    `gorm:"column:election_id;uniqueIndex:idx_candidate_identity"`
	Office     string    `gorm:"column:office;uniqueIndex:idx_candidate_identity"`
	Name       string    `gorm:"column:name;uniqueIndex:idx_candidate_identity"`
	Party      string    `gorm:"column:party"`
	State      string    `gorm:"column:state"`
	District   int       `gorm:"column:district"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	row := candidateModel{
		ID:         strings.TrimSpace(candidate.CandidateID),
		ElectionID: strings.TrimSpace(candidate.ElectionID),
		Office:     string(candidate.Office),
		Name:       strings.TrimSpace(candidate.Name),
		Party:      strings.TrimSpace(candidate.Party),
		State:      strings.TrimSpace(candidate.State),
		District:   candidate.District,
		CreatedAt:  candidate.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		ElectionID:  m.ElectionID,
		Office:      entities.Office(m.Office),
		Name:        m.Name,
		Party:       m.Party,
		State:       m.State,
		District:    m.District,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type ballotModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	ElectionID      string     `gorm:"column:election_id;uniqueIndex:idx_ballot_voter"`
	VoterID         string     `gorm:"column:voter_id;uniqueIndex:idx_ballot_voter"`
	VoterName       string     `gorm:"column:voter_name"`
	HouseChoices    []byte     `gorm:"column:house_choices"`
	SenateChoices   []byte     `gorm:"column:senate_choices"`
	PresidentChoice string     `gorm:"column:president_choice"`
	ReviewStatus    string     `gorm:"column:review_status"`
	ReviewedBy      string     `gorm:"column:reviewed_by"`
	ReviewReason    string     `gorm:"column:review_reason"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) (ballotModel, error) {
	house, err := marshalChoices(ballot.HouseChoices)
	if err != nil {
		return ballotModel{}, err
	}
	senate, err := marshalChoices(ballot.SenateChoices)
	if err != nil {
		return ballotModel{}, err
	}
	row := ballotModel{
		ID:              strings.TrimSpace(ballot.BallotID),
		ElectionID:      strings.TrimSpace(ballot.ElectionID),
		VoterID:         strings.TrimSpace(ballot.VoterID),
		VoterName:       strings.TrimSpace(ballot.VoterName),
		HouseChoices:    house,
		SenateChoices:   senate,
		PresidentChoice: strings.TrimSpace(ballot.PresidentChoice),
		ReviewStatus:    string(ballot.ReviewStatus),
		ReviewedBy:      strings.TrimSpace(ballot.ReviewedBy),
		ReviewReason:    strings.TrimSpace(ballot.ReviewReason),
		ReviewedAt:      normalizeOptionalTime(ballot.ReviewedAt),
		SubmittedAt:     ballot.SubmittedAt.UTC(),
	}
	if row.SubmittedAt.IsZero() {
		row.SubmittedAt = time.Now().UTC()
	}
	return row, nil
}

func (m ballotModel) toEntity() (entities.Ballot, error) {
	house, err := unmarshalChoices(m.HouseChoices)
	if err != nil {
		return entities.Ballot{}, err
	}
	senate, err := unmarshalChoices(m.SenateChoices)
	if err != nil {
		return entities.Ballot{}, err
	}
	return entities.Ballot{
		BallotID:        m.ID,
		ElectionID:      m.ElectionID,
		VoterID:         m.VoterID,
		VoterName:       m.VoterName,
		HouseChoices:    house,
		SenateChoices:   senate,
		PresidentChoice: m.PresidentChoice,
		ReviewStatus:    entities.ReviewStatus(m.ReviewStatus),
		ReviewedBy:      m.ReviewedBy,
		ReviewReason:    m.ReviewReason,
		ReviewedAt:      normalizeOptionalTime(m.ReviewedAt),
		SubmittedAt:     m.SubmittedAt.UTC(),
	}, nil
}

type certificationModel struct {
	ElectionID       string    `gorm:"column:election_id;primaryKey"`
	CertifiedBy      string    `gorm:"column:certified_by"`
	Notes            string    `gorm:"column:notes"`
	SubmittedBallots int       `gorm:"column:submitted_ballots"`
	AcceptedBallots  int       `gorm:"column:accepted_ballots"`
	Results          []byte    `gorm:"column:results"`
	CertifiedAt      time.Time `gorm:"column:certified_at"`
}

func (certificationModel) TableName() string {
	return "certifications"
}

func certificationModelFromEntity(record entities.CertificationRecord) (certificationModel, error) {
	results, err := json.Marshal(record.Results)
	if err != nil {
		return certificationModel{}, err
	}
	return certificationModel{
		ElectionID:       strings.TrimSpace(record.ElectionID),
		CertifiedBy:      strings.TrimSpace(record.CertifiedBy),
		Notes:            strings.TrimSpace(record.Notes),
		SubmittedBallots: record.SubmittedBallots,
		AcceptedBallots:  record.AcceptedBallots,
		Results:          results,
		CertifiedAt:      record.CertifiedAt.UTC(),
	}, nil
}

func (m certificationModel) toEntity() (entities.CertificationRecord, error) {
	var results []entities.OfficeResult
	if len(m.Results) > 0 {
		if err := json.Unmarshal(m.Results, &results); err != nil {
			return entities.CertificationRecord{}, err
		}
	}
	return entities.CertificationRecord{
		ElectionID:       m.ElectionID,
		CertifiedBy:      m.CertifiedBy,
		Notes:            m.Notes,
		SubmittedBallots: m.SubmittedBallots,
		AcceptedBallots:  m.AcceptedBallots,
		Results:          results,
		CertifiedAt:      m.CertifiedAt.UTC(),
	}, nil
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func marshalChoices(choices []string) ([]byte, error) {
	if len(choices) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(choices)
}

func unmarshalChoices(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var choices []string
	if err := json.Unmarshal(raw, &choices); err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, nil
	}
	return choices, nil
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
