package ports

import (
	"context"
	"time"

	"madison/contexts/election-commission/election-engine/domain/entities"
	contractsv1 "madison/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts surrogate key generation for ballots, candidates,
// and outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ElectionRepository interface {
	// CreateElection inserts a new election row. A duplicate identifier
	// surfaces as ErrDuplicate from the storage constraint.
	CreateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	// TransitionElection flips status to the target only when the current
	// status is one of from. It reports false when no row matched, so the
	// caller can distinguish a lost race from success.
	TransitionElection(ctx context.Context, electionID string, from []entities.ElectionStatus, to entities.ElectionStatus, at time.Time) (bool, error)
	// ClaimReportSlot atomically advances the election's last-report marker
	// when at least interval has elapsed since the previous refresh. A false
	// result means the refresh is suppressed by the throttle.
	ClaimReportSlot(ctx context.Context, electionID string, now time.Time, interval time.Duration) (bool, error)
	SetReportMessageRef(ctx context.Context, electionID string, messageRef string, at time.Time) error
}

type CandidateRepository interface {
	// InsertCandidate persists a candidate. (election, office, name)
	// uniqueness is enforced by the store and surfaces as ErrDuplicate.
	InsertCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context, electionID string, office entities.Office) ([]entities.Candidate, error)
}

type BallotRepository interface {
	// InsertBallot persists a new PENDING ballot. The (election, voter)
	// uniqueness constraint lives in the store, never as a prior read, so
	// concurrent submissions cannot both land. Violations surface as
	// ErrDuplicate.
	InsertBallot(ctx context.Context, ballot entities.Ballot) error
	GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error)
	// ReviewBallot performs the single conditional update that resolves a
	// PENDING ballot. It reports false when another reviewer got there
	// first; the row is never overwritten in that case.
	ReviewBallot(ctx context.Context, ballotID string, to entities.ReviewStatus, reviewerID string, reason string, at time.Time) (bool, error)
	// NextPending returns the oldest PENDING ballot by submission time.
	NextPending(ctx context.Context, electionID string) (entities.Ballot, bool, error)
	ListBallots(ctx context.Context, electionID string) ([]entities.Ballot, error)
	ListAcceptedBallots(ctx context.Context, electionID string) ([]entities.Ballot, error)
	CountBallots(ctx context.Context, electionID string) (submitted int, accepted int, err error)
}

type CertificationRepository interface {
	// SaveCertification persists the frozen snapshot and flips the election
	// to CERTIFIED as one atomic unit. The flip only succeeds from CLOSED;
	// any other current status surfaces as ErrInvalidState and nothing is
	// written. A previous snapshot for the election is overwritten.
	SaveCertification(ctx context.Context, record entities.CertificationRecord) error
	GetCertification(ctx context.Context, electionID string) (entities.CertificationRecord, bool, error)
}

// EventEnvelope is the event shape appended to the outbox and published to
// the bus. Payload contents are bounded: ballot events never carry ballot
// selections.
type EventEnvelope = contractsv1.Envelope

// OutboxWriter appends notification events inside the engine's write path.
// Failures of downstream consumers never roll back committed engine state.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

// ReportPublisher posts or edits the public live report for an election and
// returns the platform message reference.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report entities.LiveReport, previousRef string) (string, error)
}
