package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter implementing every engine port. All methods
// run under one mutex, so the uniqueness and conditional-update guarantees
// match what the Postgres adapter gets from its constraints.
type Store struct {
	mu sync.RWMutex

	elections      map[string]entities.Election
	candidates     map[string]entities.Candidate
	ballots        map[string]entities.Ballot
	certifications map[string]entities.CertificationRecord
	outbox         map[string]outboxRecord
	outboxOrder    []string
}

func NewStore() *Store {
	return &Store{
		elections:      make(map[string]entities.Election),
		candidates:     make(map[string]entities.Candidate),
		ballots:        make(map[string]entities.Ballot),
		certifications: make(map[string]entities.CertificationRecord),
		outbox:         make(map[string]outboxRecord),
	}
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(election.ID)
	if _, ok := s.elections[id]; ok {
		return domainerrors.ErrDuplicate
	}
	s.elections[id] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) TransitionElection(
	_ context.Context,
	electionID string,
	from []entities.ElectionStatus,
	to entities.ElectionStatus,
	at time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return false, nil
	}
	matched := false
	for _, status := range from {
		if election.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	election.Status = to
	election.UpdatedAt = at.UTC()
	s.elections[election.ID] = election
	return true, nil
}

func (s *Store) ClaimReportSlot(
	_ context.Context,
	electionID string,
	now time.Time,
	interval time.Duration,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return false, nil
	}
	if election.LastReportAt != nil && now.UTC().Sub(election.LastReportAt.UTC()) < interval {
		return false, nil
	}
	claimedAt := now.UTC()
	election.LastReportAt = &claimedAt
	s.elections[election.ID] = election
	return true, nil
}

func (s *Store) SetReportMessageRef(_ context.Context, electionID string, messageRef string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	election.ReportMessageRef = strings.TrimSpace(messageRef)
	election.UpdatedAt = at.UTC()
	s.elections[election.ID] = election
	return nil
}

func (s *Store) InsertCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.candidates {
		if existing.ElectionID == candidate.ElectionID &&
			existing.Office == candidate.Office &&
			strings.EqualFold(existing.Name, candidate.Name) {
			return domainerrors.ErrDuplicate
		}
	}
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context, electionID string, office entities.Office) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ElectionID == strings.TrimSpace(electionID) && candidate.Office == office {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *Store) InsertBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ballots {
		if existing.ElectionID == ballot.ElectionID && existing.VoterID == ballot.VoterID {
			return domainerrors.ErrDuplicate
		}
	}
	s.ballots[strings.TrimSpace(ballot.BallotID)] = ballot
	return nil
}

func (s *Store) GetBallot(_ context.Context, ballotID string) (entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[strings.TrimSpace(ballotID)]
	if !ok {
		return entities.Ballot{}, domainerrors.ErrBallotNotFound
	}
	return ballot, nil
}

func (s *Store) ReviewBallot(
	_ context.Context,
	ballotID string,
	to entities.ReviewStatus,
	reviewerID string,
	reason string,
	at time.Time,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ballot, ok := s.ballots[strings.TrimSpace(ballotID)]
	if !ok {
		return false, domainerrors.ErrBallotNotFound
	}
	if ballot.ReviewStatus != entities.ReviewStatusPending {
		return false, nil
	}
	reviewedAt := at.UTC()
	ballot.ReviewStatus = to
	ballot.ReviewedBy = strings.TrimSpace(reviewerID)
	ballot.ReviewReason = strings.TrimSpace(reason)
	ballot.ReviewedAt = &reviewedAt
	s.ballots[ballot.BallotID] = ballot
	return true, nil
}

func (s *Store) NextPending(_ context.Context, electionID string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var oldest entities.Ballot
	found := false
	for _, ballot := range s.ballots {
		if ballot.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		if ballot.ReviewStatus != entities.ReviewStatusPending {
			continue
		}
		if !found || ballot.SubmittedAt.Before(oldest.SubmittedAt) {
			oldest = ballot
			found = true
		}
	}
	return oldest, found, nil
}

func (s *Store) ListBallots(_ context.Context, electionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listBallotsLocked(electionID, nil), nil
}

func (s *Store) ListAcceptedBallots(_ context.Context, electionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accepted := entities.ReviewStatusAccepted
	return s.listBallotsLocked(electionID, &accepted), nil
}

func (s *Store) listBallotsLocked(electionID string, status *entities.ReviewStatus) []entities.Ballot {
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		if status != nil && ballot.ReviewStatus != *status {
			continue
		}
		items = append(items, ballot)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.Before(items[j].SubmittedAt)
	})
	return items
}

func (s *Store) CountBallots(_ context.Context, electionID string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submitted := 0
	accepted := 0
	for _, ballot := range s.ballots {
		if ballot.ElectionID != strings.TrimSpace(electionID) {
			continue
		}
		submitted++
		if ballot.ReviewStatus == entities.ReviewStatusAccepted {
			accepted++
		}
	}
	return submitted, accepted, nil
}

func (s *Store) SaveCertification(_ context.Context, record entities.CertificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID := strings.TrimSpace(record.ElectionID)
	election, ok := s.elections[electionID]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	if election.Status != entities.ElectionStatusClosed {
		return domainerrors.ErrInvalidState
	}
	// Status flip and snapshot write happen under the same lock, matching the
	// transactional boundary of the Postgres adapter.
	election.Status = entities.ElectionStatusCertified
	election.UpdatedAt = record.CertifiedAt.UTC()
	s.elections[electionID] = election
	s.certifications[electionID] = record
	return nil
}

func (s *Store) GetCertification(_ context.Context, electionID string) (entities.CertificationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.certifications[strings.TrimSpace(electionID)]
	if !ok {
		return entities.CertificationRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(envelope.EventID)
	if id == "" {
		id = uuid.NewString()
	}
	if _, ok := s.outbox[id]; ok {
		return nil
	}
	s.outbox[id] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  id,
			EventType: envelope.EventType,
			Payload:   payload,
			CreatedAt: envelope.OccurredAt.UTC(),
		},
	}
	s.outboxOrder = append(s.outboxOrder, id)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		record := s.outbox[id]
		if record.published {
			continue
		}
		items = append(items, record.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrValidation
	}
	record.published = true
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

// PendingOutboxTypes lists unpublished event types in append order, for tests.
func (s *Store) PendingOutboxTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		record := s.outbox[id]
		if !record.published {
			types = append(types, record.message.EventType)
		}
	}
	return types
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.CandidateRepository = (*Store)(nil)
var _ ports.BallotRepository = (*Store)(nil)
var _ ports.CertificationRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
