package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"
)

// CreateElectionCommand is the write-model input for election creation.
type CreateElectionCommand struct {
	ElectionID       string
	Type             entities.ElectionType
	IncludeHouse     bool
	IncludeSenate    bool
	IncludePresident bool
	CreatedBy        string
}

// CertifyElectionCommand seals a closed election's results.
type CertifyElectionCommand struct {
	ElectionID  string
	CertifiedBy string
	Notes       string
}

// RevertCertificationCommand is the administrative override that reopens a
// certified election for further adjudication. Reason is mandatory and is
// persisted to the audit trail.
type RevertCertificationCommand struct {
	ElectionID string
	RevertedBy string
	Reason     string
}

// ElectionUseCase owns the election state machine: DRAFT, OPEN, CLOSED,
// CERTIFIED, with the administrative CLOSED rollback from CERTIFIED.
type ElectionUseCase struct {
	Elections      ports.ElectionRepository
	Candidates     ports.CandidateRepository
	Ballots        ports.BallotRepository
	Certifications ports.CertificationRepository
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

// Create registers a new election in DRAFT. The identifier is a
// caller-supplied short token and must be globally unique.
func (uc ElectionUseCase) Create(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	logger.Info("election create started",
		"event", "election_create_started",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"election_type", string(cmd.Type),
	)

	if electionID == "" || strings.ContainsAny(electionID, " \t\n") || len(electionID) > 64 {
		return entities.Election{}, domainerrors.ErrValidation
	}
	if !entities.ValidElectionType(cmd.Type) {
		return entities.Election{}, domainerrors.ErrValidation
	}
	if !cmd.IncludeHouse && !cmd.IncludeSenate && !cmd.IncludePresident {
		return entities.Election{}, domainerrors.ErrValidation
	}

	now := uc.now()
	election := entities.Election{
		ID:               electionID,
		Type:             cmd.Type,
		IncludeHouse:     cmd.IncludeHouse,
		IncludeSenate:    cmd.IncludeSenate,
		IncludePresident: cmd.IncludePresident,
		Status:           entities.ElectionStatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", election.ID,
		"election_type", string(election.Type),
		"created_by", strings.TrimSpace(cmd.CreatedBy),
	)
	return election, nil
}

// Open transitions DRAFT or CLOSED to OPEN. Already-open elections succeed as
// a no-op; certified elections stay locked.
func (uc ElectionUseCase) Open(ctx context.Context, electionID string) (entities.Election, error) {
	return uc.transition(ctx, electionID, entities.ElectionStatusOpen,
		[]entities.ElectionStatus{entities.ElectionStatusDraft, entities.ElectionStatusClosed})
}

// Close transitions OPEN to CLOSED. Already-closed elections succeed as a
// no-op; certified elections stay locked.
func (uc ElectionUseCase) Close(ctx context.Context, electionID string) (entities.Election, error) {
	return uc.transition(ctx, electionID, entities.ElectionStatusClosed,
		[]entities.ElectionStatus{entities.ElectionStatusOpen})
}

func (uc ElectionUseCase) transition(
	ctx context.Context,
	electionID string,
	to entities.ElectionStatus,
	from []entities.ElectionStatus,
) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID = strings.TrimSpace(electionID)

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrLocked
	}
	if election.Status == to {
		return election, nil
	}

	now := uc.now()
	moved, err := uc.Elections.TransitionElection(ctx, electionID, from, to, now)
	if err != nil {
		return entities.Election{}, err
	}
	if !moved {
		return entities.Election{}, domainerrors.ErrInvalidState
	}
	election.Status = to
	election.UpdatedAt = now

	logger.Info("election status changed",
		"event", "election_status_changed",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"status", string(to),
	)
	return election, nil
}

// Certify computes the full per-office results for every included office and
// persists the certification snapshot atomically with the CLOSED to CERTIFIED
// flip. Re-certification after a revert overwrites the previous snapshot.
func (uc ElectionUseCase) Certify(ctx context.Context, cmd CertifyElectionCommand) (entities.CertificationRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	certifiedBy := strings.TrimSpace(cmd.CertifiedBy)
	logger.Info("election certify started",
		"event", "election_certify_started",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"certified_by", certifiedBy,
	)
	if certifiedBy == "" {
		return entities.CertificationRecord{}, domainerrors.ErrValidation
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.CertificationRecord{}, err
	}
	if election.Status != entities.ElectionStatusClosed {
		return entities.CertificationRecord{}, domainerrors.ErrInvalidState
	}

	submitted, accepted, err := uc.Ballots.CountBallots(ctx, electionID)
	if err != nil {
		return entities.CertificationRecord{}, err
	}
	acceptedBallots, err := uc.Ballots.ListAcceptedBallots(ctx, electionID)
	if err != nil {
		return entities.CertificationRecord{}, err
	}

	results := make([]entities.OfficeResult, 0, 3)
	for _, office := range election.IncludedOffices() {
		candidates, err := uc.Candidates.ListCandidates(ctx, electionID, office)
		if err != nil {
			return entities.CertificationRecord{}, err
		}
		results = append(results, application.TabulateOffice(office, candidates, acceptedBallots))
	}

	now := uc.now()
	record := entities.CertificationRecord{
		ElectionID:       electionID,
		CertifiedBy:      certifiedBy,
		Notes:            strings.TrimSpace(cmd.Notes),
		SubmittedBallots: submitted,
		AcceptedBallots:  accepted,
		Results:          results,
		CertifiedAt:      now,
	}
	if err := uc.Certifications.SaveCertification(ctx, record); err != nil {
		return entities.CertificationRecord{}, err
	}

	if err := uc.appendEvent(ctx, EventElectionCertified, electionID, map[string]any{
		"election_id":       electionID,
		"certified_by":      certifiedBy,
		"submitted_ballots": submitted,
		"accepted_ballots":  accepted,
	}); err != nil {
		return entities.CertificationRecord{}, err
	}

	logger.Info("election certified",
		"event", "election_certified",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"certified_by", certifiedBy,
		"submitted_ballots", submitted,
		"accepted_ballots", accepted,
	)
	return record, nil
}

// RevertCertification moves CERTIFIED back to CLOSED. The prior snapshot is
// retained until a later re-certification supersedes it.
func (uc ElectionUseCase) RevertCertification(ctx context.Context, cmd RevertCertificationCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	reason := strings.TrimSpace(cmd.Reason)
	logger.Info("certification revert started",
		"event", "certification_revert_started",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"reverted_by", strings.TrimSpace(cmd.RevertedBy),
	)
	if reason == "" {
		return entities.Election{}, domainerrors.ErrValidation
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrInvalidState
	}

	now := uc.now()
	moved, err := uc.Elections.TransitionElection(ctx, electionID,
		[]entities.ElectionStatus{entities.ElectionStatusCertified},
		entities.ElectionStatusClosed, now)
	if err != nil {
		return entities.Election{}, err
	}
	if !moved {
		return entities.Election{}, domainerrors.ErrInvalidState
	}
	election.Status = entities.ElectionStatusClosed
	election.UpdatedAt = now

	if err := uc.appendEvent(ctx, EventCertificationReverted, electionID, map[string]any{
		"election_id": electionID,
		"reverted_by": strings.TrimSpace(cmd.RevertedBy),
		"reason":      reason,
	}); err != nil {
		return entities.Election{}, err
	}

	logger.Info("certification reverted",
		"event", "certification_reverted",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"reverted_by", strings.TrimSpace(cmd.RevertedBy),
		"reason", reason,
	)
	return election, nil
}

func (uc ElectionUseCase) now() time.Time {
	return resolveNow(uc.Clock)
}

func (uc ElectionUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newEngineEnvelope(eventID, eventType, partitionKey, uc.now(), data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
