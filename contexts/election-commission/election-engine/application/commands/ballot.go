package commands

import (
	"context"
	"log/slog"
	"strings"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"
)

// SubmitBallotCommand carries one voter's selections. House and Senate
// selections are candidate reference sets; President is a single reference.
type SubmitBallotCommand struct {
	ElectionID      string
	VoterID         string
	VoterName       string
	HouseChoices    []string
	SenateChoices   []string
	PresidentChoice string
}

// ReviewBallotCommand resolves a PENDING ballot. Reason is required for
// rejections only.
type ReviewBallotCommand struct {
	BallotID   string
	ReviewerID string
	Reason     string
}

// BallotUseCase owns ballot intake and the adjudication protocol. Both the
// one-ballot-per-voter invariant and the exactly-once review are enforced by
// the storage layer, never by a read-then-write in this code.
type BallotUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Ballots    ports.BallotRepository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Config     application.Config
	Logger     *slog.Logger
}

// Submit accepts one ballot per voter per election. Selections are
// deduplicated and truncated to the per-office cap; overflow is dropped, not
// rejected, to tolerate noisy client selection widgets. The success event
// carries voter identity and ballot id only, never ballot contents.
func (uc BallotUseCase) Submit(ctx context.Context, cmd SubmitBallotCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	cfg := uc.Config.Normalized()
	electionID := strings.TrimSpace(cmd.ElectionID)
	voterID := strings.TrimSpace(cmd.VoterID)

	logger.Info("ballot submit started",
		"event", "ballot_submit_started",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"voter_id", voterID,
	)

	if electionID == "" || voterID == "" {
		return entities.Ballot{}, domainerrors.ErrValidation
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Ballot{}, err
	}
	switch election.Status {
	case entities.ElectionStatusOpen:
	case entities.ElectionStatusCertified:
		return entities.Ballot{}, domainerrors.ErrLocked
	default:
		return entities.Ballot{}, domainerrors.ErrInvalidState
	}

	house := dedupeAndCap(cmd.HouseChoices, cfg.HouseSelectionCap)
	senate := dedupeAndCap(cmd.SenateChoices, cfg.SenateSelectionCap)
	president := strings.TrimSpace(cmd.PresidentChoice)
	if !election.IncludeHouse {
		house = nil
	}
	if !election.IncludeSenate {
		senate = nil
	}
	if !election.IncludePresident {
		president = ""
	}

	if len(house) == 0 && len(senate) == 0 && president == "" {
		return entities.Ballot{}, domainerrors.ErrValidation
	}

	if err := uc.verifySelections(ctx, electionID, entities.OfficeHouse, house); err != nil {
		return entities.Ballot{}, err
	}
	if err := uc.verifySelections(ctx, electionID, entities.OfficeSenate, senate); err != nil {
		return entities.Ballot{}, err
	}
	if president != "" {
		if err := uc.verifySelections(ctx, electionID, entities.OfficePresident, []string{president}); err != nil {
			return entities.Ballot{}, err
		}
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Ballot{}, err
	}
	ballot := entities.Ballot{
		BallotID:        ballotID,
		ElectionID:      electionID,
		VoterID:         voterID,
		VoterName:       strings.TrimSpace(cmd.VoterName),
		HouseChoices:    house,
		SenateChoices:   senate,
		PresidentChoice: president,
		ReviewStatus:    entities.ReviewStatusPending,
		SubmittedAt:     resolveNow(uc.Clock),
	}
	if err := uc.Ballots.InsertBallot(ctx, ballot); err != nil {
		return entities.Ballot{}, err
	}

	if err := uc.appendEvent(ctx, EventBallotSubmitted, electionID, map[string]any{
		"election_id": electionID,
		"ballot_id":   ballot.BallotID,
		"voter_id":    voterID,
		"voter_name":  ballot.VoterName,
	}); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("ballot submitted",
		"event", "ballot_submitted",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", electionID,
		"ballot_id", ballot.BallotID,
		"voter_id", voterID,
	)
	return ballot, nil
}

// Accept resolves a PENDING ballot as ACCEPTED. When a concurrent reviewer
// already resolved the ballot, the loser receives ErrAlreadyReviewed and the
// prior decision stands.
func (uc BallotUseCase) Accept(ctx context.Context, cmd ReviewBallotCommand) (entities.Ballot, error) {
	return uc.review(ctx, cmd, entities.ReviewStatusAccepted)
}

// Reject resolves a PENDING ballot as REJECTED with a mandatory reason.
func (uc BallotUseCase) Reject(ctx context.Context, cmd ReviewBallotCommand) (entities.Ballot, error) {
	cfg := uc.Config.Normalized()
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" || len(reason) > cfg.MaxRejectReasonLength {
		return entities.Ballot{}, domainerrors.ErrValidation
	}
	cmd.Reason = reason
	return uc.review(ctx, cmd, entities.ReviewStatusRejected)
}

func (uc BallotUseCase) review(
	ctx context.Context,
	cmd ReviewBallotCommand,
	to entities.ReviewStatus,
) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	ballotID := strings.TrimSpace(cmd.BallotID)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	if ballotID == "" || reviewerID == "" {
		return entities.Ballot{}, domainerrors.ErrValidation
	}

	ballot, err := uc.Ballots.GetBallot(ctx, ballotID)
	if err != nil {
		return entities.Ballot{}, err
	}
	election, err := uc.Elections.GetElection(ctx, ballot.ElectionID)
	if err != nil {
		return entities.Ballot{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Ballot{}, domainerrors.ErrLocked
	}

	now := resolveNow(uc.Clock)
	won, err := uc.Ballots.ReviewBallot(ctx, ballotID, to, reviewerID, cmd.Reason, now)
	if err != nil {
		return entities.Ballot{}, err
	}
	if !won {
		logger.Info("ballot review lost race",
			"event", "ballot_review_already_resolved",
			"module", "election-commission/election-engine",
			"layer", "application",
			"ballot_id", ballotID,
			"reviewer_id", reviewerID,
			"decision", string(to),
		)
		return entities.Ballot{}, domainerrors.ErrAlreadyReviewed
	}

	ballot.ReviewStatus = to
	ballot.ReviewedBy = reviewerID
	ballot.ReviewReason = cmd.Reason
	ballot.ReviewedAt = &now

	if err := uc.appendEvent(ctx, EventBallotReviewed, ballot.ElectionID, map[string]any{
		"election_id": ballot.ElectionID,
		"ballot_id":   ballotID,
		"reviewer_id": reviewerID,
		"decision":    string(to),
	}); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("ballot reviewed",
		"event", "ballot_reviewed",
		"module", "election-commission/election-engine",
		"layer", "application",
		"election_id", ballot.ElectionID,
		"ballot_id", ballotID,
		"reviewer_id", reviewerID,
		"decision", string(to),
	)
	return ballot, nil
}

func (uc BallotUseCase) verifySelections(
	ctx context.Context,
	electionID string,
	office entities.Office,
	selections []string,
) error {
	if len(selections) == 0 {
		return nil
	}
	candidates, err := uc.Candidates.ListCandidates(ctx, electionID, office)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		known[candidate.CandidateID] = struct{}{}
	}
	for _, candidateID := range selections {
		if _, ok := known[candidateID]; !ok {
			return domainerrors.ErrValidation
		}
	}
	return nil
}

func (uc BallotUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newEngineEnvelope(eventID, eventType, partitionKey, resolveNow(uc.Clock), data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

// dedupeAndCap removes repeated references preserving first-seen order, then
// keeps at most limit entries.
func dedupeAndCap(selections []string, limit int) []string {
	seen := make(map[string]struct{}, len(selections))
	out := make([]string, 0, len(selections))
	for _, raw := range selections {
		candidateID := strings.TrimSpace(raw)
		if candidateID == "" {
			continue
		}
		if _, ok := seen[candidateID]; ok {
			continue
		}
		seen[candidateID] = struct{}{}
		out = append(out, candidateID)
		if len(out) == limit {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
