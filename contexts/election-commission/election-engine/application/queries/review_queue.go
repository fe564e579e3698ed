package queries

import (
	"context"
	"strings"

	"madison/contexts/election-commission/election-engine/domain/entities"
	"madison/contexts/election-commission/election-engine/ports"
)

// ReviewQueueUseCase serves the first-come adjudication queue.
type ReviewQueueUseCase struct {
	Ballots ports.BallotRepository
}

// NextPending returns the oldest PENDING ballot by submission time. The
// boolean result is false when the queue is empty.
func (uc ReviewQueueUseCase) NextPending(ctx context.Context, electionID string) (entities.Ballot, bool, error) {
	return uc.Ballots.NextPending(ctx, strings.TrimSpace(electionID))
}

// Ballot returns a single ballot for reviewer display.
func (uc ReviewQueueUseCase) Ballot(ctx context.Context, ballotID string) (entities.Ballot, error) {
	return uc.Ballots.GetBallot(ctx, strings.TrimSpace(ballotID))
}
