package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/application/queries"
	"madison/contexts/election-commission/election-engine/ports"
)

// RefreshOutcome tells the caller whether the public report was republished
// or the attempt was suppressed by the throttle.
type RefreshOutcome struct {
	Refreshed  bool
	Suppressed bool
	MessageRef string
}

// ReportRefresher republishes an election's public report at most once per
// interval. Faster callers are told suppressed, not queued; the next accepted
// review after the interval elapses triggers the next refresh. The throttle
// slot is claimed with a single conditional update so concurrent refresh
// attempts elect exactly one publisher.
type ReportRefresher struct {
	Elections ports.ElectionRepository
	Results   queries.ResultsUseCase
	Publisher ports.ReportPublisher
	Clock     ports.Clock
	Interval  time.Duration
	Logger    *slog.Logger
}

func (r ReportRefresher) Refresh(ctx context.Context, electionID string) (RefreshOutcome, error) {
	logger := application.ResolveLogger(r.Logger)
	electionID = strings.TrimSpace(electionID)
	interval := r.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	election, err := r.Elections.GetElection(ctx, electionID)
	if err != nil {
		return RefreshOutcome{}, err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	claimed, err := r.Elections.ClaimReportSlot(ctx, electionID, now, interval)
	if err != nil {
		return RefreshOutcome{}, err
	}
	if !claimed {
		logger.Debug("report refresh suppressed",
			"event", "report_refresh_suppressed",
			"module", "election-commission/election-engine",
			"layer", "worker",
			"election_id", electionID,
		)
		return RefreshOutcome{Suppressed: true, MessageRef: election.ReportMessageRef}, nil
	}

	report, err := r.Results.LiveReport(ctx, electionID)
	if err != nil {
		return RefreshOutcome{}, err
	}
	report.GeneratedAt = now

	messageRef, err := r.Publisher.PublishReport(ctx, report, election.ReportMessageRef)
	if err != nil {
		// The throttle slot stays consumed; the next interval retries.
		logger.Error("report publish failed",
			"event", "report_publish_failed",
			"module", "election-commission/election-engine",
			"layer", "worker",
			"election_id", electionID,
			"error", err.Error(),
		)
		return RefreshOutcome{}, err
	}
	if err := r.Elections.SetReportMessageRef(ctx, electionID, messageRef, now); err != nil {
		return RefreshOutcome{}, err
	}

	logger.Info("report refreshed",
		"event", "report_refreshed",
		"module", "election-commission/election-engine",
		"layer", "worker",
		"election_id", electionID,
		"message_ref", messageRef,
		"submitted", report.Stats.Submitted,
		"accepted", report.Stats.Accepted,
	)
	return RefreshOutcome{Refreshed: true, MessageRef: messageRef}, nil
}
