package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	application "madison/contexts/election-commission/election-engine/application"
	"madison/contexts/election-commission/election-engine/application/commands"
	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"
)

// ReviewedEventConsumer listens for ballot review events and drives the
// throttled live report. Suppression is the normal case inside a refresh
// window and is not treated as a failure.
type ReviewedEventConsumer struct {
	Subscriber    ports.EventSubscriber
	Refresher     ReportRefresher
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ReviewedEventConsumer) Start(ctx context.Context) error {
	topic := c.Topic
	if topic == "" {
		topic = commands.EventBallotReviewed
	}
	return c.Subscriber.Subscribe(ctx, topic, c.ConsumerGroup, c.handle)
}

func (c ReviewedEventConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload struct {
		ElectionID string `json:"election_id"`
		Decision   string `json:"decision"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Warn("review event payload malformed",
			"event", "review_consumer_decode_failed",
			"module", "election-commission/election-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	if payload.Decision != string(entities.ReviewStatusAccepted) {
		return nil
	}
	electionID := strings.TrimSpace(payload.ElectionID)
	if electionID == "" {
		return nil
	}

	outcome, err := c.Refresher.Refresh(ctx, electionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return nil
		}
		logger.Error("report refresh from review event failed",
			"event", "review_consumer_refresh_failed",
			"module", "election-commission/election-engine",
			"layer", "worker",
			"election_id", electionID,
			"error", err.Error(),
		)
		return err
	}
	if outcome.Suppressed {
		logger.Debug("report refresh suppressed by throttle",
			"event", "review_consumer_refresh_suppressed",
			"module", "election-commission/election-engine",
			"layer", "worker",
			"election_id", electionID,
		)
	}
	return nil
}
