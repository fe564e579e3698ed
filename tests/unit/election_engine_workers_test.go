package unit

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"madison/contexts/election-commission/election-engine/adapters/memory"
	"madison/contexts/election-commission/election-engine/application/queries"
	"madison/contexts/election-commission/election-engine/application/workers"
	"madison/contexts/election-commission/election-engine/ports"
	httptransport "madison/contexts/election-commission/election-engine/transport/http"
	"madison/internal/platform/messaging"
	"madison/internal/shared/events"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestReportRefreshThrottle(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", false, false, true)
	president := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})
	openElection(t, module, "general-2026")
	if _, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", PresidentChoice: president.CandidateID,
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	clock := &fakeClock{now: time.Date(2026, 11, 3, 20, 0, 0, 0, time.UTC)}
	publisher := memory.NewReportPublisher()
	refresher := workers.ReportRefresher{
		Elections: module.Store,
		Results: queries.ResultsUseCase{
			Elections:      module.Store,
			Candidates:     module.Store,
			Ballots:        module.Store,
			Certifications: module.Store,
		},
		Publisher: publisher,
		Clock:     clock,
		Interval:  30 * time.Second,
	}

	first, err := refresher.Refresh(ctx, "general-2026")
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if !first.Refreshed || first.MessageRef == "" {
		t.Fatalf("expected first refresh to publish, got %+v", first)
	}

	clock.Advance(10 * time.Second)
	second, err := refresher.Refresh(ctx, "general-2026")
	if err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if !second.Suppressed {
		t.Fatalf("expected suppression inside interval, got %+v", second)
	}
	if second.MessageRef != first.MessageRef {
		t.Fatalf("suppressed outcome should keep the previous message ref")
	}

	clock.Advance(30 * time.Second)
	third, err := refresher.Refresh(ctx, "general-2026")
	if err != nil {
		t.Fatalf("third refresh failed: %v", err)
	}
	if !third.Refreshed {
		t.Fatalf("expected refresh after interval elapsed, got %+v", third)
	}
	if got := len(publisher.Published()); got != 2 {
		t.Fatalf("expected 2 published reports, got %d", got)
	}
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Events() []ports.EventEnvelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.EventEnvelope(nil), p.events...)
}

func TestOutboxRelayPublishesPendingRows(t *testing.T) {
	module := newEngineModule()
	ctx := context.Background()
	createElection(t, module, "general-2026", false, false, true)
	president := registerCandidate(t, module, "general-2026", httptransport.RegisterCandidateRequest{
		Office: "PRESIDENT", Name: "Eve Franklin", Party: "Unity",
	})
	openElection(t, module, "general-2026")
	if _, err := module.Handler.SubmitBallotHandler(ctx, "general-2026", httptransport.SubmitBallotRequest{
		VoterID: "voter-1", PresidentChoice: president.CandidateID,
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if pending := module.Store.PendingOutboxTypes(); len(pending) == 0 {
		t.Fatalf("expected pending outbox rows after submission")
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	published := publisher.Events()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	if published[0].EventType != events.TopicBallotSubmitted {
		t.Fatalf("unexpected event type %s", published[0].EventType)
	}
	var payload map[string]any
	if err := json.Unmarshal(published[0].Data, &payload); err != nil {
		t.Fatalf("event payload decode failed: %v", err)
	}
	if _, ok := payload["president_choice"]; ok {
		t.Fatalf("ballot submitted event must not carry selections")
	}

	if pending := module.Store.PendingOutboxTypes(); len(pending) != 0 {
		t.Fatalf("expected outbox drained, still pending: %v", pending)
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if got := len(publisher.Events()); got != 1 {
		t.Fatalf("expected no re-publish of drained rows, got %d events", got)
	}
}

func TestInProcessBusDeliversToSubscriber(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("bus init failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, events.TopicBallotReviewed, events.GroupReportRefresh, func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sent := ports.EventEnvelope{
		EventID:      "evt-1",
		EventType:    events.TopicBallotReviewed,
		PartitionKey: "general-2026",
		OccurredAt:   time.Now().UTC(),
		Data:         json.RawMessage(`{"election_id":"general-2026","decision":"ACCEPTED"}`),
	}
	if err := bus.Publish(ctx, events.TopicBallotReviewed, sent); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != sent.EventID {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event was not delivered to subscriber")
	}
}
