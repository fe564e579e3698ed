package commands

import (
	"encoding/json"
	"strings"
	"time"

	"madison/contexts/election-commission/election-engine/ports"
)

const (
	EventBallotSubmitted       = "ballot.submitted"
	EventBallotReviewed        = "ballot.reviewed"
	EventElectionCertified     = "election.certified"
	EventCertificationReverted = "election.certification_reverted"
)

const (
	eventSourceService = "election-engine"
	eventSchemaVersion = 1
)

func newEngineEnvelope(
	eventID string,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       strings.TrimSpace(eventID),
		EventType:     strings.TrimSpace(eventType),
		OccurredAt:    occurredAt.UTC(),
		SourceService: eventSourceService,
		SchemaVersion: eventSchemaVersion,
		PartitionKey:  strings.TrimSpace(partitionKey),
		Data:          payload,
	}, nil
}
