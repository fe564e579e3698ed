package ports

import (
	"context"
	"time"

	"madison/contexts/identity-access/authorization-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// GrantRepository stores capability grants. InsertGrant enforces one active
// grant per (actor, capability) and returns the duplicate sentinel on
// conflict. RevokeGrant flips only active grants and reports whether any row
// changed.
type GrantRepository interface {
	InsertGrant(ctx context.Context, grant entities.Grant) error
	RevokeGrant(ctx context.Context, actorID string, capability entities.Capability, revokedBy string, at time.Time) (bool, error)
	ListGrants(ctx context.Context, actorID string) ([]entities.Grant, error)
	HasCapability(ctx context.Context, actorID string, capability entities.Capability) (bool, error)
}
