package queries

import (
	"context"
	"strings"

	"madison/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	"madison/contexts/identity-access/authorization-service/ports"
)

// CheckUseCase resolves actor capabilities for the command-dispatch layer.
type CheckUseCase struct {
	Grants ports.GrantRepository
}

func (uc CheckUseCase) HasCapability(ctx context.Context, actorID string, capability entities.Capability) (bool, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" || !entities.ValidCapability(capability) {
		return false, domainerrors.ErrValidation
	}
	return uc.Grants.HasCapability(ctx, actorID, capability)
}

func (uc CheckUseCase) ListGrants(ctx context.Context, actorID string) ([]entities.Grant, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, domainerrors.ErrValidation
	}
	return uc.Grants.ListGrants(ctx, actorID)
}
