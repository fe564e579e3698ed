package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"madison/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	"madison/contexts/identity-access/authorization-service/ports"
)

type GrantCapabilityCommand struct {
	ActorID    string
	Capability entities.Capability
	GrantedBy  string
}

type RevokeCapabilityCommand struct {
	ActorID    string
	Capability entities.Capability
	RevokedBy  string
}

// GrantUseCase manages the commission's capability grants.
type GrantUseCase struct {
	Grants ports.GrantRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc GrantUseCase) Grant(ctx context.Context, cmd GrantCapabilityCommand) (entities.Grant, error) {
	actorID := strings.TrimSpace(cmd.ActorID)
	grantedBy := strings.TrimSpace(cmd.GrantedBy)
	if actorID == "" || grantedBy == "" || !entities.ValidCapability(cmd.Capability) {
		return entities.Grant{}, domainerrors.ErrValidation
	}
	grantID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Grant{}, err
	}
	grant := entities.Grant{
		GrantID:    grantID,
		ActorID:    actorID,
		Capability: cmd.Capability,
		GrantedBy:  grantedBy,
		GrantedAt:  uc.now(),
	}
	if err := uc.Grants.InsertGrant(ctx, grant); err != nil {
		return entities.Grant{}, err
	}
	uc.logger().InfoContext(ctx, "capability granted",
		"event", "authz_capability_granted",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"actor_id", actorID,
		"capability", string(cmd.Capability),
		"granted_by", grantedBy,
	)
	return grant, nil
}

func (uc GrantUseCase) Revoke(ctx context.Context, cmd RevokeCapabilityCommand) error {
	actorID := strings.TrimSpace(cmd.ActorID)
	revokedBy := strings.TrimSpace(cmd.RevokedBy)
	if actorID == "" || revokedBy == "" || !entities.ValidCapability(cmd.Capability) {
		return domainerrors.ErrValidation
	}
	revoked, err := uc.Grants.RevokeGrant(ctx, actorID, cmd.Capability, revokedBy, uc.now())
	if err != nil {
		return err
	}
	if !revoked {
		return domainerrors.ErrGrantNotFound
	}
	uc.logger().InfoContext(ctx, "capability revoked",
		"event", "authz_capability_revoked",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"actor_id", actorID,
		"capability", string(cmd.Capability),
		"revoked_by", revokedBy,
	)
	return nil
}

func (uc GrantUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc GrantUseCase) logger() *slog.Logger {
	if uc.Logger == nil {
		return slog.Default()
	}
	return uc.Logger
}
