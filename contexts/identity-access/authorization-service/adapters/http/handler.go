package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"madison/contexts/identity-access/authorization-service/application/commands"
	"madison/contexts/identity-access/authorization-service/application/queries"
	"madison/contexts/identity-access/authorization-service/domain/entities"
	httptransport "madison/contexts/identity-access/authorization-service/transport/http"
)

type Handler struct {
	Grants commands.GrantUseCase
	Check  queries.CheckUseCase
	Logger *slog.Logger
}

func (h Handler) GrantCapabilityHandler(
	ctx context.Context,
	actorID string,
	req httptransport.GrantCapabilityRequest,
) (httptransport.GrantResponse, error) {
	grant, err := h.Grants.Grant(ctx, commands.GrantCapabilityCommand{
		ActorID:    req.ActorID,
		Capability: entities.Capability(req.Capability),
		GrantedBy:  actorID,
	})
	if err != nil {
		return httptransport.GrantResponse{}, err
	}
	return grantResponse(grant), nil
}

func (h Handler) RevokeCapabilityHandler(
	ctx context.Context,
	actorID string,
	req httptransport.RevokeCapabilityRequest,
) error {
	return h.Grants.Revoke(ctx, commands.RevokeCapabilityCommand{
		ActorID:    req.ActorID,
		Capability: entities.Capability(req.Capability),
		RevokedBy:  actorID,
	})
}

func (h Handler) ListGrantsHandler(ctx context.Context, actorID string) (httptransport.GrantListResponse, error) {
	grants, err := h.Check.ListGrants(ctx, actorID)
	if err != nil {
		return httptransport.GrantListResponse{}, err
	}
	responses := make([]httptransport.GrantResponse, 0, len(grants))
	for _, grant := range grants {
		responses = append(responses, grantResponse(grant))
	}
	return httptransport.GrantListResponse{ActorID: actorID, Grants: responses}, nil
}

func (h Handler) CheckCapabilityHandler(
	ctx context.Context,
	actorID string,
	capability string,
) (httptransport.CapabilityCheckResponse, error) {
	allowed, err := h.Check.HasCapability(ctx, actorID, entities.Capability(capability))
	if err != nil {
		return httptransport.CapabilityCheckResponse{}, err
	}
	return httptransport.CapabilityCheckResponse{
		ActorID:    actorID,
		Capability: capability,
		Allowed:    allowed,
	}, nil
}

func grantResponse(grant entities.Grant) httptransport.GrantResponse {
	response := httptransport.GrantResponse{
		GrantID:    grant.GrantID,
		ActorID:    grant.ActorID,
		Capability: string(grant.Capability),
		GrantedBy:  grant.GrantedBy,
		GrantedAt:  grant.GrantedAt.UTC().Format(time.RFC3339),
		RevokedBy:  grant.RevokedBy,
	}
	if grant.RevokedAt != nil {
		response.RevokedAt = grant.RevokedAt.UTC().Format(time.RFC3339)
	}
	return response
}
