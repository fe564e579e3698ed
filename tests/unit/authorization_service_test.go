package unit

import (
	"context"
	"errors"
	"testing"

	authorization "madison/contexts/identity-access/authorization-service"
	domainerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	authzhttp "madison/contexts/identity-access/authorization-service/transport/http"
)

func TestGrantAndCheckCapability(t *testing.T) {
	module := authorization.NewInMemoryModule(nil)
	ctx := context.Background()

	grant, err := module.Handler.GrantCapabilityHandler(ctx, "admin-1", authzhttp.GrantCapabilityRequest{
		ActorID:    "reviewer-7",
		Capability: "CAN_REVIEW",
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if grant.GrantID == "" || grant.GrantedBy != "admin-1" {
		t.Fatalf("unexpected grant %+v", grant)
	}

	check, err := module.Handler.CheckCapabilityHandler(ctx, "reviewer-7", "CAN_REVIEW")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !check.Allowed {
		t.Fatalf("expected capability allowed")
	}

	other, err := module.Handler.CheckCapabilityHandler(ctx, "reviewer-7", "CAN_ADMINISTER")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if other.Allowed {
		t.Fatalf("expected ungranted capability denied")
	}
}

func TestDuplicateGrantRejected(t *testing.T) {
	module := authorization.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Handler.GrantCapabilityHandler(ctx, "admin-1", authzhttp.GrantCapabilityRequest{
		ActorID: "voter-1", Capability: "CAN_VOTE",
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	_, err := module.Handler.GrantCapabilityHandler(ctx, "admin-2", authzhttp.GrantCapabilityRequest{
		ActorID: "voter-1", Capability: "CAN_VOTE",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateGrant) {
		t.Fatalf("expected duplicate grant, got %v", err)
	}
}

func TestRevokeCapability(t *testing.T) {
	module := authorization.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Handler.GrantCapabilityHandler(ctx, "admin-1", authzhttp.GrantCapabilityRequest{
		ActorID: "announcer-1", Capability: "CAN_ANNOUNCE",
	}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := module.Handler.RevokeCapabilityHandler(ctx, "admin-1", authzhttp.RevokeCapabilityRequest{
		ActorID: "announcer-1", Capability: "CAN_ANNOUNCE",
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	check, err := module.Handler.CheckCapabilityHandler(ctx, "announcer-1", "CAN_ANNOUNCE")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if check.Allowed {
		t.Fatalf("expected revoked capability denied")
	}

	err = module.Handler.RevokeCapabilityHandler(ctx, "admin-1", authzhttp.RevokeCapabilityRequest{
		ActorID: "announcer-1", Capability: "CAN_ANNOUNCE",
	})
	if !errors.Is(err, domainerrors.ErrGrantNotFound) {
		t.Fatalf("expected grant not found on double revoke, got %v", err)
	}

	// Re-grant after revoke starts a fresh grant and keeps history.
	if _, err := module.Handler.GrantCapabilityHandler(ctx, "admin-1", authzhttp.GrantCapabilityRequest{
		ActorID: "announcer-1", Capability: "CAN_ANNOUNCE",
	}); err != nil {
		t.Fatalf("re-grant failed: %v", err)
	}
	list, err := module.Handler.ListGrantsHandler(ctx, "announcer-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Grants) != 2 {
		t.Fatalf("expected revoked and active grants in history, got %d", len(list.Grants))
	}
}

func TestGrantValidation(t *testing.T) {
	module := authorization.NewInMemoryModule(nil)
	ctx := context.Background()

	cases := []authzhttp.GrantCapabilityRequest{
		{ActorID: "", Capability: "CAN_VOTE"},
		{ActorID: "actor-1", Capability: "CAN_FLY"},
		{ActorID: "actor-1", Capability: ""},
	}
	for i, req := range cases {
		if _, err := module.Handler.GrantCapabilityHandler(ctx, "admin-1", req); !errors.Is(err, domainerrors.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}
