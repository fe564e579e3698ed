package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	electionengine "madison/contexts/election-commission/election-engine"
	engineapp "madison/contexts/election-commission/election-engine/application"
	publicrecords "madison/contexts/election-commission/public-records-service"
	authorization "madison/contexts/identity-access/authorization-service"
	authzentities "madison/contexts/identity-access/authorization-service/domain/entities"
)

func newTestServer() (*Server, authorization.Module, publicrecords.Module) {
	engine := electionengine.NewInMemoryModule(engineapp.Config{}, nil)
	records := publicrecords.NewInMemoryModule(nil)
	authz := authorization.NewInMemoryModule(nil)
	server := New(engine, records, authz, nil, ":0")
	return server, authz, records
}

func TestCreateElectionRequiresActorHeader(t *testing.T) {
	server, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/elections/v1/elections",
		strings.NewReader(`{"election_id":"e1","type":"GENERAL","include_house":true}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor header, got %d", rec.Code)
	}
}

func TestCreateElectionDeniedWithoutCapability(t *testing.T) {
	server, _, records := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/elections/v1/elections",
		strings.NewReader(`{"election_id":"e1","type":"GENERAL","include_house":true}`))
	req.Header.Set("X-Actor-Id", "intruder-9")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without grant, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FEC-") {
		t.Fatalf("expected case reference in denial, got %s", rec.Body.String())
	}
	if entries := records.Store.AuditEntries(); len(entries) != 1 {
		t.Fatalf("expected denial recorded in audit trail, got %d entries", len(entries))
	}
}

func TestCreateElectionAllowedWithGrant(t *testing.T) {
	server, authz, _ := newTestServer()
	authz.Store.Seed("chair-1", authzentities.CanAdminister)

	req := httptest.NewRequest(http.MethodPost, "/api/elections/v1/elections",
		strings.NewReader(`{"election_id":"e1","type":"GENERAL","include_house":true}`))
	req.Header.Set("X-Actor-Id", "chair-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with grant, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if payload["status"] != "DRAFT" {
		t.Fatalf("expected DRAFT election, got %v", payload["status"])
	}
}

func TestResultsEndpointIsPublic(t *testing.T) {
	server, authz, _ := newTestServer()
	authz.Store.Seed("chair-1", authzentities.CanAdminister)

	create := httptest.NewRequest(http.MethodPost, "/api/elections/v1/elections",
		strings.NewReader(`{"election_id":"e1","type":"GENERAL","include_president":true}`))
	create.Header.Set("X-Actor-Id", "chair-1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed election failed: %d", rec.Code)
	}

	stats := httptest.NewRequest(http.MethodGet, "/api/elections/v1/elections/e1/stats", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, stats)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public stats endpoint, got %d", rec.Code)
	}
}
