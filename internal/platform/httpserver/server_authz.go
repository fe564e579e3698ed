package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	authzentities "madison/contexts/identity-access/authorization-service/domain/entities"
	authzerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	authzhttp "madison/contexts/identity-access/authorization-service/transport/http"
)

func (s *Server) registerAuthzRoutes() {
	s.mux.HandleFunc("POST /api/authz/v1/grants",
		s.requireCapability(authzentities.CanAdminister, s.handleGrantCapability))
	s.mux.HandleFunc("POST /api/authz/v1/grants/revoke",
		s.requireCapability(authzentities.CanAdminister, s.handleRevokeCapability))
	s.mux.HandleFunc("GET /api/authz/v1/actors/{actor_id}/grants",
		s.requireCapability(authzentities.CanAdminister, s.handleListGrants))
	s.mux.HandleFunc("GET /api/authz/v1/actors/{actor_id}/check", s.handleCheckCapability)
}

func (s *Server) handleGrantCapability(w http.ResponseWriter, r *http.Request) {
	var req authzhttp.GrantCapabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.authorization.Handler.GrantCapabilityHandler(r.Context(), actorID(r), req)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeCapability(w http.ResponseWriter, r *http.Request) {
	var req authzhttp.RevokeCapabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthzError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.authorization.Handler.RevokeCapabilityHandler(r.Context(), actorID(r), req); err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGrants(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authorization.Handler.ListGrantsHandler(r.Context(), r.PathValue("actor_id"))
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckCapability(w http.ResponseWriter, r *http.Request) {
	resp, err := s.authorization.Handler.CheckCapabilityHandler(
		r.Context(),
		r.PathValue("actor_id"),
		r.URL.Query().Get("capability"),
	)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrValidation):
		writeAuthzError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrDuplicateGrant):
		writeAuthzError(w, http.StatusConflict, "duplicate_grant", err.Error())
	case errors.Is(err, authzerrors.ErrGrantNotFound):
		writeAuthzError(w, http.StatusNotFound, "grant_not_found", err.Error())
	case errors.Is(err, authzerrors.ErrStorageUnavailable):
		writeAuthzError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeAuthzError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuthzError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, authzhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
