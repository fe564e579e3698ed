package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	electionengine "madison/contexts/election-commission/election-engine"
	engineerrors "madison/contexts/election-commission/election-engine/domain/errors"
	enginehttp "madison/contexts/election-commission/election-engine/transport/http"
	publicrecords "madison/contexts/election-commission/public-records-service"
	authorization "madison/contexts/identity-access/authorization-service"
	authzentities "madison/contexts/identity-access/authorization-service/domain/entities"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "madison/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	engine        electionengine.Module
	records       publicrecords.Module
	authorization authorization.Module
}

func New(
	engine electionengine.Module,
	records publicrecords.Module,
	authorizationModule authorization.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		engine:        engine,
		records:       records,
		authorization: authorizationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/elections/v1/elections",
		s.requireCapability(authzentities.CanAdminister, s.handleCreateElection))
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/open",
		s.requireCapability(authzentities.CanAdminister, s.handleOpenElection))
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/close",
		s.requireCapability(authzentities.CanAdminister, s.handleCloseElection))
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/certify",
		s.requireCapability(authzentities.CanAdminister, s.handleCertifyElection))
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/revert-certification",
		s.requireCapability(authzentities.CanAdminister, s.handleRevertCertification))
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/candidates",
		s.requireCapability(authzentities.CanAdminister, s.handleRegisterCandidate))

	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/ballots",
		s.requireCapability(authzentities.CanVote, s.handleSubmitBallot))
	s.mux.HandleFunc("GET /api/elections/v1/review/next",
		s.requireCapability(authzentities.CanReview, s.handleNextPending))
	s.mux.HandleFunc("GET /api/elections/v1/ballots/{ballot_id}",
		s.requireCapability(authzentities.CanReview, s.handleGetBallot))
	s.mux.HandleFunc("POST /api/elections/v1/ballots/{ballot_id}/accept",
		s.requireCapability(authzentities.CanReview, s.handleAcceptBallot))
	s.mux.HandleFunc("POST /api/elections/v1/ballots/{ballot_id}/reject",
		s.requireCapability(authzentities.CanReview, s.handleRejectBallot))

	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/results/{office}", s.handleOfficeResults)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/stats", s.handleReportingStats)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/offices", s.handleOfficeInclusion)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/certification", s.handleGetCertification)

	s.registerRecordsRoutes()
	s.registerAuthzRoutes()
}

// requireCapability resolves the actor from X-Actor-Id and rejects the call
// unless the capability is granted. Denied attempts land in the public
// record with a case reference the actor can quote.
func (s *Server) requireCapability(capability authzentities.Capability, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
		if actorID == "" {
			writeEngineError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
			return
		}
		allowed, err := s.authorization.Check.HasCapability(r.Context(), actorID, capability)
		if err != nil {
			writeEngineError(w, http.StatusInternalServerError, "authorization_unavailable", "capability check failed")
			return
		}
		if !allowed {
			caseRef := s.records.Handler.RecordUnauthorizedAttempt(
				r.Context(),
				actorID,
				r.Method+" "+r.URL.Path+" requires "+string(capability),
			)
			s.logger.Warn("capability denied",
				"event", "http_capability_denied",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"actor_id", actorID,
				"capability", string(capability),
				"case_ref", caseRef,
			)
			writeJSON(w, http.StatusForbidden, enginehttp.ErrorResponse{
				Code:    "forbidden",
				Message: "actor lacks " + string(capability) + " (case " + caseRef + ")",
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.CreateElectionHandler(r.Context(), actorID(r), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleOpenElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.OpenElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.CloseElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCertifyElection(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.CertifyElectionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.CertifyElectionHandler(r.Context(), r.PathValue("election_id"), actorID(r), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevertCertification(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.RevertCertificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.RevertCertificationHandler(r.Context(), r.PathValue("election_id"), actorID(r), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.RegisterCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.RegisterCandidateHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.SubmitBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.VoterID) == "" {
		req.VoterID = actorID(r)
	}
	resp, err := s.engine.Handler.SubmitBallotHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleNextPending(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.NextPendingHandler(r.Context(), r.URL.Query().Get("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.BallotHandler(r.Context(), r.PathValue("ballot_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptBallot(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.AcceptBallotHandler(r.Context(), r.PathValue("ballot_id"), actorID(r))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectBallot(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.RejectBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.RejectBallotHandler(r.Context(), r.PathValue("ballot_id"), actorID(r), req)
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOfficeResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.OfficeResultsHandler(r.Context(), r.PathValue("election_id"), r.PathValue("office"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportingStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.ReportingStatsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOfficeInclusion(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.OfficeInclusionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCertification(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.CertificationHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeEngineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeEngineDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engineerrors.ErrElectionNotFound),
		errors.Is(err, engineerrors.ErrCandidateNotFound),
		errors.Is(err, engineerrors.ErrBallotNotFound),
		errors.Is(err, engineerrors.ErrCertificationNotFound):
		writeEngineError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, engineerrors.ErrValidation):
		writeEngineError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, engineerrors.ErrDuplicate):
		writeEngineError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, engineerrors.ErrAlreadyReviewed):
		writeEngineError(w, http.StatusConflict, "already_reviewed", err.Error())
	case errors.Is(err, engineerrors.ErrInvalidState):
		writeEngineError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, engineerrors.ErrLocked):
		writeEngineError(w, http.StatusLocked, "election_locked", err.Error())
	case errors.Is(err, engineerrors.ErrStorageUnavailable):
		writeEngineError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeEngineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEngineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func actorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor-Id"))
}

func decodeOptionalBody(r *http.Request, target any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
