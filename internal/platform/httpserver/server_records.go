package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	recordserrors "madison/contexts/election-commission/public-records-service/domain/errors"
	recordshttp "madison/contexts/election-commission/public-records-service/transport/http"
	authzentities "madison/contexts/identity-access/authorization-service/domain/entities"
)

func (s *Server) registerRecordsRoutes() {
	s.mux.HandleFunc("POST /api/records/v1/announcements",
		s.requireCapability(authzentities.CanAnnounce, s.handlePublishAnnouncement))
	s.mux.HandleFunc("GET /api/records/v1/announcements", s.handleListAnnouncements)
}

func (s *Server) handlePublishAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req recordshttp.PublishAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRecordsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.records.Handler.PublishAnnouncementHandler(r.Context(), actorID(r), req)
	if err != nil {
		writeRecordsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	resp, err := s.records.Handler.ListAnnouncementsHandler(r.Context(), r.URL.Query().Get("channel"))
	if err != nil {
		writeRecordsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRecordsDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recordserrors.ErrInvalidAnnouncement):
		writeRecordsError(w, http.StatusBadRequest, "invalid_announcement", err.Error())
	case errors.Is(err, recordserrors.ErrChannelNotApproved):
		writeRecordsError(w, http.StatusForbidden, "channel_not_approved", err.Error())
	case errors.Is(err, recordserrors.ErrStorageUnavailable):
		writeRecordsError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeRecordsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRecordsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, recordshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
