package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"madison/contexts/election-commission/public-records-service/application/commands"
	"madison/contexts/election-commission/public-records-service/application/queries"
	"madison/contexts/election-commission/public-records-service/domain/entities"
	httptransport "madison/contexts/election-commission/public-records-service/transport/http"
)

type Handler struct {
	Announce      commands.AnnounceUseCase
	Announcements queries.AnnouncementsUseCase
	Logger        *slog.Logger
}

func (h Handler) PublishAnnouncementHandler(
	ctx context.Context,
	actorID string,
	req httptransport.PublishAnnouncementRequest,
) (httptransport.AnnouncementResponse, error) {
	result, err := h.Announce.Publish(ctx, commands.PublishAnnouncementCommand{
		ActorID: actorID,
		Channel: req.Channel,
		Title:   req.Title,
		Body:    req.Body,
	})
	if err != nil {
		return httptransport.AnnouncementResponse{}, err
	}
	response := announcementResponse(result.Announcement)
	response.Rendered = result.Rendered
	return response, nil
}

func (h Handler) ListAnnouncementsHandler(
	ctx context.Context,
	channel string,
) (httptransport.AnnouncementListResponse, error) {
	items, err := h.Announcements.List(ctx, channel)
	if err != nil {
		return httptransport.AnnouncementListResponse{}, err
	}
	responses := make([]httptransport.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, announcementResponse(item))
	}
	return httptransport.AnnouncementListResponse{
		Channel:       channel,
		Announcements: responses,
	}, nil
}

// RecordUnauthorizedAttempt is called by the dispatch layer when an actor
// without the required capability tries a protected operation.
func (h Handler) RecordUnauthorizedAttempt(ctx context.Context, actorID string, detail string) string {
	return h.Announce.RecordUnauthorizedAttempt(ctx, actorID, detail)
}

func announcementResponse(announcement entities.Announcement) httptransport.AnnouncementResponse {
	return httptransport.AnnouncementResponse{
		AnnouncementID: announcement.AnnouncementID,
		Channel:        announcement.Channel,
		Title:          announcement.Title,
		Body:           announcement.Body,
		PostedBy:       announcement.PostedBy,
		PostedAt:       announcement.PostedAt.UTC().Format(time.RFC3339),
	}
}
