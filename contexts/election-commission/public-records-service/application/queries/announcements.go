package queries

import (
	"context"
	"log/slog"

	"madison/contexts/election-commission/public-records-service/domain/entities"
	"madison/contexts/election-commission/public-records-service/ports"
)

// AnnouncementsUseCase reads the public announcement record.
type AnnouncementsUseCase struct {
	Announcements ports.AnnouncementRepository
	Logger        *slog.Logger
}

func (uc AnnouncementsUseCase) List(ctx context.Context, channel string) ([]entities.Announcement, error) {
	return uc.Announcements.ListAnnouncements(ctx, channel)
}
