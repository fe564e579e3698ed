package ports

import (
	"context"
	"time"

	"madison/contexts/election-commission/public-records-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type AnnouncementRepository interface {
	InsertAnnouncement(ctx context.Context, announcement entities.Announcement) error
	ListAnnouncements(ctx context.Context, channel string) ([]entities.Announcement, error)
}

// AuditSink appends to the public record. Sink failures are logged by the
// caller and never roll back posted announcements.
type AuditSink interface {
	AppendAudit(ctx context.Context, entry entities.AuditEntry) error
}
