package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"madison/contexts/election-commission/public-records-service/domain/entities"
	domerrors "madison/contexts/election-commission/public-records-service/domain/errors"
	"madison/contexts/election-commission/public-records-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) InsertAnnouncement(ctx context.Context, announcement entities.Announcement) error {
	model := toAnnouncementModel(announcement)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return r.logError(ctx, "insert_announcement", err)
	}
	return nil
}

func (r *Repository) ListAnnouncements(ctx context.Context, channel string) ([]entities.Announcement, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	query := r.db.WithContext(ctx).Model(&announcementModel{})
	if channel != "" {
		query = query.Where("channel = ?", channel)
	}
	var models []announcementModel
	if err := query.Order("posted_at asc").Find(&models).Error; err != nil {
		return nil, r.logError(ctx, "list_announcements", err)
	}
	items := make([]entities.Announcement, 0, len(models))
	for _, model := range models {
		items = append(items, toAnnouncementEntity(model))
	}
	return items, nil
}

func (r *Repository) AppendAudit(ctx context.Context, entry entities.AuditEntry) error {
	model := toAuditModel(entry)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return r.logError(ctx, "append_audit", err)
	}
	return nil
}

func (r *Repository) logError(ctx context.Context, operation string, err error) error {
	r.logger.ErrorContext(ctx, "public records storage failure",
		"event", "storage_error",
		"module", "public-records-service",
		"layer", "adapters.postgres",
		"operation", operation,
		"error", err,
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return domerrors.ErrStorageUnavailable
	}
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.AnnouncementRepository = (*Repository)(nil)
var _ ports.AuditSink = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
