package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"madison/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "madison/contexts/identity-access/authorization-service/domain/errors"
	"madison/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type grantModel struct {
	GrantID    string     `gorm:"column:grant_id;primaryKey"`
	ActorID    string     `gorm:"column:actor_id;index:idx_grant_actor"`
	Capability string     `gorm:"column:capability;index:idx_grant_actor"`
	GrantedBy  string     `gorm:"column:granted_by"`
	GrantedAt  time.Time  `gorm:"column:granted_at"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
	RevokedBy  string     `gorm:"column:revoked_by"`
}

func (grantModel) TableName() string { return "capability_grants" }

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

func (r *Repository) InsertGrant(ctx context.Context, grant entities.Grant) error {
	var active int64
	err := r.db.WithContext(ctx).Model(&grantModel{}).
		Where("actor_id = ? AND capability = ? AND revoked_at IS NULL", grant.ActorID, string(grant.Capability)).
		Count(&active).Error
	if err != nil {
		return r.logError(ctx, "insert_grant", err)
	}
	if active > 0 {
		return domainerrors.ErrDuplicateGrant
	}
	model := grantModel{
		GrantID:    grant.GrantID,
		ActorID:    grant.ActorID,
		Capability: string(grant.Capability),
		GrantedBy:  grant.GrantedBy,
		GrantedAt:  grant.GrantedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateGrant
		}
		return r.logError(ctx, "insert_grant", err)
	}
	return nil
}

func (r *Repository) RevokeGrant(ctx context.Context, actorID string, capability entities.Capability, revokedBy string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&grantModel{}).
		Where("actor_id = ? AND capability = ? AND revoked_at IS NULL", actorID, string(capability)).
		Updates(map[string]any{
			"revoked_at": at,
			"revoked_by": revokedBy,
		})
	if result.Error != nil {
		return false, r.logError(ctx, "revoke_grant", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ListGrants(ctx context.Context, actorID string) ([]entities.Grant, error) {
	var models []grantModel
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("granted_at asc").
		Find(&models).Error
	if err != nil {
		return nil, r.logError(ctx, "list_grants", err)
	}
	items := make([]entities.Grant, 0, len(models))
	for _, model := range models {
		items = append(items, entities.Grant{
			GrantID:    model.GrantID,
			ActorID:    model.ActorID,
			Capability: entities.Capability(model.Capability),
			GrantedBy:  model.GrantedBy,
			GrantedAt:  model.GrantedAt,
			RevokedAt:  model.RevokedAt,
			RevokedBy:  model.RevokedBy,
		})
	}
	return items, nil
}

func (r *Repository) HasCapability(ctx context.Context, actorID string, capability entities.Capability) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&grantModel{}).
		Where("actor_id = ? AND capability = ? AND revoked_at IS NULL", actorID, string(capability)).
		Count(&count).Error
	if err != nil {
		return false, r.logError(ctx, "has_capability", err)
	}
	return count > 0, nil
}

func (r *Repository) logError(ctx context.Context, operation string, err error) error {
	r.logger.ErrorContext(ctx, "authorization storage failure",
		"event", "storage_error",
		"module", "authorization-service",
		"layer", "adapters.postgres",
		"operation", operation,
		"error", err,
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return domainerrors.ErrStorageUnavailable
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.GrantRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
