package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"madison/contexts/election-commission/election-engine/domain/entities"
	domainerrors "madison/contexts/election-commission/election-engine/domain/errors"
	"madison/contexts/election-commission/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrDuplicate
		}
		return r.logError("engine_repo_create_election_failed", create.Error,
			"election_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("engine_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) TransitionElection(
	ctx context.Context,
	electionID string,
	from []entities.ElectionStatus,
	to entities.ElectionStatus,
	at time.Time,
) (bool, error) {
	statuses := make([]string, 0, len(from))
	for _, status := range from {
		statuses = append(statuses, string(status))
	}
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Where("status IN ?", statuses).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("engine_repo_transition_election_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
			"to_status", string(to),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ClaimReportSlot(
	ctx context.Context,
	electionID string,
	now time.Time,
	interval time.Duration,
) (bool, error) {
	cutoff := now.UTC().Add(-interval)
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Where("last_report_at IS NULL OR last_report_at <= ?", cutoff).
		Updates(map[string]any{
			"last_report_at": now.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("engine_repo_claim_report_slot_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) SetReportMessageRef(ctx context.Context, electionID string, messageRef string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Updates(map[string]any{
			"report_message_ref": strings.TrimSpace(messageRef),
			"updated_at":         at.UTC(),
		})
	if result.Error != nil {
		return r.logError("engine_repo_set_report_ref_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) InsertCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrDuplicate
		}
		return r.logError("engine_repo_insert_candidate_failed", create.Error,
			"election_id", row.ElectionID,
			"candidate_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("engine_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID string, office entities.Office) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("office = ?", string(office)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("engine_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
			"office", string(office),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) InsertBallot(ctx context.Context, ballot entities.Ballot) error {
	row, err := ballotModelFromEntity(ballot)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrDuplicate
		}
		return r.logError("engine_repo_insert_ballot_failed", create.Error,
			"election_id", row.ElectionID,
			"ballot_id", row.ID,
			"voter_id", row.VoterID,
		)
	}
	return nil
}

func (r *Repository) GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(ballotID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, domainerrors.ErrBallotNotFound
		}
		return entities.Ballot{}, r.logError("engine_repo_get_ballot_failed", err,
			"ballot_id", strings.TrimSpace(ballotID),
		)
	}
	return row.toEntity()
}

func (r *Repository) ReviewBallot(
	ctx context.Context,
	ballotID string,
	to entities.ReviewStatus,
	reviewerID string,
	reason string,
	at time.Time,
) (bool, error) {
	// Single conditional update on PENDING; two racing reviewers produce
	// exactly one affected row.
	result := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("id = ?", strings.TrimSpace(ballotID)).
		Where("review_status = ?", string(entities.ReviewStatusPending)).
		Updates(map[string]any{
			"review_status": string(to),
			"reviewed_by":   strings.TrimSpace(reviewerID),
			"review_reason": strings.TrimSpace(reason),
			"reviewed_at":   at.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("engine_repo_review_ballot_failed", result.Error,
			"ballot_id", strings.TrimSpace(ballotID),
			"decision", string(to),
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) NextPending(ctx context.Context, electionID string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("review_status = ?", string(entities.ReviewStatusPending)).
		Order("submitted_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("engine_repo_next_pending_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	ballot, err := row.toEntity()
	if err != nil {
		return entities.Ballot{}, false, err
	}
	return ballot, true, nil
}

func (r *Repository) ListBallots(ctx context.Context, electionID string) ([]entities.Ballot, error) {
	return r.listBallots(ctx, electionID, nil)
}

func (r *Repository) ListAcceptedBallots(ctx context.Context, electionID string) ([]entities.Ballot, error) {
	accepted := entities.ReviewStatusAccepted
	return r.listBallots(ctx, electionID, &accepted)
}

func (r *Repository) listBallots(ctx context.Context, electionID string, status *entities.ReviewStatus) ([]entities.Ballot, error) {
	tx := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID))
	if status != nil {
		tx = tx.Where("review_status = ?", string(*status))
	}
	var rows []ballotModel
	if err := tx.Order("submitted_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("engine_repo_list_ballots_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		ballot, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, ballot)
	}
	return items, nil
}

func (r *Repository) CountBallots(ctx context.Context, electionID string) (int, int, error) {
	var submitted int64
	if err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&submitted).Error; err != nil {
		return 0, 0, r.logError("engine_repo_count_ballots_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	var accepted int64
	if err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("review_status = ?", string(entities.ReviewStatusAccepted)).
		Count(&accepted).Error; err != nil {
		return 0, 0, r.logError("engine_repo_count_accepted_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(submitted), int(accepted), nil
}

func (r *Repository) SaveCertification(ctx context.Context, record entities.CertificationRecord) error {
	row, err := certificationModelFromEntity(record)
	if err != nil {
		return err
	}
	// Snapshot write and the CLOSED to CERTIFIED flip commit as one unit; a
	// crash between them can never leave one without the other.
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&electionModel{}).
			Where("id = ?", row.ElectionID).
			Where("status = ?", string(entities.ElectionStatusClosed)).
			Updates(map[string]any{
				"status":     string(entities.ElectionStatusCertified),
				"updated_at": record.CertifiedAt.UTC(),
			})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return domainerrors.ErrInvalidState
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "election_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"certified_by":      row.CertifiedBy,
				"notes":             row.Notes,
				"submitted_ballots": row.SubmittedBallots,
				"accepted_ballots":  row.AcceptedBallots,
				"results":           row.Results,
				"certified_at":      row.CertifiedAt,
			}),
		}).Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidState) {
			return domainerrors.ErrInvalidState
		}
		return r.logError("engine_repo_save_certification_failed", err,
			"election_id", row.ElectionID,
		)
	}
	return nil
}

func (r *Repository) GetCertification(ctx context.Context, electionID string) (entities.CertificationRecord, bool, error) {
	var row certificationModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CertificationRecord{}, false, nil
		}
		return entities.CertificationRecord{}, false, r.logError("engine_repo_get_certification_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	record, err := row.toEntity()
	if err != nil {
		return entities.CertificationRecord{}, false, err
	}
	return record, true, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("engine_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:  strings.TrimSpace(envelope.EventID),
		EventType: strings.TrimSpace(envelope.EventType),
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("engine_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("engine_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("engine_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrValidation
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-commission/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	if isUnavailable(err) {
		return domainerrors.ErrStorageUnavailable
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	// 08xxx is the connection-exception SQLSTATE class.
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08")
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.CertificationRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
