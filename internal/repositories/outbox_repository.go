package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	model "task-market.com/task-market/internal/models"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Create(
	ctx context.Context,
	kind constants.OutboxKind,
	event model.DomainEvent,
) (*model.OutboxEvent, error) {
	row := &model.OutboxEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Event:     event,
		Status:    constants.OutboxPending,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *OutboxRepository) FindByID(ctx context.Context, id string) (*model.OutboxEvent, error) {
	var row model.OutboxEvent
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListPending returns events never claimed, plus claimed events whose worker
// has not finished within staleAfter.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int, staleAfter time.Duration) ([]model.OutboxEvent, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	staleBefore := time.Now().UTC().Add(-staleAfter)
	var rows []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ? OR (status = ? AND started_at < ?)",
			constants.OutboxPending, constants.OutboxProcessing, staleBefore).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Claim marks the event as processing. Two workers racing on the same row
// see exactly one success; the other gets ErrOptimisticLock. A row another
// worker claimed less than staleAfter ago cannot be claimed either.
func (r *OutboxRepository) Claim(
	ctx context.Context,
	row *model.OutboxEvent,
	now time.Time,
	staleAfter time.Duration,
) error {
	staleBefore := now.Add(-staleAfter)
	res := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Where("status = ? OR (status = ? AND started_at < ?)",
			constants.OutboxPending, constants.OutboxProcessing, staleBefore).
		Updates(map[string]interface{}{
			"status":     constants.OutboxProcessing,
			"started_at": now,
			"attempts":   gorm.Expr("attempts + 1"),
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	row.Status = constants.OutboxProcessing
	row.StartedAt = &now
	row.Attempts++
	row.Version++
	return nil
}

func (r *OutboxRepository) MarkDone(ctx context.Context, row *model.OutboxEvent, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"status":       constants.OutboxDone,
			"processed_at": now,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	row.Status = constants.OutboxDone
	row.ProcessedAt = &now
	row.Version++
	return nil
}
