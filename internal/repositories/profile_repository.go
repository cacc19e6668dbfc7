package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	model "task-market.com/task-market/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindByAccountID(ctx context.Context, accountID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListIDsByRole returns profile ids holding role, skipping excludeID.
func (r *ProfileRepository) ListIDsByRole(
	ctx context.Context,
	role constants.ProfileRole,
	excludeID string,
	limit int,
) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("role = ? AND id <> ?", role, excludeID).
		Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []string
	err := query.Pluck("id", &ids).Error
	return ids, err
}
