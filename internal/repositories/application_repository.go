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

var (
	ErrDuplicateApplication = errors.New("application already exists for task and tasker")
	ErrStatusChanged        = errors.New("application status changed concurrently")
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.TaskApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*model.TaskApplication, error) {
	var app model.TaskApplication
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByTaskAndTasker(ctx context.Context, taskID, taskerID string) (*model.TaskApplication, error) {
	var app model.TaskApplication
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND tasker_id = ?", taskID, taskerID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) ListByTask(ctx context.Context, taskID string) ([]model.TaskApplication, error) {
	var apps []model.TaskApplication
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) ListByTasker(ctx context.Context, taskerID string) ([]model.TaskApplication, error) {
	var apps []model.TaskApplication
	err := r.db.WithContext(ctx).
		Where("tasker_id = ?", taskerID).
		Order("created_at desc").
		Find(&apps).Error
	return apps, err
}

// Transition moves one application from -> to. It fails with
// ErrStatusChanged if the row is no longer in from.
func (r *ApplicationRepository) Transition(
	ctx context.Context,
	app *model.TaskApplication,
	to constants.ApplicationStatus,
	now time.Time,
) error {
	res := r.db.WithContext(ctx).Model(&model.TaskApplication{}).
		Where("id = ? AND status = ?", app.ID, app.Status).
		Updates(map[string]interface{}{
			"status":       to,
			"responded_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}

	app.Status = to
	app.RespondedAt = &now
	app.UpdatedAt = now
	return nil
}

// RejectPendingSiblings rejects every pending application on taskID other
// than keepID and returns the rows it rejected.
func (r *ApplicationRepository) RejectPendingSiblings(
	ctx context.Context,
	taskID, keepID string,
	now time.Time,
) ([]model.TaskApplication, error) {
	var siblings []model.TaskApplication
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND id <> ? AND status = ?", taskID, keepID, constants.ApplicationPending).
		Find(&siblings).Error
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(siblings))
	for _, s := range siblings {
		ids = append(ids, s.ID)
	}

	err = r.db.WithContext(ctx).Model(&model.TaskApplication{}).
		Where("id IN ? AND status = ?", ids, constants.ApplicationPending).
		Updates(map[string]interface{}{
			"status":       constants.ApplicationRejected,
			"responded_at": now,
			"updated_at":   now,
		}).Error
	if err != nil {
		return nil, err
	}

	for i := range siblings {
		siblings[i].Status = constants.ApplicationRejected
		siblings[i].RespondedAt = &now
		siblings[i].UpdatedAt = now
	}
	return siblings, nil
}

func (r *ApplicationRepository) DeleteByTask(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Delete(&model.TaskApplication{}, "task_id = ?", taskID).Error
}
