package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-market.com/task-market/internal/constants"
	model "task-market.com/task-market/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var (
	ErrOptimisticLock = errors.New("optimistic locking conflict")
	ErrNotFound       = errors.New("record not found")
)

type TaskFilter struct {
	Status     *constants.TaskStatus
	CustomerID string
	TaskerID   string
	Limit      int
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.TaskerID != "" {
		query = query.Where("tasker_id = ?", filter.TaskerID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var tasks []model.Task
	err := query.Order("created_at desc").Find(&tasks).Error
	return tasks, err
}

// Update writes every mutable column, guarded by the version the caller
// read. A concurrent writer makes it fail with ErrOptimisticLock.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":               task.Title,
			"description":         task.Description,
			"budget":              task.Budget,
			"status":              task.Status,
			"tasker_id":           task.TaskerID,
			"category_id":         task.CategoryID,
			"is_urgent":           task.IsUrgent,
			"cancellation_reason": task.CancellationReason,
			"final_price":         task.FinalPrice,
			"published_at":        task.PublishedAt,
			"assigned_at":         task.AssignedAt,
			"started_at":          task.StartedAt,
			"completed_at":        task.CompletedAt,
			"cancelled_at":        task.CancelledAt,
			"version":             gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
