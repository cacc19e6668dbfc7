package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "task-market.com/task-market/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListForRecipient(
	ctx context.Context,
	recipientID string,
	unreadOnly bool,
	limit int,
) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var out []model.Notification
	err := query.Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips one notification owned by recipientID. Marking an
// already read row is not an error.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	res := r.db.WithContext(ctx).Delete(&model.Notification{}, "id = ? AND recipient_id = ?", id, recipientID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Notification{}, "recipient_id = ?", recipientID)
	return res.RowsAffected, res.Error
}
