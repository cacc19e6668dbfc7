package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one gorm handle, so a
// transaction can hand every repository the same tx.
type Store struct {
	db            *gorm.DB
	Tasks         *TaskRepository
	Applications  *ApplicationRepository
	Profiles      *ProfileRepository
	Notifications *NotificationRepository
	Outbox        *OutboxRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Tasks:         NewTaskRepository(db),
		Applications:  NewApplicationRepository(db),
		Profiles:      NewProfileRepository(db),
		Notifications: NewNotificationRepository(db),
		Outbox:        NewOutboxRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single database
// transaction. Any error returned by fn rolls every write back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
