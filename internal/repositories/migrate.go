package repository

import (
	"gorm.io/gorm"

	model "task-market.com/task-market/internal/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Task{},
		&model.TaskApplication{},
		&model.Notification{},
		&model.OutboxEvent{},
	)
}
