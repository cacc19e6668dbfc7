package model

import (
	"time"

	"task-market.com/task-market/internal/constants"
)

type TaskApplication struct {
	ID            string                      `gorm:"primaryKey;size:36" json:"id"`
	TaskID        string                      `gorm:"size:36;not null;uniqueIndex:idx_application_task_tasker" json:"task_id"`
	TaskerID      string                      `gorm:"size:36;not null;uniqueIndex:idx_application_task_tasker;index" json:"tasker_id"`
	ProposedPrice float64                     `gorm:"not null" json:"proposed_price"`
	Message       string                      `json:"message"`
	Status        constants.ApplicationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	RespondedAt   *time.Time                  `json:"responded_at,omitempty"`
}
