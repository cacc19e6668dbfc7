package model

import (
	"time"

	"task-market.com/task-market/internal/constants"
)

type Task struct {
	ID                 string               `gorm:"primaryKey;size:36" json:"id"`
	Title              string               `gorm:"not null" json:"title"`
	Description        string               `gorm:"not null" json:"description"`
	Budget             float64              `gorm:"not null" json:"budget"`
	Status             constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CustomerID         string               `gorm:"size:36;not null;index" json:"customer_id"`
	TaskerID           *string              `gorm:"size:36;index" json:"tasker_id,omitempty"`
	CategoryID         *string              `gorm:"size:36" json:"category_id,omitempty"`
	IsUrgent           bool                 `gorm:"not null" json:"is_urgent"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	FinalPrice         *float64             `json:"final_price,omitempty"`
	Version            uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	PublishedAt        *time.Time           `json:"published_at,omitempty"`
	AssignedAt         *time.Time           `json:"assigned_at,omitempty"`
	StartedAt          *time.Time           `json:"started_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
}

func (t *Task) IsOwner(profileID string) bool {
	return profileID != "" && t.CustomerID == profileID
}

func (t *Task) IsAssignedTasker(profileID string) bool {
	return profileID != "" && t.TaskerID != nil && *t.TaskerID == profileID
}
