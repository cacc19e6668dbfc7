package model

import (
	"time"

	"task-market.com/task-market/internal/constants"
)

// Notification.RecipientID is always an auth account id, never a profile id.
type Notification struct {
	ID          string                     `gorm:"primaryKey;size:36" json:"id"`
	RecipientID string                     `gorm:"size:64;not null;index" json:"recipient_id"`
	Title       string                     `gorm:"not null" json:"title"`
	Message     string                     `gorm:"not null" json:"message"`
	Type        constants.NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Payload     NotificationPayload        `gorm:"type:text;serializer:json" json:"data"`
	IsRead      bool                       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}
