package model

import (
	"time"

	"task-market.com/task-market/internal/constants"
)

// Profile is the application-level identity. Tasks and applications point
// at Profile.ID; notifications point at Profile.AccountID.
type Profile struct {
	ID        string                `gorm:"primaryKey;size:36" json:"id"`
	AccountID *string               `gorm:"size:64;uniqueIndex" json:"account_id,omitempty"`
	FullName  string                `gorm:"not null" json:"full_name"`
	Role      constants.ProfileRole `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}
