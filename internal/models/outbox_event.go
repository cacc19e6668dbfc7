package model

import (
	"time"

	"task-market.com/task-market/internal/constants"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and drained later by the outbox pool.
type OutboxEvent struct {
	ID          string                 `gorm:"primaryKey;size:36" json:"id"`
	Kind        constants.OutboxKind   `gorm:"type:varchar(32);not null" json:"kind"`
	Event       DomainEvent            `gorm:"type:text;serializer:json" json:"event"`
	Status      constants.OutboxStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Attempts    int                    `gorm:"not null;default:0" json:"attempts"`
	Version     uint                   `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time              `json:"created_at"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
}

// DomainEvent carries what the fan-out needs to notify the parties of a
// workflow change. Recipient ids are profile ids.
type DomainEvent struct {
	TaskID         string               `json:"task_id"`
	TaskTitle      string               `json:"task_title"`
	Status         constants.TaskStatus `json:"status,omitempty"`
	ApplicationID  string               `json:"application_id,omitempty"`
	ActorProfileID string               `json:"actor_profile_id,omitempty"`
	ActorAccountID string               `json:"actor_account_id,omitempty"`
	ActorName      string               `json:"actor_name,omitempty"`
	Recipients     []string             `json:"recipients,omitempty"`
	Rejected       []string             `json:"rejected,omitempty"`
}
