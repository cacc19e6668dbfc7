// Package alerts hands push alerts to the delivery gateway.
package alerts

import (
	"context"
	"time"

	model "task-market.com/task-market/internal/models"
)

type Alert struct {
	RecipientID string                    `json:"recipient_id"`
	Title       string                    `json:"title"`
	Body        string                    `json:"body"`
	Payload     model.NotificationPayload `json:"data"`
	CreatedAt   time.Time                 `json:"created_at"`
}

type Scheduler interface {
	Schedule(ctx context.Context, alert Alert) error
}

// Discard drops every alert. It is used when no broker is configured.
var Discard Scheduler = discard{}

type discard struct{}

func (discard) Schedule(context.Context, Alert) error { return nil }
