// Package realtime carries notification change events from the writer to
// live sessions: a Feed moves them between processes, a Hub fans them out
// to the subscribers of one session.
package realtime

import (
	"context"

	model "task-market.com/task-market/internal/models"
)

type EventKind string

const (
	EventNotificationCreated EventKind = "notification.created"
	EventUnreadCount         EventKind = "notification.unread_count"
)

type Event struct {
	Kind         EventKind           `json:"kind"`
	AccountID    string              `json:"account_id"`
	Notification *model.Notification `json:"notification,omitempty"`
	UnreadCount  int64               `json:"unread_count"`
}

// Feed publishes events per account and lets a session follow one account.
type Feed interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe blocks, calling fn for every event on accountID, until ctx
	// is cancelled.
	Subscribe(ctx context.Context, accountID string, fn func(Event)) error
}
