// Package queue bounds how many long-lived notification streams the
// cluster holds open at once.
package queue

import (
	"context"
	"errors"
)

var ErrNoSlotAvailable = errors.New("no stream slot available")

type SlotLimiter interface {
	// Acquire takes one slot or fails with ErrNoSlotAvailable.
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}
