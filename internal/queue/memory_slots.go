package queue

import (
	"context"
	"sync"
)

// MemorySlots is a single-process SlotLimiter.
type MemorySlots struct {
	mu       sync.Mutex
	used     int
	capacity int
}

func NewMemorySlots(capacity int) *MemorySlots {
	return &MemorySlots{capacity: capacity}
}

func (m *MemorySlots) Acquire(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.used >= m.capacity {
		return ErrNoSlotAvailable
	}
	m.used++
	return nil
}

func (m *MemorySlots) Release(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.used > 0 {
		m.used--
	}
	return nil
}

func (m *MemorySlots) InUse() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}
