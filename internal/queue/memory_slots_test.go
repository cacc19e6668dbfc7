package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlots(t *testing.T) {
	ctx := context.Background()
	slots := NewMemorySlots(2)

	require.NoError(t, slots.Acquire(ctx))
	require.NoError(t, slots.Acquire(ctx))
	assert.ErrorIs(t, slots.Acquire(ctx), ErrNoSlotAvailable)
	assert.Equal(t, 2, slots.InUse())

	require.NoError(t, slots.Release(ctx))
	require.NoError(t, slots.Acquire(ctx))

	require.NoError(t, slots.Release(ctx))
	require.NoError(t, slots.Release(ctx))
	require.NoError(t, slots.Release(ctx))
	assert.Zero(t, slots.InUse())
}
