package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const slotsKey = "notification_stream_slots"

func TestRedisSlots_AcquireWithinCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	slots := NewRedisSlots(client, slotsKey, 2)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", slotsKey)).
		Return(mock.Result(mock.RedisInt64(2)))

	assert.NoError(t, slots.Acquire(context.Background()))
}

func TestRedisSlots_OverflowGivesTheSlotBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	slots := NewRedisSlots(client, slotsKey, 2)

	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("INCR", slotsKey)).
			Return(mock.Result(mock.RedisInt64(3))),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("DECR", slotsKey)).
			Return(mock.Result(mock.RedisInt64(2))),
	)

	assert.ErrorIs(t, slots.Acquire(context.Background()), ErrNoSlotAvailable)
}

func TestRedisSlots_AcquireError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	slots := NewRedisSlots(client, slotsKey, 2)

	down := errors.New("connection refused")
	client.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", slotsKey)).
		Return(mock.ErrorResult(down))

	err := slots.Acquire(context.Background())
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrNoSlotAvailable)
}

func TestRedisSlots_ReleaseAndReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	slots := NewRedisSlots(client, slotsKey, 2)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("DECR", slotsKey)).
		Return(mock.Result(mock.RedisInt64(0)))
	client.EXPECT().
		Do(gomock.Any(), mock.Match("SET", slotsKey, "0")).
		Return(mock.Result(mock.RedisString("OK")))

	assert.NoError(t, slots.Release(context.Background()))
	assert.NoError(t, slots.Reset(context.Background()))
}
