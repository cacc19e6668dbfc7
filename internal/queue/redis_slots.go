package queue

import (
	"context"
	"log"

	"github.com/redis/rueidis"
)

// RedisSlots counts open streams in one redis key shared by every server.
type RedisSlots struct {
	client   rueidis.Client
	key      string
	capacity int64
}

func NewRedisSlots(client rueidis.Client, key string, capacity int64) *RedisSlots {
	return &RedisSlots{
		client:   client,
		key:      key,
		capacity: capacity,
	}
}

func (r *RedisSlots) Acquire(ctx context.Context) error {
	cmd := r.client.B().Incr().Key(r.key).Build()
	n, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return err
	}

	if n > r.capacity {
		if err := r.Release(ctx); err != nil {
			log.Printf("slots: failed to return overflow slot on %s: %v", r.key, err)
		}
		return ErrNoSlotAvailable
	}

	return nil
}

func (r *RedisSlots) Release(ctx context.Context) error {
	cmd := r.client.B().Decr().Key(r.key).Build()
	return r.client.Do(ctx, cmd).Error()
}

// Reset zeroes the counter. serve calls it at boot, since streams held by
// a crashed process never release their slot.
func (r *RedisSlots) Reset(ctx context.Context) error {
	cmd := r.client.B().Set().Key(r.key).Value("0").Build()
	return r.client.Do(ctx, cmd).Error()
}
