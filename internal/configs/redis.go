package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient connects the client used by the realtime feed. The feed
// only publishes and subscribes, so client-side caching stays off.
func NewRedisClient(addr string) rueidis.Client {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress:  []string{addr},
			DisableCache: true,
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return redisClient
}
