package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/rueidis"
)

type RedisFeed struct {
	client rueidis.Client
	prefix string
}

func NewRedisFeed(client rueidis.Client, channelPrefix string) *RedisFeed {
	return &RedisFeed{
		client: client,
		prefix: channelPrefix,
	}
}

func (f *RedisFeed) channel(accountID string) string {
	return f.prefix + ":" + accountID
}

func (f *RedisFeed) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	cmd := f.client.B().Publish().Channel(f.channel(ev.AccountID)).Message(string(b)).Build()
	return f.client.Do(ctx, cmd).Error()
}

func (f *RedisFeed) Subscribe(ctx context.Context, accountID string, fn func(Event)) error {
	cmd := f.client.B().Subscribe().Channel(f.channel(accountID)).Build()

	err := f.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Message), &ev); err != nil {
			log.Printf("realtime: dropping malformed event on %s: %v", msg.Channel, err)
			return
		}
		fn(ev)
	})

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
