package alerts

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaScheduler writes one message per alert, keyed by recipient so a
// recipient's alerts stay ordered within a partition.
type KafkaScheduler struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaScheduler(writer *kafka.Writer) *KafkaScheduler {
	return &KafkaScheduler{
		writer:  writer,
		timeout: 3 * time.Second,
	}
}

func (s *KafkaScheduler) Schedule(ctx context.Context, alert Alert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	b, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.writer.WriteMessages(cctx, kafka.Message{
		Key:   []byte(alert.RecipientID),
		Value: b,
		Time:  alert.CreatedAt,
	})
}
