package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	RedisFeedPrefix        string
	RedisStreamSlotsKey    string
	StreamMaxConnections   int
	KafkaBrokers           []string
	KafkaAlertsTopic       string
	JWTSecret              string
	JWTIssuer              string
	JWTTTLMinutes          int
	Workers                int
	QueueSize              int
	PollIntervalSeconds    int
	PollBatchSize          int
	FanOutConcurrency      int
	ShutdownTimeoutSeconds int
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", "market.db")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_FEED_PREFIX", "notifications")
	v.SetDefault("REDIS_STREAM_SLOTS_KEY", "notification_stream_slots")
	v.SetDefault("STREAM_MAX_CONNECTIONS", 1000)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC_ALERTS", "notification-alerts")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "task-market")
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("OUTBOX_WORKERS", 5)
	v.SetDefault("OUTBOX_QUEUE_SIZE", 100)
	v.SetDefault("OUTBOX_POLL_INTERVAL_SECONDS", 5)
	v.SetDefault("OUTBOX_POLL_BATCH_SIZE", 50)
	v.SetDefault("FANOUT_CONCURRENCY", 8)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 20)
}

// Load reads .env (if present) and the process environment. Invalid values
// stop the process.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	cfg := FromViper(v)
	if err := Validate(cfg); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func FromViper(v *viper.Viper) Config {
	return Config{
		AppURL:                 fmt.Sprintf("%s:%s", v.GetString("APP_HOST"), v.GetString("APP_PORT")),
		DatabaseDSN:            v.GetString("DATABASE_DSN"),
		RateLimit:              v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RedisAddr:              fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
		RedisFeedPrefix:        v.GetString("REDIS_FEED_PREFIX"),
		RedisStreamSlotsKey:    v.GetString("REDIS_STREAM_SLOTS_KEY"),
		StreamMaxConnections:   v.GetInt("STREAM_MAX_CONNECTIONS"),
		KafkaBrokers:           splitCSV(v.GetString("KAFKA_BROKERS")),
		KafkaAlertsTopic:       v.GetString("KAFKA_TOPIC_ALERTS"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		JWTTTLMinutes:          v.GetInt("JWT_TTL_MINUTES"),
		Workers:                v.GetInt("OUTBOX_WORKERS"),
		QueueSize:              v.GetInt("OUTBOX_QUEUE_SIZE"),
		PollIntervalSeconds:    v.GetInt("OUTBOX_POLL_INTERVAL_SECONDS"),
		PollBatchSize:          v.GetInt("OUTBOX_POLL_BATCH_SIZE"),
		FanOutConcurrency:      v.GetInt("FANOUT_CONCURRENCY"),
		ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
	}
}

func Validate(cfg Config) error {
	positive := []struct {
		key   string
		value int
	}{
		{"RATE_LIMIT_PER_MINUTE", cfg.RateLimit},
		{"STREAM_MAX_CONNECTIONS", cfg.StreamMaxConnections},
		{"JWT_TTL_MINUTES", cfg.JWTTTLMinutes},
		{"OUTBOX_WORKERS", cfg.Workers},
		{"OUTBOX_QUEUE_SIZE", cfg.QueueSize},
		{"OUTBOX_POLL_INTERVAL_SECONDS", cfg.PollIntervalSeconds},
		{"OUTBOX_POLL_BATCH_SIZE", cfg.PollBatchSize},
		{"FANOUT_CONCURRENCY", cfg.FanOutConcurrency},
		{"SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be greater than 0", p.key)
		}
	}

	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.RedisFeedPrefix == "" {
		return fmt.Errorf("REDIS_FEED_PREFIX must not be empty")
	}
	if cfg.RedisStreamSlotsKey == "" {
		return fmt.Errorf("REDIS_STREAM_SLOTS_KEY must not be empty")
	}
	if len(cfg.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertsTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC_ALERTS must be set when KAFKA_BROKERS is")
	}
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
