package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	v := viper.New()
	defaults(v)
	v.Set("JWT_SECRET", "0123456789abcdef")
	return FromViper(v)
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := validConfig(t)

	assert.Equal(t, "127.0.0.1:8080", cfg.AppURL)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "notifications", cfg.RedisFeedPrefix)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 1000, cfg.StreamMaxConnections)
	assert.Equal(t, "notification_stream_slots", cfg.RedisStreamSlotsKey)
	require.NoError(t, Validate(cfg))
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("OUTBOX_WORKERS", "3")

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)
	cfg := FromViper(v)

	assert.Equal(t, "127.0.0.1:9090", cfg.AppURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.Workers)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"workers", func(c *Config) { c.Workers = 0 }, "OUTBOX_WORKERS"},
		{"streams", func(c *Config) { c.StreamMaxConnections = -1 }, "STREAM_MAX_CONNECTIONS"},
		{"dsn", func(c *Config) { c.DatabaseDSN = "" }, "DATABASE_DSN"},
		{"secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"topic", func(c *Config) {
			c.KafkaBrokers = []string{"k1:9092"}
			c.KafkaAlertsTopic = ""
		}, "KAFKA_TOPIC_ALERTS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewKafkaWriter(t *testing.T) {
	assert.Nil(t, NewKafkaWriter(nil, "alerts"))

	w := NewKafkaWriter([]string{"k1:9092"}, "alerts")
	require.NotNil(t, w)
	assert.Equal(t, "alerts", w.Topic)
}
