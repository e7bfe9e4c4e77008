package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("requires jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_PASSWORD", "secret")

		_, err := Load()
		assert.EqualError(t, err, "missing jwt secret")
	})

	t.Run("requires database password", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "")

		_, err := Load()
		assert.EqualError(t, err, "missing database password")
	})

	t.Run("rejects non numeric redis db", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("REDIS_DB", "one")

		_, err := Load()
		assert.EqualError(t, err, "invalid redis database")
	})

	t.Run("applies defaults and splits lists", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("REDIS_DB", "")
		t.Setenv("REDIS_HOST", "")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
		t.Setenv("JWT_TTL", "2h")
		t.Setenv("WORKER_METRICS_PORT", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "5000", cfg.Server.Port)
		assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
		assert.False(t, cfg.Redis.Enabled())
		assert.True(t, cfg.Kafka.Enabled())
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, "order-notifications", cfg.Kafka.NotificationTopic)
		assert.Equal(t, "9101", cfg.Worker.MetricsPort)
	})
}
