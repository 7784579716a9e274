package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.OutboxTransport)
	assert.Equal(t, 3*time.Second, cfg.OutboxPeriod)
	assert.Equal(t, 10, cfg.OutboxMaxAttempts)
	assert.Equal(t, 168*time.Hour, cfg.MeetupRetention)
	assert.Equal(t, "ModerationDecisionAdded", cfg.ModerationRoutingKey)
	assert.Equal(t, "meetups_analytics", cfg.RabbitMQAnalyticsQueue)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("OUTBOX_TRANSPORT", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("OUTBOX_PERIOD", "500ms")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPeriod)
}

func TestLoadConfig_RejectsUnknownTransport(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("OUTBOX_TRANSPORT", "carrier-pigeon")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "OUTBOX_TRANSPORT")
}
