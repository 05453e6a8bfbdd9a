package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TASTING_TOKEN_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("REDIS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Minute, cfg.TastingTokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.S3.Enabled())
}

func TestGetEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("LOCK_TTL", "soon")

	assert.Equal(t, 3, getEnvInt("REDIS_DB", 3))
	assert.Equal(t, time.Second, getEnvDuration("LOCK_TTL", time.Second))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{Timezone: "Mars/Olympus"}).Location())
	assert.Equal(t, "America/Sao_Paulo", (&Config{Timezone: "America/Sao_Paulo"}).Location().String())
}
