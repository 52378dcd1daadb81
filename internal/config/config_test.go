package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/generator"
	"catdistribution-api/internal/imageapi"
)

func TestNew_Defaults(t *testing.T) {
	unset(t, "PORT", "JWT_KEYS", "JWT_HS256_SECRET", "TICK_INTERVAL", "STORE_DRIVER", "CAT_IMAGE_SOURCE", "CAT_IMAGE_URL", "CAT_API_URL", "KAFKA_BROKERS", "REDIS_ENABLED")

	c := New()
	assert.Equal(t, "8080", c.Port)
	assert.Empty(t, c.JWTKeys)
	assert.Equal(t, time.Duration(0), c.TickInterval)
	assert.Equal(t, "memory", c.StoreDriver)
	assert.Equal(t, "static", c.ImageSource)
	assert.Equal(t, generator.DefaultImageURL, c.ImageURL)
	assert.Equal(t, imageapi.DefaultURL, c.CatAPIURL)
	assert.Equal(t, 100, c.MaxNameAttempts)
	assert.Nil(t, c.KafkaBrokers)
	assert.False(t, c.RedisEnabled)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_KEYS", "k1:alpha, k2:beta ,broken")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("MAX_CONSECUTIVE_FAILURES", "5")
	t.Setenv("MAX_NAME_ATTEMPTS", "not-a-number")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("REDIS_ENABLED", "yes")
	t.Setenv("CORS_ORIGINS", "https://cats.example")

	c := New()
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, map[string]string{"k1": "alpha", "k2": "beta"}, c.JWTKeys)
	assert.Equal(t, 250*time.Millisecond, c.TickInterval)
	assert.Equal(t, 5, c.MaxConsecutiveFailures)
	assert.Equal(t, 100, c.MaxNameAttempts)
	assert.Equal(t, "postgres", c.StoreDriver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.KafkaBrokers)
	assert.True(t, c.RedisEnabled)
	assert.Equal(t, []string{"https://cats.example"}, c.AllowedOrigins)
}

func TestNew_SingleSecretFallback(t *testing.T) {
	t.Setenv("JWT_KEYS", "")
	t.Setenv("JWT_HS256_SECRET", "s3cret")

	c := New()
	require.Len(t, c.JWTKeys, 1)
	assert.Equal(t, "s3cret", c.JWTKeys["default"])
}

// unset clears keys for the test; Setenv first so they are restored afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
