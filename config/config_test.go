package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SEED_MOCK_DATA", "")

	cfg := Load()

	assert.Equal(t, "rideshare", cfg.ServiceName)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.True(t, cfg.SeedMockData)
	assert.False(t, cfg.AllowCancelBooked)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageRedis)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SEED_MOCK_DATA", "false")
	t.Setenv("ALLOW_CANCEL_BOOKED", "true")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")

	cfg := Load()

	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, 9090, cfg.AppPort)
	assert.False(t, cfg.SeedMockData)
	assert.True(t, cfg.AllowCancelBooked)
	assert.Equal(t, "ops@example.com", cfg.AdminEmail)
}
