package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("AUTH_ADMIN_PASSWORD", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hospital-admin:", cfg.App.KeyPrefix())

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, "123456", cfg.Auth.AdminPassword)
	assert.Equal(t, "username", cfg.Auth.UserUsername)
	assert.Equal(t, "password", cfg.Auth.UserPassword)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.Feedback.SubmitDelay())
	assert.Equal(t, 3000*time.Millisecond, cfg.Feedback.ResetDelay())
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
}

func TestLoad_OpenAIKeyFallsBackToAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.OpenAI.APIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.RedisAddr())
	assert.Equal(t, time.Minute, cfg.Auth.SessionTTL())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.AllowedOrigins)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "s3cr3t")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.Auth.SessionSecret)
}

func TestLoad_DevelopmentKeepsDefaultSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionSecret, cfg.Auth.SessionSecret)
}
