package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "book1", cfg.DefaultBook)
	assert.Equal(t, []string{"book1", "book2", "book3"}, cfg.Books())
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.MailAlerts())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("BOOKS", " shop , , warehouse ")
	t.Setenv("DEFAULT_BOOK", "warehouse")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"shop", "warehouse"}, cfg.Books())
	assert.Equal(t, "warehouse", cfg.DefaultBook)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestMailAlertsNeedHostAndRecipient(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MailAlerts())

	t.Setenv("ALERT_EMAIL", "stock@example.com")
	t.Setenv("SMTP_PORT", "2525")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailAlerts())
	assert.Equal(t, 2525, cfg.SMTPPort)
}
