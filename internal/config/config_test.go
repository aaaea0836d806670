package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("SessionTTL converts hours to duration", func(t *testing.T) {
		cfg := &Config{SessionTTLHours: 168}
		assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	})

	t.Run("SigningSecrets drops blanks and keeps order", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{" new ", "", "old"}}
		assert.Equal(t, []string{"new", "old"}, cfg.SigningSecrets())
	})

	t.Run("MailEnabled needs key and both addresses", func(t *testing.T) {
		cfg := &Config{ResendAPIKey: "re_x", ContactFromEmail: "a@x.com"}
		assert.False(t, cfg.MailEnabled())
		cfg.ContactToEmail = "b@x.com"
		assert.True(t, cfg.MailEnabled())
	})
}

func TestValidate(t *testing.T) {
	strong := strings.Repeat("s", 32)

	t.Run("requires a session secret", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{" "}, SessionTTLHours: 1}
		assert.Error(t, cfg.Validate(false))
	})

	t.Run("allows short secrets outside production", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{"dev"}, SessionTTLHours: 1}
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("rejects short secrets in production", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{strong, "short"}, SessionTTLHours: 1, DatabaseURL: "postgres://x"}
		err := cfg.Validate(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SECRETS[1]")
	})

	t.Run("requires database in production", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{strong}, SessionTTLHours: 1}
		assert.Error(t, cfg.Validate(true))
	})

	t.Run("rejects short admin password", func(t *testing.T) {
		cfg := &Config{SessionSecrets: []string{"dev"}, SessionTTLHours: 1, AdminPassword: "short"}
		assert.Error(t, cfg.Validate(false))
	})
}

func TestLoad(t *testing.T) {
	keys := []string{"PORT", "SESSION_SECRETS", "SESSION_TTL_HOURS", "LOG_LEVEL", "PUBLIC_REVIEW_READS", "DATABASE_URL"}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("SESSION_SECRETS", "current,previous")
		os.Unsetenv("PORT")
		os.Unsetenv("SESSION_TTL_HOURS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("PUBLIC_REVIEW_READS")
		os.Unsetenv("DATABASE_URL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, []string{"current", "previous"}, cfg.SessionSecrets)
		assert.Equal(t, 168, cfg.SessionTTLHours)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.PublicReviewReads)
		assert.Empty(t, cfg.DatabaseURL)
	})

	t.Run("loads custom values", func(t *testing.T) {
		os.Setenv("SESSION_SECRETS", "current")
		os.Setenv("PORT", "3000")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("PUBLIC_REVIEW_READS", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.PublicReviewReads)
	})

	t.Run("fails without required SESSION_SECRETS", func(t *testing.T) {
		os.Unsetenv("SESSION_SECRETS")

		_, err := Load()
		assert.Error(t, err)
	})
}
