package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "JWT_TTL", "COOKIE_TTL", "PAYMENT_PROVIDER", "PAYMENT_CURRENCY", "AR_PLACEMENT_MODE", "ASSET_STORE")

	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.Auth.CookieTTL)
	assert.Equal(t, "stripe", cfg.Payment.Provider)
	assert.Equal(t, "pkr", cfg.Payment.Currency)
	assert.Equal(t, "accumulate", cfg.AR.PlacementMode)
	assert.Equal(t, "http", cfg.Assets.Store)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("PAYMENT_PROVIDER", "Midtrans")
	t.Setenv("AR_PLACEMENT_MODE", "SINGLE")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "midtrans", cfg.Payment.Provider)
	assert.Equal(t, "single", cfg.AR.PlacementMode)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("AR_SESSION_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, time.Hour, cfg.AR.SessionTTL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	require.NoError(t, cfg.Validate())

	cfg.App.Environment = "production"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
