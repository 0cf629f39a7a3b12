package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, "plus_session", cfg.Session.CookieName)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Contains(t, cfg.SupportedLocales, "zh-TW")
	assert.Empty(t, cfg.TrustedProxies, "no proxy is trusted by default")
	assert.Error(t, cfg.Validate(), "missing secret must be fatal")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("SUPPORTED_LOCALES", "en-US, fr ,,de")
	t.Setenv("APP_ENV", "development")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, int32(7), cfg.DBMaxConns)
	assert.Equal(t, []string{"en-US", "fr", "de"}, cfg.SupportedLocales)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
}

func TestValidate_ShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "too-short")
	assert.Error(t, Load().Validate())
}

func TestLoad_IgnoresBadNumbers(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg := Load()
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
}
