package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "DATABASE_PATH", "CONTENT_PATH",
	"STATIC_DIR", "ADMIN_USERNAME", "ADMIN_PASSWORD", "CONTACT_SUBMIT_DELAY",
	"CONTACT_RESET_DELAY", "CONTACT_SESSION_TTL", "VISITOR_RETENTION",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "debug", cfg.GinMode)
	require.Equal(t, "folio.db", cfg.DatabasePath)
	require.Equal(t, 1500*time.Millisecond, cfg.SubmitDelay)
	require.Equal(t, 5*time.Second, cfg.ResetDelay)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, "admin", cfg.AdminUsername)
	require.Equal(t, "admin123", cfg.AdminPassword)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CONTACT_SUBMIT_DELAY", "250ms")
	t.Setenv("CONTACT_RESET_DELAY", "2s")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr())
	require.Equal(t, 250*time.Millisecond, cfg.SubmitDelay)
	require.Equal(t, 2*time.Second, cfg.ResetDelay)
	require.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"duration":      {"CONTACT_RESET_DELAY", "soon"},
		"zero duration": {"CONTACT_SESSION_TTL", "0s"},
		"gin mode":      {"GIN_MODE", "prod"},
		"log format":    {"LOG_FORMAT", "xml"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadReleaseModeRequiresAdminCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "release")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("ADMIN_USERNAME", "owner")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "owner", cfg.AdminUsername)
}
