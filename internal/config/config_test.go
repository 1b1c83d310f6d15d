package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "inspectd.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, []string{"note", "photo", "measurement", "file"}, cfg.Evidence.Types)
	require.Equal(t, 10*1024*1024, cfg.Evidence.MaxPayloadBytes)
	require.Equal(t, 20, cfg.Evidence.MaxPerObservation)
	require.Equal(t, "http", cfg.MCP.Mode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INSPECTD_SERVER_PORT", "9090")
	t.Setenv("INSPECTD_DB_PATH", "/tmp/test.db")
	t.Setenv("INSPECTD_LOG_LEVEL", "debug")
	t.Setenv("INSPECTD_AUTH_ENABLED", "true")
	t.Setenv("INSPECTD_JWT_SECRET", "sekrit")
	t.Setenv("INSPECTD_EVIDENCE_TYPES", "note, photo")
	t.Setenv("INSPECTD_EVIDENCE_MAX_PER_OBSERVATION", "5")
	t.Setenv("INSPECTD_MCP_MODE", "stdio")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "sekrit", cfg.Auth.JWTSecret)
	require.Equal(t, []string{"note", "photo"}, cfg.Evidence.Types)
	require.Equal(t, 5, cfg.Evidence.MaxPerObservation)
	require.Equal(t, "stdio", cfg.MCP.Mode)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("INSPECTD_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 3000
evidence:
  max_per_observation: 3
auth:
  enabled: true
  jwt_secret: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("INSPECTD_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, 3, cfg.Evidence.MaxPerObservation)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("INSPECTD_CONFIG_PATH", path)
	t.Setenv("INSPECTD_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}
