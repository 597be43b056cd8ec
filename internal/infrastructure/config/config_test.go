package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: mem
support:
  transition_policy: forward_only
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mem", cfg.Storage.Driver)
	assert.Equal(t, "forward_only", cfg.Support.TransitionPolicy)
	assert.Equal(t, "Support Agent", cfg.Support.DefaultAuthorName)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.Events.RelayInterval)
	assert.Equal(t, "helpdesk.ticket.events", cfg.Events.AMQPQueue)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HELPDESK_EVENTS_DRIVER", "redis")
	t.Setenv("HELPDESK_RATELIMIT_REQUESTS_PER_MINUTE", "3")

	cfg, err := Load("test", writeConfig(t, "server:\n  host: 127.0.0.1\n"))
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Events.Driver)
	assert.Equal(t, 3, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "test", cfg.Server.Mode)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	_, err := Load("", writeConfig(t, "support:\n  transition_policy: anything_goes\n"))
	assert.ErrorContains(t, err, "transition_policy")

	_, err = Load("production", writeConfig(t, "server:\n  port: 80\n"))
	assert.ErrorContains(t, err, "auth.jwt.secret")
}

func TestConfig_RenderOmitsSecrets(t *testing.T) {
	t.Setenv("HELPDESK_DATABASE_PASSWORD", "hunter2")
	cfg, err := Load("", writeConfig(t, "auth:\n  jwt:\n    secret: top-secret\n"))
	require.NoError(t, err)

	out, err := cfg.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "transition_policy: permissive")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "top-secret")
}
