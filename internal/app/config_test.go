package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.True(t, cfg.Alerts.Enabled)
	require.True(t, cfg.Alerts.PushEnabled)
	require.Equal(t, "LOFO Alert", cfg.Alerts.NotificationsTitle)
	require.Equal(t, 2, cfg.Matching.MinScore)
	require.True(t, cfg.Matching.QuickSuggestion)
	require.Equal(t, 90, cfg.Maintenance.AlertRetentionDays)
	require.Equal(t, "@daily", cfg.Maintenance.AlertSchedule)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestLoadConfigReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte("server:\n  port: 9100\nmatching:\n  min_score: 3\nalerts:\n  push_enabled: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, 3, cfg.Matching.MinScore)
	require.False(t, cfg.Alerts.PushEnabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LOFO_SERVER_PORT", "9010")
	t.Setenv("LOFO_MAINTENANCE_ALERT_RETENTION_DAYS", "30")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9010, cfg.Server.Port)
	require.Equal(t, 30, cfg.Maintenance.AlertRetentionDays)
}
