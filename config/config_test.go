package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operation failed"
	testErr := errors.New("internal database error")

	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 80, cfg.Budget.DefaultAlertThreshold)
	assert.Equal(t, 6, cfg.Budget.TrendMonths)
	assert.Equal(t, 10, cfg.Budget.HistoryLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_ExternalFileOverrides(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("database:\n  driver: sqlite\n  path: /tmp/ledger.db\nbudget:\n  trend_months: 12\napp:\n  timezone: UTC\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, 12, cfg.Budget.TrendMonths)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer func() { GlobalConfig = nil }()
	t.Setenv("FAMILYLEDGER_SERVER_MODE", "release")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestMustLoadConfig(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg := MustLoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ":8080", cfg.Server.Port)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("budget:\n  trend_months: lots\n"), 0o600))
	assert.Panics(t, func() { MustLoadConfig(path) })
}
