package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TASKFLOW_CONFIG", "TASKFLOW_DRIVER", "TASKFLOW_DSN", "DATABASE_URL", "REDIS_ADDR", "REDIS_PREFIX",
	"TELEGRAM_TOKEN", "TELEGRAM_OWNER_ID", "REPORT_INTERVAL_HOURS", "BACKUP_DIR", "BACKUP_TIME",
	"TASKFLOW_SYSTEM_DARK", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Hour, cfg.Telegram.ReportInterval)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "taskflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: redis
  redis_addr: cache:6379
telegram:
  owner_id: 42
  report_interval: 2h
system_dark: true
`), 0o600))

	t.Setenv("REDIS_ADDR", "override:6380")
	t.Setenv("TELEGRAM_TOKEN", " secret ")
	t.Setenv("REPORT_INTERVAL_HOURS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "override:6380", cfg.Storage.RedisAddr)
	assert.Equal(t, "taskflow:", cfg.Storage.RedisPrefix)
	assert.Equal(t, int64(42), cfg.Telegram.OwnerID)
	assert.Equal(t, "secret", cfg.Telegram.Token)
	assert.Equal(t, 3*time.Hour, cfg.Telegram.ReportInterval)
	assert.True(t, cfg.SystemDark)
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoadFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "taskflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: memory\n"), 0o600))
	t.Setenv("TASKFLOW_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("TASKFLOW_DRIVER", "mongo")
	_, err = Load("")
	assert.ErrorContains(t, err, "unknown storage driver")

	clearEnv(t)
	t.Setenv("TELEGRAM_OWNER_ID", "me")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidateBot(t *testing.T) {
	err := Default().ValidateBot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
	assert.Contains(t, err.Error(), "TELEGRAM_OWNER_ID")
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseInterval(""))
	assert.Equal(t, time.Duration(0), parseInterval("-1"))
	assert.Equal(t, 90*time.Minute, parseInterval("1.5"))
}
