package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/pkg/platform/sentinel"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := load("", env(nil))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Import.BatchSize)
	assert.Equal(t, 10, cfg.Import.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.Import.AttemptBackoff)
	assert.Equal(t, time.Second, cfg.Import.BatchBackoff)
	assert.True(t, cfg.Import.DefaultActive)
	assert.Equal(t, "GB", cfg.Import.PhoneRegion)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestPriority(t *testing.T) {
	path := writeFile(t, `
import:
  batchSize: 50
  maxAttempts: 3
  attemptBackoff: 2s
snapshot:
  paths: [directory.json, devices.json]
log:
  format: text
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := load(path, env(nil))
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.Import.BatchSize)
		assert.Equal(t, 3, cfg.Import.MaxAttempts)
		assert.Equal(t, 2*time.Second, cfg.Import.AttemptBackoff)
		assert.Equal(t, time.Second, cfg.Import.BatchBackoff, "unset keys keep defaults")
		assert.Equal(t, []string{"directory.json", "devices.json"}, cfg.Snapshot.Paths)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		cfg, err := load(path, env(map[string]string{
			"IMPORT_BATCH_SIZE":                "25",
			"IMPORT_ATTEMPT_SLEEP_DURATION":    "1500",
			"IMPORT_BULK_BATCH_SLEEP_DURATION": "0",
			"IMPORT_DEFAULT_ACTIVE":            "false",
			"SNAPSHOT_PATHS":                   "a.json, b.json,,a.json",
			"KAFKA_BROKERS":                    "k1:9092,k2:9092",
			"STORE_REQUEST_UNITS_PER_SECOND":   "400",
		}))
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Import.BatchSize)
		assert.Equal(t, 1500*time.Millisecond, cfg.Import.AttemptBackoff)
		assert.Equal(t, time.Duration(0), cfg.Import.BatchBackoff)
		assert.False(t, cfg.Import.DefaultActive)
		assert.Equal(t, []string{"a.json", "b.json"}, cfg.Snapshot.Paths)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, float64(400), cfg.Store.RequestUnitsPerSecond)
	})
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]struct {
		path string
		env  map[string]string
	}{
		"malformed env integer": {env: map[string]string{"IMPORT_BATCH_SIZE": "many"}},
		"batch size out of range": {env: map[string]string{"IMPORT_BATCH_SIZE": "0"}},
		"unknown log level":       {env: map[string]string{"LOG_LEVEL": "loud"}},
		"mail host without recipients": {env: map[string]string{
			"MAIL_HOST": "smtp.example.com",
			"MAIL_FROM": "importer@example.com",
		}},
		"malformed yaml": {path: "import: [unterminated"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := ""
			if tc.path != "" {
				path = writeFile(t, tc.path)
			}
			_, err := load(path, env(tc.env))
			require.Error(t, err)
			assert.True(t, errors.Is(err, sentinel.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "absent.yaml"), env(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
