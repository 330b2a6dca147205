package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.StateBackend)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, "console", cfg.OutputDestination)
	assert.Equal(t, 2*time.Second, cfg.SubmitDelay)
	assert.Equal(t, 1.0, cfg.TrackingSpeed)
	assert.Equal(t, TopicOrders, cfg.OrdersTopic)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "freshmix.yaml")
	content := `
state_backend: redis
redis_addr: cache:6379
submit_delay: 250ms
tracking_speed: 20
cloud_storage:
  provider: s3
  bucket_name: exports
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FRESHMIX_OUTPUT_DESTINATION", "json")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.StateBackend)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.SubmitDelay)
	assert.Equal(t, 20.0, cfg.TrackingSpeed)
	assert.Equal(t, "s3", cfg.CloudStorage.Provider)
	assert.Equal(t, "exports", cfg.CloudStorage.BucketName)
	assert.Equal(t, "json", cfg.OutputDestination)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	base := Config{StateBackend: "memory", OutputDestination: "none", TrackingSpeed: 1}
	require.NoError(t, base.Validate())
	assert.Equal(t, DefaultNamespace, base.Namespace)

	bad := base
	bad.StateBackend = "sqlite"
	assert.Error(t, bad.Validate())

	bad = base
	bad.OutputDestination = "email"
	assert.Error(t, bad.Validate())

	bad = base
	bad.StateBackend = "postgres"
	assert.Error(t, bad.Validate())

	bad = base
	bad.TrackingSpeed = 0
	assert.Error(t, bad.Validate())
}
