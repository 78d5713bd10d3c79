package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "training_planner", cfg.Database.Name)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UseSSL)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "planner", cfg.Metrics.Namespace)
	assert.Equal(t, 15*time.Minute, cfg.Planner.ExportURLExpiry)

	loc, err := cfg.Planner.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
s3:
  bucket_name: plans
planner:
  timezone: UTC
  export_url_expiry: 5m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("DATABASE_NAME", "planner_ci")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "planner_ci", cfg.Database.Name)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Planner.ExportURLExpiry)

	loc, err := cfg.Planner.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestPlannerConfig_InvalidTimezone(t *testing.T) {
	_, err := PlannerConfig{Timezone: "Mars/Olympus"}.Location()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner.timezone")
}
