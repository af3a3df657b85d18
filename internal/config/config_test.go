package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/drivemon/internal/config"
	"codeberg.org/mutker/drivemon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "drivemon.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func isolate(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRIVEMON_CONFIG", "")
}

func TestLoad(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
tick_interval = "2s"
sample_interval = "5s"
drowsiness_delay = "0s"
health_delay = "30s"
threshold_alerts = false
alert_cooldown = "2m"
seed = 42
log_level = "debug"
telemetry = true
telemetry_db = "/path/to/telemetry.db"
batch_size = 5
`)
	t.Setenv("DRIVEMON_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, 5*time.Second, cfg.SampleInterval)
	assert.Zero(t, cfg.DrowsinessDelay)
	assert.Equal(t, 30*time.Second, cfg.HealthDelay)
	assert.False(t, cfg.ThresholdAlerts)
	assert.Equal(t, 2*time.Minute, cfg.AlertCooldown)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Telemetry)
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.BatchTimeout, "unset keys keep their default")

	tc := cfg.TelemetryConfig()
	assert.True(t, tc.Enabled)
	assert.Equal(t, "/path/to/telemetry.db", tc.DBPath)

	ac := cfg.AlertConfig()
	assert.Zero(t, ac.DrowsinessDelay)
	assert.False(t, ac.Thresholds)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.SampleInterval)
	assert.Equal(t, 8*time.Second, cfg.DrowsinessDelay)
	assert.Equal(t, 15*time.Second, cfg.HealthDelay)
	assert.True(t, cfg.ThresholdAlerts)
	assert.Equal(t, time.Minute, cfg.AlertCooldown)
	assert.Zero(t, cfg.Seed)
	assert.Zero(t, cfg.Duration)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Telemetry)
	assert.Equal(t, 20, cfg.BatchSize)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("DRIVEMON_CONFIG", path)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)

	_, err := config.Load(nil, config.WithConfigFile(writeConfig(t, `log_level = "invalid"`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_log_level")
}

func TestInvalidIntervals(t *testing.T) {
	isolate(t)

	_, err := config.Load(nil, config.WithConfigFile(writeConfig(t, `sample_interval = "0s"`)))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))

	_, err = config.Load(nil, config.WithConfigFile(writeConfig(t, `health_delay = "-1s"`)))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidDelay))

	_, err = config.Load(nil, config.WithConfigFile(writeConfig(t, "telemetry = true\ntelemetry_db = \"\"")))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("DRIVEMON_CONFIG", writeConfig(t, "log_level = \"error\"\nseed = 1\nbatch_size = 7"))
	t.Setenv("DRIVEMON_SEED", "2")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))

	cfg, err := config.Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "flag beats file")
	assert.Equal(t, uint64(2), cfg.Seed, "environment beats file")
	assert.Equal(t, 7, cfg.BatchSize, "file beats flag default")
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("verbose").IsValid())
}

func TestEnvPrefix(t *testing.T) {
	isolate(t)
	t.Setenv("CAR_SEED", "5")
	t.Setenv("CAR_SAMPLE_INTERVAL", "4s")

	cfg, err := config.Load(nil, config.WithEnvPrefix("car"))
	require.NoError(t, err)

	assert.Equal(t, uint64(5), cfg.Seed)
	assert.Equal(t, 4*time.Second, cfg.SampleInterval)
}
