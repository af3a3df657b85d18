package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/drivemon/internal/alert"
	"codeberg.org/mutker/drivemon/internal/biometric"
	"codeberg.org/mutker/drivemon/internal/drive"
	"codeberg.org/mutker/drivemon/internal/errors"
	"codeberg.org/mutker/drivemon/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "DRIVEMON"
	DefaultLogLevel  = string(LogLevelInfo)

	configName = "drivemon"
	configType = "toml"
)

type Config struct {
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	SampleInterval  time.Duration `mapstructure:"sample_interval"`
	DrowsinessDelay time.Duration `mapstructure:"drowsiness_delay"`
	HealthDelay     time.Duration `mapstructure:"health_delay"`
	ThresholdAlerts bool          `mapstructure:"threshold_alerts"`
	AlertCooldown   time.Duration `mapstructure:"alert_cooldown"`
	Seed            uint64        `mapstructure:"seed"`
	Duration        time.Duration `mapstructure:"duration"`
	LogLevel        string        `mapstructure:"log_level"`
	Telemetry       bool          `mapstructure:"telemetry"`
	TelemetryDB     string        `mapstructure:"telemetry_db"`
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"tick_interval":    drive.DefaultTickInterval,
		"sample_interval":  biometric.DefaultSampleInterval,
		"drowsiness_delay": alert.DefaultDrowsinessDelay,
		"health_delay":     alert.DefaultHealthDelay,
		"threshold_alerts": true,
		"alert_cooldown":   alert.DefaultCooldown,
		"seed":             uint64(0),
		"duration":         time.Duration(0),
		"log_level":        DefaultLogLevel,
		"telemetry":        false,
		"telemetry_db":     telemetry.DefaultDBPath(),
		"batch_size":       telemetry.DefaultConfig().BatchSize,
		"batch_timeout":    telemetry.DefaultConfig().BatchTimeout,
	}
}

// RegisterFlags adds one flag per configuration key to fs. Flag names are the
// keys with dashes instead of underscores.
func RegisterFlags(fs *pflag.FlagSet) {
	d := telemetry.DefaultConfig()

	fs.Duration("tick-interval", drive.DefaultTickInterval, "Drive elapsed time refresh interval")
	fs.Duration("sample-interval", biometric.DefaultSampleInterval, "Biometric sampling interval")
	fs.Duration("drowsiness-delay", alert.DefaultDrowsinessDelay, "Simulated drowsiness alert delay after drive start (0 disables)")
	fs.Duration("health-delay", alert.DefaultHealthDelay, "Simulated health alert delay after drive start (0 disables)")
	fs.Bool("threshold-alerts", true, "Raise alerts from sampled biometric statuses")
	fs.Duration("alert-cooldown", alert.DefaultCooldown, "Minimum gap between two alerts of the same kind")
	fs.Uint64("seed", 0, "Random seed (0 is time based)")
	fs.Duration("duration", 0, "Stop the drive after this long (0 runs until interrupted)")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("telemetry", false, "Record drives to the telemetry database")
	fs.String("telemetry-db", d.DBPath, "Telemetry database path")
	fs.Int("batch-size", d.BatchSize, "Samples buffered per database write")
	fs.Duration("batch-timeout", d.BatchTimeout, "Periodic telemetry flush interval")
}

// Load reads configuration with precedence flags > environment > file > defaults.
// fs may be nil.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key := range defaults() {
			flag := fs.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, o *options) error {
	errFactory := errors.New()

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath("/etc")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// Validate checks intervals, delays, the log level and telemetry settings.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.TickInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, "tick_interval must be positive")
	}
	if c.SampleInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, "sample_interval must be positive")
	}
	if c.DrowsinessDelay < 0 || c.HealthDelay < 0 || c.AlertCooldown < 0 || c.Duration < 0 {
		return errFactory.WithData(errors.ErrInvalidDelay, "delays must not be negative")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if err := c.TelemetryConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) AlertConfig() alert.Config {
	return alert.Config{
		DrowsinessDelay: c.DrowsinessDelay,
		HealthDelay:     c.HealthDelay,
		Thresholds:      c.ThresholdAlerts,
		Cooldown:        c.AlertCooldown,
	}
}

func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		DBPath:       c.TelemetryDB,
		BatchSize:    c.BatchSize,
		BatchTimeout: c.BatchTimeout,
		Enabled:      c.Telemetry,
	}
}
