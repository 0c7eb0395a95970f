package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "SCRY"

// intervalLevels is the number of difficulty levels, 0 through 5.
const intervalLevels = 6

// flagBindings maps command-line flags to configuration keys.
var flagBindings = map[string]string{
	"port":            "server.port",
	"log-level":       "server.log_level",
	"database-driver": "database.driver",
	"database-url":    "database.url",
}

// NewFlagSet returns the flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.Int("port", 8080, "HTTP listen port")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("database-driver", DriverPostgres, "storage backend (postgres or memory)")
	fs.String("database-url", "", "PostgreSQL connection URL")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.clock_skew_seconds", 120)

	v.SetDefault("study.allow_recompletion", false)
	v.SetDefault("study.default_due_limit", 10)
	v.SetDefault("study.max_due_limit", 100)
	v.SetDefault("study.default_activity_days", 7)
	// No default for intervals_hours: it must stay nil unless set. Binding
	// the key keeps SCRY_STUDY_INTERVALS_HOURS visible to AutomaticEnv.
	_ = v.BindEnv("study.intervals_hours", EnvPrefix+"_STUDY_INTERVALS_HOURS")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "scry-decks")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load builds the configuration from, in increasing precedence: defaults,
// an optional config.yaml, a .env file, SCRY_ environment variables and
// flags explicitly set in fs. fs may be nil.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// A missing .env is normal outside local development. Real environment
	// variables are never overridden.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	configPath := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flagName, key := range flagBindings {
			f := fs.Lookup(flagName)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("error binding flag --%s: %w", flagName, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct validation and the checks that span several fields.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.Database.Driver == DriverPostgres && cfg.Database.URL == "" {
		return fmt.Errorf("configuration validation failed: database.url is required for the %s driver",
			DriverPostgres)
	}
	if cfg.Study.DefaultDueLimit > cfg.Study.MaxDueLimit {
		return fmt.Errorf("configuration validation failed: study.default_due_limit (%d) exceeds study.max_due_limit (%d)",
			cfg.Study.DefaultDueLimit, cfg.Study.MaxDueLimit)
	}
	if err := validateIntervals(cfg.Study.IntervalsHours); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// validateIntervals accepts an empty table (use the built-in one) or exactly
// one positive entry per difficulty level.
func validateIntervals(hours []int) error {
	if len(hours) == 0 {
		return nil
	}
	if len(hours) != intervalLevels {
		return fmt.Errorf("study.intervals_hours needs %d entries, got %d", intervalLevels, len(hours))
	}
	for i, h := range hours {
		if h <= 0 {
			return fmt.Errorf("study.intervals_hours[%d] must be positive, got %d", i, h)
		}
	}
	return nil
}
