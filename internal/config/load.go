package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load.
// For example, RECALL_SERVER_PORT overrides server.port.
const envPrefix = "RECALL"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file, which takes precedence over
// defaults. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything else is a real error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting so a bare
// environment still yields a runnable configuration (except the database
// URL, which has no sensible default).
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Registered empty so the key is known to viper and can be supplied via
	// RECALL_DATABASE_URL; validation rejects the empty value.
	v.SetDefault("database.url", "")

	v.SetDefault("study.new_card_limit", 20)
	v.SetDefault("study.custom_session_cap", 50)
	v.SetDefault("study.write_retry_attempts", 3)
	v.SetDefault("study.write_retry_base_ms", 100)
	v.SetDefault("study.reveal_all_markers", true)
	v.SetDefault("study.streak_lookback_days", 365)
	v.SetDefault("study.timezone", "UTC")

	v.SetDefault("srs.min_ease_factor", 1.3)
	v.SetDefault("srs.first_interval_days", 1)
	v.SetDefault("srs.second_interval_days", 6)
	v.SetDefault("srs.lapse_interval_days", 1)
}
