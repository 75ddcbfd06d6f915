package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// StudyConfig tunes study session behavior.
type StudyConfig struct {
	// NewCardLimit caps how many never-studied cards a session introduces.
	NewCardLimit int `mapstructure:"new_card_limit" validate:"required,gt=0"`

	// CustomSessionCap is the hard cap on cards in a custom filtered
	// session. When more cards match, the soonest-due are kept.
	CustomSessionCap int `mapstructure:"custom_session_cap" validate:"required,gt=0"`

	// WriteRetryAttempts bounds how many times a failed answer persistence
	// write is retried before the error is surfaced to the caller.
	WriteRetryAttempts int `mapstructure:"write_retry_attempts" validate:"required,gt=0"`

	// WriteRetryBaseMs is the base backoff, in milliseconds, between answer
	// write retries. Backoff grows exponentially from this base.
	WriteRetryBaseMs int `mapstructure:"write_retry_base_ms" validate:"required,gt=0"`

	// RevealAllMarkers selects the answer rendering policy for compound
	// cloze cards: true uncovers every marker, false only the targeted one.
	RevealAllMarkers bool `mapstructure:"reveal_all_markers"`

	// StreakLookbackDays bounds how far back the streak computation scans
	// the review log.
	StreakLookbackDays int `mapstructure:"streak_lookback_days" validate:"required,gt=0"`

	// Timezone is the learner-local IANA timezone used to bucket reviews
	// into calendar days for analytics.
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// SRSConfig tunes the scheduling algorithm parameters.
type SRSConfig struct {
	MinEaseFactor      float64 `mapstructure:"min_ease_factor" validate:"required,gt=1"`
	FirstIntervalDays  int     `mapstructure:"first_interval_days" validate:"required,gt=0"`
	SecondIntervalDays int     `mapstructure:"second_interval_days" validate:"required,gt=0"`
	LapseIntervalDays  int     `mapstructure:"lapse_interval_days" validate:"required,gt=0"`
}
