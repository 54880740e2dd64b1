package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port       string   `mapstructure:"PORT"`
	Env        string   `mapstructure:"ENV"`
	DatabaseURL string  `mapstructure:"DATABASE_URL"`
	DBMaxConns int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Scheduling policy
	ORDayEnd            string `mapstructure:"OR_DAY_END"`
	OvertimeCutoff      string `mapstructure:"OVERTIME_CUTOFF"`
	OvertimeBufferMins  int    `mapstructure:"OVERTIME_BUFFER_MINS"`
	StrictSLAEnforcement bool  `mapstructure:"STRICT_SLA_ENFORCEMENT"`

	// Notification dispatch
	NotifyQueueSize int `mapstructure:"NOTIFY_QUEUE_SIZE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("OR_DAY_END", "17:00")
	v.SetDefault("OVERTIME_CUTOFF", "23:00")
	v.SetDefault("OVERTIME_BUFFER_MINS", 30)
	v.SetDefault("STRICT_SLA_ENFORCEMENT", false)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("OR_DAY_END")
	v.BindEnv("OVERTIME_CUTOFF")
	v.BindEnv("OVERTIME_BUFFER_MINS")
	v.BindEnv("STRICT_SLA_ENFORCEMENT")
	v.BindEnv("NOTIFY_QUEUE_SIZE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the scheduling policy is internally consistent: both
// clock values must parse, the overtime cutoff must fall after the nominal
// day end, and the buffer must be non-negative.
func (c *Config) Validate() error {
	dayEnd, err := parseClock(c.ORDayEnd)
	if err != nil {
		return fmt.Errorf("OR_DAY_END: %w", err)
	}
	cutoff, err := parseClock(c.OvertimeCutoff)
	if err != nil {
		return fmt.Errorf("OVERTIME_CUTOFF: %w", err)
	}
	if cutoff <= dayEnd {
		return fmt.Errorf("OVERTIME_CUTOFF (%s) must be after OR_DAY_END (%s)", c.OvertimeCutoff, c.ORDayEnd)
	}
	if c.OvertimeBufferMins < 0 {
		return fmt.Errorf("OVERTIME_BUFFER_MINS must be non-negative, got %d", c.OvertimeBufferMins)
	}
	if c.NotifyQueueSize <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be positive, got %d", c.NotifyQueueSize)
	}
	return nil
}

// DayEndMins returns the nominal OR day end as minutes after midnight.
func (c *Config) DayEndMins() int {
	m, _ := parseClock(c.ORDayEnd)
	return m
}

// OvertimeCutoffMins returns the hard overtime ceiling as minutes after midnight.
func (c *Config) OvertimeCutoffMins() int {
	m, _ := parseClock(c.OvertimeCutoff)
	return m
}

// parseClock parses an "HH:MM" wall-clock string into minutes after midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid HH:MM value %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
