package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Calendar  CalendarConfig  `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	APIKeyTTL   time.Duration `mapstructure:"API_KEY_CACHE_TTL"`
	TokenExpiry time.Duration `mapstructure:"TOKEN_EXPIRY"`
}

// CalendarConfig carries the school-calendar defaults used by the term
// resolver when a request does not override them. Holiday weeks are a
// comma-separated list, one entry per term.
type CalendarConfig struct {
	ScheduleStart  string `mapstructure:"CALENDAR_SCHEDULE_START"`
	TermWeeks      int    `mapstructure:"CALENDAR_TERM_WEEKS"`
	HolidayWeeks   string `mapstructure:"CALENDAR_HOLIDAY_WEEKS"`
	PublicHolidays string `mapstructure:"CALENDAR_PUBLIC_HOLIDAYS"`
}

type SchedulerConfig struct {
	SweepSpec string `mapstructure:"SCHEDULER_SWEEP_SPEC"`
	Timezone  string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("API_KEY_CACHE_TTL", "5m")
	viper.SetDefault("TOKEN_EXPIRY", "24h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("CALENDAR_SCHEDULE_START", "2024-09-09")
	viper.SetDefault("CALENDAR_TERM_WEEKS", 13)
	viper.SetDefault("CALENDAR_HOLIDAY_WEEKS", "2,2,6")
	viper.SetDefault("CALENDAR_PUBLIC_HOLIDAYS", "")
	viper.SetDefault("SCHEDULER_SWEEP_SPEC", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Lagos")

	viper.AutomaticEnv()

	// Optional .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Calendar.TermWeeks <= 0 {
		return fmt.Errorf("CALENDAR_TERM_WEEKS must be greater than 0")
	}

	if _, err := time.Parse("2006-01-02", c.Calendar.ScheduleStart); err != nil {
		return fmt.Errorf("CALENDAR_SCHEDULE_START must be a YYYY-MM-DD date: %w", err)
	}

	if _, err := c.HolidayWeeks(); err != nil {
		return err
	}

	if _, err := c.PublicHolidays(); err != nil {
		return err
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// ScheduleStart returns the calendar anchor date.
func (c *Config) ScheduleStart() time.Time {
	t, _ := time.Parse("2006-01-02", c.Calendar.ScheduleStart)
	return t
}

// HolidayWeeks parses the per-term holiday durations.
func (c *Config) HolidayWeeks() ([]int, error) {
	parts := strings.Split(c.Calendar.HolidayWeeks, ",")
	weeks := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		w, err := strconv.Atoi(p)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("CALENDAR_HOLIDAY_WEEKS entry %q must be a non-negative integer", p)
		}
		weeks = append(weeks, w)
	}
	if len(weeks) != 3 {
		return nil, fmt.Errorf("CALENDAR_HOLIDAY_WEEKS must list exactly three durations, got %d", len(weeks))
	}
	return weeks, nil
}

// PublicHolidays parses the optional public-holiday exclusion dates.
func (c *Config) PublicHolidays() ([]time.Time, error) {
	if strings.TrimSpace(c.Calendar.PublicHolidays) == "" {
		return nil, nil
	}
	parts := strings.Split(c.Calendar.PublicHolidays, ",")
	dates := make([]time.Time, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", p)
		if err != nil {
			return nil, fmt.Errorf("CALENDAR_PUBLIC_HOLIDAYS entry %q must be a YYYY-MM-DD date", p)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
