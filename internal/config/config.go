package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/collection-engine/internal/schedule"
)

// Config holds all configuration for our application
type Config struct {
	Server       ServerConfig       `mapstructure:",squash"`
	Database     DatabaseConfig     `mapstructure:",squash"`
	Redis        RedisConfig        `mapstructure:",squash"`
	Scheduler    SchedulerConfig    `mapstructure:",squash"`
	Logging      LoggingConfig      `mapstructure:",squash"`
	Business     BusinessConfig     `mapstructure:",squash"`
	Notification NotificationConfig `mapstructure:",squash"`
	Audit        AuditConfig        `mapstructure:",squash"`
	Health       HealthConfig       `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	CORSOrigins  string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER"`
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `mapstructure:"DATABASE_AUTO_MIGRATE"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	NoticeSpec  string `mapstructure:"SCHEDULER_NOTICE_SPEC"`
	OverdueSpec string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	RatePlans         string        `mapstructure:"RATE_PLANS"`
	SettlementEpsilon string        `mapstructure:"SETTLEMENT_EPSILON"`
	DuplicateWindow   time.Duration `mapstructure:"DUPLICATE_SUBMISSION_WINDOW"`
}

type NotificationConfig struct {
	Enabled      bool   `mapstructure:"NOTIFY_ENABLED"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	From         string `mapstructure:"SMTP_FROM"`
}

type AuditConfig struct {
	JournalPath string `mapstructure:"AUDIT_JOURNAL_PATH"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":                 "8080",
	"SERVER_HOST":                 "0.0.0.0",
	"ENV":                         "development",
	"SERVER_READ_TIMEOUT":         "15s",
	"SERVER_WRITE_TIMEOUT":        "15s",
	"CORS_ALLOWED_ORIGINS":        "*",
	"DATABASE_DRIVER":             "postgres",
	"DATABASE_URL":                "",
	"DATABASE_HOST":               "localhost",
	"DATABASE_PORT":               "5432",
	"DATABASE_NAME":               "cobrancas",
	"DATABASE_USER":               "postgres",
	"DATABASE_PASSWORD":           "",
	"DATABASE_SSLMODE":            "disable",
	"DATABASE_MAX_OPEN_CONNS":     25,
	"DATABASE_MAX_IDLE_CONNS":     5,
	"DATABASE_CONN_MAX_LIFETIME":  "5m",
	"DATABASE_AUTO_MIGRATE":       true,
	"REDIS_ENABLED":               false,
	"REDIS_HOST":                  "localhost",
	"REDIS_PORT":                  "6379",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"SCHEDULER_NOTICE_SPEC":       "0 8 * * *",
	"SCHEDULER_OVERDUE_SPEC":      "30 7 * * *",
	"SCHEDULER_TIMEZONE":          "America/Sao_Paulo",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"RATE_PLANS":                  schedule.DefaultRatePlans,
	"SETTLEMENT_EPSILON":          "0.01",
	"DUPLICATE_SUBMISSION_WINDOW": "10s",
	"NOTIFY_ENABLED":              false,
	"SMTP_HOST":                   "",
	"SMTP_PORT":                   "587",
	"SMTP_USER":                   "",
	"SMTP_PASSWORD":               "",
	"SMTP_FROM":                   "",
	"AUDIT_JOURNAL_PATH":          "",
	"HEALTH_CHECK_TIMEOUT":        "5s",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
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

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
		}
	case "sqlite3":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for sqlite3")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite3, got %q", c.Database.Driver)
	}

	if _, err := schedule.ParseRatePlans(c.Business.RatePlans); err != nil {
		return fmt.Errorf("RATE_PLANS is invalid: %w", err)
	}

	epsilon, err := decimal.NewFromString(c.Business.SettlementEpsilon)
	if err != nil {
		return fmt.Errorf("SETTLEMENT_EPSILON must be a valid decimal: %w", err)
	}
	if epsilon.IsNegative() {
		return fmt.Errorf("SETTLEMENT_EPSILON must not be negative")
	}

	if c.Business.DuplicateWindow < 0 {
		return fmt.Errorf("DUPLICATE_SUBMISSION_WINDOW must not be negative")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE is invalid: %w", err)
	}

	if c.Notification.Enabled && (c.Notification.SMTPHost == "" || c.Notification.From == "") {
		return fmt.Errorf("SMTP_HOST and SMTP_FROM are required when NOTIFY_ENABLED is set")
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
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

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Addr returns host:port for the Redis client.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// GetRatePlans returns the parsed rate plan table.
func (c *Config) GetRatePlans() schedule.RatePlans {
	plans, _ := schedule.ParseRatePlans(c.Business.RatePlans)
	return plans
}

// GetSettlementEpsilon returns the settlement tolerance as decimal
func (c *Config) GetSettlementEpsilon() decimal.Decimal {
	epsilon, _ := decimal.NewFromString(c.Business.SettlementEpsilon)
	return epsilon
}

// GetSchedulerTimezone returns the location used to decide "today".
func (c *Config) GetSchedulerTimezone() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetCORSOrigins splits the comma separated allow list.
func (c *Config) GetCORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
