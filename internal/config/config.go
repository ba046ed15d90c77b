package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingParameter is returned when a required connection or security
// parameter is absent. It is fatal at startup.
var ErrMissingParameter = errors.New("missing required configuration parameter")

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DatabaseConfig holds the credentials shared by the master database and
// every tenant database. Only the database name differs between pools.
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	SSLMode          string
	MasterDB         string
	MaintenanceDB    string // used for CREATE DATABASE
	TenantDBPrefix   string
	TenantAutoCreate bool
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxIdleTime  time.Duration
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type Config struct {
	Env string

	HTTP struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	Database DatabaseConfig

	JWT struct {
		Secret string
		TTL    time.Duration
	}

	Auth struct {
		CodeTTL   time.Duration
		TrialDays int
	}

	SMTP SMTPConfig

	App struct {
		Name    string
		BaseURL string
	}

	Log struct {
		Level  string
		Format string
	}

	Migration struct {
		Concurrency int
	}
}

// Load reads an optional .env file and then the process environment.
// The returned config has passed Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Env = getEnv("APP_ENV", EnvDevelopment)

	cfg.HTTP.Port = getEnv("PORT", "8080")
	cfg.HTTP.ReadTimeout = parseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"), 15*time.Second)
	cfg.HTTP.WriteTimeout = parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "60s"), 60*time.Second)

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 0)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MasterDB = getEnv("DB_NAME", "cogniseguros")
	cfg.Database.MaintenanceDB = getEnv("DB_MAINTENANCE_NAME", "postgres")
	cfg.Database.TenantDBPrefix = getEnv("TENANT_DB_PREFIX", "cogniseguros_tenant_")
	cfg.Database.TenantAutoCreate = parseBool(getEnv("TENANT_AUTO_CREATE", "true"), true)
	cfg.Database.MaxOpenConns = parseInt(getEnv("DB_MAX_OPEN_CONNS", "10"), 10)
	cfg.Database.MaxIdleConns = parseInt(getEnv("DB_MAX_IDLE_CONNS", "2"), 2)
	cfg.Database.ConnMaxIdleTime = parseDuration(getEnv("DB_CONN_MAX_IDLE_TIME", "5m"), 5*time.Minute)
	cfg.Database.ConnectTimeout = parseDuration(getEnv("DB_CONNECT_TIMEOUT", "5s"), 5*time.Second)
	cfg.Database.StatementTimeout = parseDuration(getEnv("DB_STATEMENT_TIMEOUT", "30s"), 30*time.Second)

	cfg.JWT.Secret = getEnv("JWT_SECRET", "")
	cfg.JWT.TTL = parseDuration(getEnv("JWT_TTL", "12h"), 12*time.Hour)

	cfg.Auth.CodeTTL = parseDuration(getEnv("OTP_TTL", "10m"), 10*time.Minute)
	cfg.Auth.TrialDays = parseInt(getEnv("TRIAL_DAYS", "14"), 14)

	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = parseInt(getEnv("SMTP_PORT", "587"), 587)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")
	cfg.SMTP.FromName = getEnv("SMTP_FROM_NAME", "CogniSeguros")
	cfg.SMTP.UseSSL = parseBool(getEnv("SMTP_USE_SSL", "false"), false)

	cfg.App.Name = getEnv("APP_NAME", "CogniSeguros")
	cfg.App.BaseURL = getEnv("APP_BASE_URL", "http://localhost:5173")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Migration.Concurrency = parseInt(getEnv("MIGRATION_CONCURRENCY", "1"), 1)
	if cfg.Migration.Concurrency < 1 {
		cfg.Migration.Concurrency = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parameters every binary needs to reach PostgreSQL.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.Database.Port <= 0 {
		missing = append(missing, "DB_PORT")
	}
	if c.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Database.MasterDB == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.Database.TenantDBPrefix == "" {
		missing = append(missing, "TENANT_DB_PREFIX")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateServer additionally checks what the HTTP API needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingParameter)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
