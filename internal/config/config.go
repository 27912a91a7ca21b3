package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Upstream UpstreamConfig
	Ledger   LedgerConfig
	Kiosk    KioskConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	// Origin of the kiosk UI, used for CORS.
	KioskOrigin string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds local session token configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// UpstreamConfig holds the scheduling API connection settings
type UpstreamConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// LedgerConfig holds the local attendance ledger settings
type LedgerConfig struct {
	Path          string
	RetentionDays int
}

// KioskConfig holds device-level settings
type KioskConfig struct {
	// Bcrypt hash of the supervisor PIN that gates journal access.
	SupervisorPINHash string
	// Bounded confirmation polling after check-out, replacing a fixed
	// settle delay: the agent re-reads upstream state until it reflects
	// the mutation or attempts run out.
	ConfirmPollAttempts int
	ConfirmPollInterval time.Duration
	SessionIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine on provisioned kiosks; env vars win.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		KioskOrigin: getEnv("KIOSK_ORIGIN", "http://localhost:3000"),
	}

	// Punch journal database
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	baseURL := getEnv("UPSTREAM_BASE_URL", "")
	config.Upstream = UpstreamConfig{
		BaseURL:      baseURL,
		TokenURL:     getEnv("UPSTREAM_TOKEN_URL", baseURL+"/api/auth/token"),
		ClientID:     getEnv("UPSTREAM_CLIENT_ID", "kiosk"),
		ClientSecret: getEnv("UPSTREAM_CLIENT_SECRET", ""),
	}

	retentionDays, err := strconv.Atoi(getEnv("LEDGER_RETENTION_DAYS", "14"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_RETENTION_DAYS: %w", err)
	}

	config.Ledger = LedgerConfig{
		Path:          getEnv("LEDGER_PATH", "attendance-ledger.db"),
		RetentionDays: retentionDays,
	}

	pollAttempts, err := strconv.Atoi(getEnv("CONFIRM_POLL_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIRM_POLL_ATTEMPTS: %w", err)
	}

	pollInterval, err := time.ParseDuration(getEnv("CONFIRM_POLL_INTERVAL", "300ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIRM_POLL_INTERVAL: %w", err)
	}

	idleTimeout, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "20m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}

	config.Kiosk = KioskConfig{
		SupervisorPINHash:   getEnv("SUPERVISOR_PIN_HASH", ""),
		ConfirmPollAttempts: pollAttempts,
		ConfirmPollInterval: pollInterval,
		SessionIdleTimeout:  idleTimeout,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.Upstream.ClientSecret == "" {
		return fmt.Errorf("UPSTREAM_CLIENT_SECRET is required")
	}
	if c.Kiosk.SupervisorPINHash == "" {
		return fmt.Errorf("SUPERVISOR_PIN_HASH is required")
	}
	if c.Ledger.RetentionDays <= 0 {
		return fmt.Errorf("LEDGER_RETENTION_DAYS must be positive")
	}
	if c.Kiosk.ConfirmPollAttempts <= 0 {
		return fmt.Errorf("CONFIRM_POLL_ATTEMPTS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
