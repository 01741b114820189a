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

type Config struct {
	HTTPHost      string
	HTTPPort      string
	BaseURL       string
	MySQLDSN      string
	SessionSecret string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	LogLevel      string
	LogFormat     string
	Mail          MailConfig
	Password      PasswordPolicy
}

type MailConfig struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	Subject     string
}

type PasswordPolicy struct {
	MinLength int
	MaxLength int
}

func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("Password must have at least %d characters in length.", p.MinLength)
	}
	if len(password) > p.MaxLength {
		return fmt.Errorf("Password must not have characters more than %d in length.", p.MaxLength)
	}
	return nil
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is required")
	}

	return &Config{
		HTTPHost:      getEnv("HTTP_HOST", ""),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		BaseURL:       strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		MySQLDSN:      mysqlDSN,
		SessionSecret: sessionSecret,
		SessionTTL:    getDurationEnv("SESSION_TTL", 12*time.Hour),
		ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", 15*time.Minute),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		Mail:          loadMailConfig(),
		Password:      loadPasswordPolicy(),
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func loadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:    getEnv("SMTP_HOST", "localhost"),
		SMTPPort:    getIntEnv("SMTP_PORT", 587),
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		FromAddress: getEnv("MAIL_FROM_ADDRESS", "admin@example.com"),
		FromName:    getEnv("MAIL_FROM_NAME", "Admin Panel"),
		Subject:     getEnv("MAIL_RESET_SUBJECT", "Reset your password"),
	}
}

func loadPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength: getIntEnv("PASSWORD_MIN_LENGTH", 5),
		MaxLength: getIntEnv("PASSWORD_MAX_LENGTH", 45),
	}
}
