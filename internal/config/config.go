// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	HTTPPort    string
	Environment string
	AutoMigrate bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			HTTPPort:    getEnv("HTTP_PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taskforge"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			AccessSecret:         getEnv("JWT_ACCESS_SECRET", getEnv("JWT_SECRET", "dev-access-secret-change-in-production")),
			RefreshSecret:        getEnv("JWT_REFRESH_SECRET", getEnv("JWT_SECRET", "dev-refresh-secret-change-in-production")),
			AccessTokenDuration:  getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("JWT_REFRESH_TOKEN_DURATION", 7*24*time.Hour),
		},
	}, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.IsDevelopment() {
		return nil
	}
	if c.JWT.AccessSecret == "dev-access-secret-change-in-production" ||
		c.JWT.RefreshSecret == "dev-refresh-secret-change-in-production" {
		return fmt.Errorf("JWT secrets must be set outside development")
	}
	if c.Database.Password == "postgres" {
		return fmt.Errorf("database password must be set outside development")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
