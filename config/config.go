package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"recipebot.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server   ServerConfig   `split_words:"true"`
	Database DatabaseConfig `split_words:"true"`
	Bot      BotConfig      `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"menu.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"recipebot"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string for postgres
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// BotConfig contains settings for the chat delivery transport
type BotConfig struct {
	APIBaseURL     string `envconfig:"BOT_API_BASE_URL" default:"https://api.telegram.org"`
	Token          string `envconfig:"BOT_TOKEN" required:"true"`
	TimeoutSeconds int    `envconfig:"BOT_TIMEOUT_SECONDS" default:"10"`
}

// CacheConfig contains settings for the shopping list cache
type CacheConfig struct {
	Type          string `envconfig:"CACHE_TYPE" default:"memory"`
	TTLMinutes    int    `envconfig:"CACHE_TTL_MINUTES" default:"5"`
	RedisAddr     string `envconfig:"CACHE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"CACHE_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"CACHE_REDIS_DB" default:"0"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Bot.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// ValidateSSLMode validates the SSL mode configuration
func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case "sqlite":
		if d.Path == "" {
			return errors.NewConfigurationError("DB_PATH cannot be empty", nil)
		}
	case "postgres":
		if d.Host == "" {
			return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
		}
		if d.Port < 1 || d.Port > 65535 {
			return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
		}
		if d.User == "" {
			return errors.NewConfigurationError("DB_USER cannot be empty", nil)
		}
		if d.Name == "" {
			return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
		}
		if err := d.ValidateSSLMode(); err != nil {
			return err
		}
	default:
		return errors.NewConfigurationError("DB_DRIVER must be either 'sqlite' or 'postgres'", nil)
	}
	return nil
}

// Validate checks bot transport configuration
func (b *BotConfig) Validate() error {
	if b.APIBaseURL == "" {
		return errors.NewConfigurationError("BOT_API_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(b.APIBaseURL, "http://") && !strings.HasPrefix(b.APIBaseURL, "https://") {
		return errors.NewConfigurationError("BOT_API_BASE_URL must start with http:// or https://", nil)
	}
	if b.Token == "" {
		return errors.NewConfigurationError("BOT_TOKEN is required", nil)
	}
	if b.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("BOT_TIMEOUT_SECONDS must be at least 1", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "none", "memory", "redis":
	default:
		return errors.NewConfigurationError("CACHE_TYPE must be one of: none, memory, redis", nil)
	}
	if c.TTLMinutes < 1 {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be at least 1 minute", nil)
	}
	if c.Type == "redis" && c.RedisAddr == "" {
		return errors.NewConfigurationError("CACHE_REDIS_ADDR cannot be empty", nil)
	}
	return nil
}
