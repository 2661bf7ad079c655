package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds server configuration values.
type Config struct {
	Addr                 string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadHeaderTimeout    time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	LogLevel             string        `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat            string        `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=console json"`
	EnableRequestLogging bool          `mapstructure:"enable_request_logging" yaml:"enable_request_logging"`
	AllowedOrigins       []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxMessageBytes      int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes" validate:"gt=0"`
	ClientBuffer         int           `mapstructure:"client_buffer" yaml:"client_buffer" validate:"gt=0"`
	Rooms                RoomsConfig   `mapstructure:"rooms" yaml:"rooms"`
}

// RoomsConfig bounds room capacity and lifetime.
type RoomsConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval" validate:"gt=0"`
	MaxAge          time.Duration `mapstructure:"max_age" yaml:"max_age" validate:"gt=0"`
	MaxClients      int           `mapstructure:"max_clients" yaml:"max_clients" validate:"gte=1"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		AllowedOrigins:    []string{"http://localhost:3000"},
		MaxMessageBytes:   64 << 10,
		ClientBuffer:      64,
		Rooms: RoomsConfig{
			CleanupInterval: time.Hour,
			MaxAge:          24 * time.Hour,
			MaxClients:      50,
		},
	}
}

var validate = validator.New()

// Validate checks value ranges after loading.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.EnableRequestLogging {
		c.EnableRequestLogging = true
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
	if other.Rooms.CleanupInterval != 0 {
		c.Rooms.CleanupInterval = other.Rooms.CleanupInterval
	}
	if other.Rooms.MaxAge != 0 {
		c.Rooms.MaxAge = other.Rooms.MaxAge
	}
	if other.Rooms.MaxClients != 0 {
		c.Rooms.MaxClients = other.Rooms.MaxClients
	}
}
