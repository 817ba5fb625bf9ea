// ThisBook - Book Club Social Platform Backend
// Copyright 2026 ThisBook contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/thisbookapp/thisbook

// Package config loads server configuration with koanf v2, layering
// built-in defaults, an optional YAML file, and environment variables
// (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	Relay    RelayConfig    `koanf:"relay"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// StoreConfig holds the document store settings.
type StoreConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds authentication and CORS settings.
type SecurityConfig struct {
	// JWTSecret signs issued tokens. Required, minimum 32 bytes.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the token validity window.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	CORSOrigins       []string `koanf:"cors_origins"`
	RateLimitDisabled bool     `koanf:"rate_limit_disabled"`
}

// RelayConfig holds realtime chat relay settings.
type RelayConfig struct {
	// MaxMessageSize caps a single inbound frame in bytes.
	MaxMessageSize int64 `koanf:"max_message_size"`

	// MessagesPerSecond and Burst bound per-connection inbound traffic.
	MessagesPerSecond float64 `koanf:"messages_per_second"`
	Burst             int     `koanf:"burst"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8700,
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Path:     "/data/thisbook",
			InMemory: false,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			SessionTimeout: 24 * time.Hour,
			CORSOrigins:    []string{"*"},
		},
		Relay: RelayConfig{
			MaxMessageSize:    64 * 1024,
			MessagesPerSecond: 20,
			Burst:             40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the loaded configuration. The JWT secret is
// mandatory; there is no insecure fallback.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 bytes")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Relay.MaxMessageSize <= 0 {
		return fmt.Errorf("relay.max_message_size must be positive")
	}
	return nil
}
