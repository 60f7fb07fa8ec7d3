package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "voltbook/libs/config"
)

// Config defines the voltbook service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"VOLTBOOK_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"VOLTBOOK_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"VOLTBOOK_DB_MAX_OPEN"`
		MaxIdleConns int    `yaml:"maxIdleConns" env:"VOLTBOOK_DB_MAX_IDLE"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"VOLTBOOK_REDIS_ADDR"`
		Password string `yaml:"password" env:"VOLTBOOK_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"VOLTBOOK_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"VOLTBOOK_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret  string        `yaml:"jwtSecret" env:"VOLTBOOK_JWT_SECRET"`
		TokenTTL   time.Duration `yaml:"tokenTtl" env:"VOLTBOOK_TOKEN_TTL"`
		BcryptCost int           `yaml:"bcryptCost" env:"VOLTBOOK_BCRYPT_COST"`
	} `yaml:"auth"`
}

// Load reads configuration via the shared helper and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: struct {
			Port string `yaml:"port" env:"VOLTBOOK_HTTP_PORT"`
		}{
			Port: "8080",
		},
		Redis: struct {
			Addr     string `yaml:"addr" env:"VOLTBOOK_REDIS_ADDR"`
			Password string `yaml:"password" env:"VOLTBOOK_REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"VOLTBOOK_REDIS_DB"`
			TTL      int    `yaml:"ttlSeconds" env:"VOLTBOOK_REDIS_TTL"`
		}{
			Addr: "localhost:6379",
			TTL:  86400,
		},
		Auth: struct {
			JWTSecret  string        `yaml:"jwtSecret" env:"VOLTBOOK_JWT_SECRET"`
			TokenTTL   time.Duration `yaml:"tokenTtl" env:"VOLTBOOK_TOKEN_TTL"`
			BcryptCost int           `yaml:"bcryptCost" env:"VOLTBOOK_BCRYPT_COST"`
		}{
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ActiveBookingTTL returns the redis cache ttl as duration.
func (c *Config) ActiveBookingTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTL <= 0 {
		return 24 * time.Hour
	}
	return c.Auth.TokenTTL
}
