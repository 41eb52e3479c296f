package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	HTTP        HTTPConfig     `yaml:"http"`
	GRPC        GRPCConfig     `yaml:"grpc"`
	Auth        AuthConfig     `yaml:"auth"`
	Environment string         `yaml:"environment" default:"local"` // local, dev, prod
}

// HTTPConfig holds the REST server configuration
type HTTPConfig struct {
	Host string `yaml:"host" default:"localhost"`
	Port int    `yaml:"port" default:"8080"`
}

// GRPCConfig holds gRPC server configuration
type GRPCConfig struct {
	Host string `yaml:"host" default:"localhost"`
	Port int    `yaml:"port" default:"9091"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	Database string `yaml:"database" default:"goblog"`
	User     string `yaml:"user" default:"postgres"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode" default:"disable"` // disable, require, verify-ca, verify-full
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	SigningKey      string        `yaml:"signing_key"`                    // Secret key for signing JWTs
	AccessLifetime  time.Duration `yaml:"access_lifetime" default:"24h"`  // Access token lifetime
	RefreshLifetime time.Duration `yaml:"refresh_lifetime" default:"720h"` // Refresh token lifetime, default 30 days
}

// ConnectionString returns the PostgreSQL connection string
func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}
