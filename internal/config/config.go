// Package config provides configuration management for the Wildcard Sim application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	League     LeagueConfig     `mapstructure:"league" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"datasource" validate:"required"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	History    HistoryConfig    `mapstructure:"history"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// LeagueConfig represents league file locations and display defaults
type LeagueConfig struct {
	File             string `mapstructure:"file" validate:"required"`
	SkillProjections string `mapstructure:"skill_projections"`
	QBProjections    string `mapstructure:"qb_projections"`
	DefaultColor     string `mapstructure:"default_color" validate:"omitempty,hexcolor"`
}

// SimulationConfig represents Monte Carlo engine configuration
type SimulationConfig struct {
	Trials          int     `mapstructure:"trials" validate:"required,min=1000,max=100000"`
	Workers         int     `mapstructure:"workers" validate:"gte=0"`
	BatchSize       int     `mapstructure:"batch_size" validate:"required,gt=0"`
	Seed            int64   `mapstructure:"seed"`
	PaceWeight      float64 `mapstructure:"pace_weight" validate:"gte=0,lte=1"`
	PushValue       float64 `mapstructure:"push_value" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// DataSourceConfig represents live score provider configuration
type DataSourceConfig struct {
	Provider          string  `mapstructure:"provider" validate:"required,oneof=espn file"`
	BaseURL           string  `mapstructure:"base_url" validate:"required"`
	SnapshotFile      string  `mapstructure:"snapshot_file"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// RefreshConfig represents the scheduled live-refresh configuration
type RefreshConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Schedule      string `mapstructure:"schedule"`
	SimulateAfter bool   `mapstructure:"simulate_after"`
}

// HistoryConfig represents the optional win-probability history store
type HistoryConfig struct {
	Enabled       bool           `mapstructure:"enabled"`
	Database      DatabaseConfig `mapstructure:"database"`
	SecretsRegion string         `mapstructure:"secrets_region"`
	SecretsName   string         `mapstructure:"secrets_name"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string for the history store
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.History.Database.User,
		c.History.Database.Password,
		c.History.Database.Host,
		c.History.Database.Port,
		c.History.Database.Name,
		c.History.Database.SSLMode,
	)
}

// Address returns the host:port the API server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReadTimeout returns the server read timeout as a duration
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown window as a duration
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// RequestTimeout returns the provider request timeout as a duration
func (d DataSourceConfig) RequestTimeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// CacheTTL returns the scoreboard cache lifetime as a duration
func (d DataSourceConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSeconds) * time.Second
}

// CacheTTL returns the simulation result cache lifetime as a duration
func (s SimulationConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}
