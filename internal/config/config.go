// Package config provides configuration management for the clustercalc application.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Storage       StorageConfig       `mapstructure:"storage" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database"`
	StatsProvider StatsProviderConfig `mapstructure:"stats_provider" validate:"required"`
	Analysis      AnalysisConfig      `mapstructure:"analysis" validate:"required"`
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Schedule      ScheduleConfig      `mapstructure:"schedule"`
	Secrets       SecretsConfig       `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StorageConfig selects where game logs live and where reference tables are read from
type StorageConfig struct {
	Backend      string `mapstructure:"backend" validate:"required,storage_backend"`
	GameLogPath  string `mapstructure:"game_log_path"`
	TeamsPath    string `mapstructure:"teams_path" validate:"required"`
	ClustersPath string `mapstructure:"clusters_path" validate:"required"`
	DVPPath      string `mapstructure:"dvp_path" validate:"required"`
	DuckDBPath   string `mapstructure:"duckdb_path"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// StatsProviderConfig configures the upstream stats endpoint client
type StatsProviderConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	Season            string  `mapstructure:"season" validate:"required,season"`
	SeasonType        string  `mapstructure:"season_type" validate:"required,oneof='Regular Season' Playoffs 'Pre Season'"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
}

// AnalysisConfig holds the thresholds used by the projection pipeline
type AnalysisConfig struct {
	MinGames       int           `mapstructure:"min_games" validate:"required,gt=0"`
	MinEdge        float64       `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	TargetCount    int           `mapstructure:"target_count" validate:"required,gt=0"`
	DefaultLine    float64       `mapstructure:"default_line" validate:"gte=0"`
	DVPCacheTTL    time.Duration `mapstructure:"dvp_cache_ttl" validate:"required"`
	RosterCacheTTL time.Duration `mapstructure:"roster_cache_ttl" validate:"required"`
}

// ServerConfig configures the REST API
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig controls the periodic game log refresh
type ScheduleConfig struct {
	RefreshEnabled bool   `mapstructure:"refresh_enabled"`
	RefreshCron    string `mapstructure:"refresh_cron"`
}

// SecretsConfig points at an optional AWS Secrets Manager overlay
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesPostgres reports whether game logs are stored in Postgres
func (c *Config) UsesPostgres() bool {
	return c.Storage.Backend == BackendPostgres
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ParseDSN reads a postgres:// URL into a DatabaseConfig
func ParseDSN(dsn string) (*DatabaseConfig, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("invalid dsn scheme %q", u.Scheme)
	}

	cfg := &DatabaseConfig{
		Host:    u.Hostname(),
		Port:    5432,
		Name:    strings.TrimPrefix(u.Path, "/"),
		SSLMode: u.Query().Get("sslmode"),
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid dsn port %q: %w", p, err)
		}
		cfg.Port = port
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg, nil
}

// Storage backends
const (
	BackendMemory   = "memory"
	BackendParquet  = "parquet"
	BackendPostgres = "postgres"
)
