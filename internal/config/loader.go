// Package config provides configuration management for the clustercalc application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "CLUSTERCALC"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override it even when the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clustercalc")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("storage.backend", BackendParquet)
	v.SetDefault("storage.game_log_path", "data_cache/league_player_logs.parquet")
	v.SetDefault("storage.teams_path", "data_cache/nba_teams.parquet")
	v.SetDefault("storage.clusters_path", "data_cache/clusters.parquet")
	v.SetDefault("storage.dvp_path", "data_cache/nba_dvp.csv")
	v.SetDefault("storage.duckdb_path", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "clustercalc")
	v.SetDefault("database.user", "clustercalc")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("stats_provider.base_url", "https://stats.nba.com/stats")
	v.SetDefault("stats_provider.season", "2025-26")
	v.SetDefault("stats_provider.season_type", "Regular Season")
	v.SetDefault("stats_provider.timeout_seconds", 30)
	v.SetDefault("stats_provider.max_retries", 3)
	v.SetDefault("stats_provider.requests_per_second", 1.0)

	v.SetDefault("analysis.min_games", 3)
	v.SetDefault("analysis.min_edge", 0.02)
	v.SetDefault("analysis.target_count", 6)
	v.SetDefault("analysis.default_line", 5.5)
	v.SetDefault("analysis.dvp_cache_ttl", "1h")
	v.SetDefault("analysis.roster_cache_ttl", "30m")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 5)
	v.SetDefault("server.write_timeout_seconds", 15)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.refresh_enabled", false)
	v.SetDefault("schedule.refresh_cron", "0 */6 * * *")

	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.secret_name", "")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
