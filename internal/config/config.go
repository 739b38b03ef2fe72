package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Data    DataConfig
	Graph   GraphConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// DataConfig locates the source dataset and identifies the deployment.
type DataConfig struct {
	CSVPath     string
	RulesPath   string
	Environment string // dev|prod
	Version     string
}

// GraphConfig describes connectivity to the graph database used by the
// offline graphsync tool.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultCSVPath          = "data/transactions.csv"
	defaultEnvironment      = "dev"
	defaultVersion          = "1.0.0"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Data: DataConfig{
			CSVPath:     valueOrDefault("DATA_CSV_PATH", defaultCSVPath),
			RulesPath:   os.Getenv("FRAUD_RULES_PATH"),
			Environment: valueOrDefault("APP_ENV", defaultEnvironment),
			Version:     valueOrDefault("APP_VERSION", defaultVersion),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
	}

	if cfg.Data.Environment != "dev" && cfg.Data.Environment != "prod" {
		return Config{}, fmt.Errorf("invalid APP_ENV %q: must be dev or prod", cfg.Data.Environment)
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	for _, item := range []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	} {
		if v := os.Getenv(item.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", item.key, err)
			}
			*item.target = d
		}
	}

	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
