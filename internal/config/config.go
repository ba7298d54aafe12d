package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Datasets  DatasetsConfig  `mapstructure:"datasets"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Export    ExportConfig    `mapstructure:"export"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DatasetsConfig holds the locations of the source CSV files.
// Each dataset has a primary path and a sample fallback used when
// the primary file is absent.
type DatasetsConfig struct {
	WorksPath         string `mapstructure:"works_path"`
	WorksSamplePath   string `mapstructure:"works_sample_path"`
	ReviewsPath       string `mapstructure:"reviews_path"`
	ReviewsSamplePath string `mapstructure:"reviews_sample_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ExportConfig holds CSV export configuration
type ExportConfig struct {
	Filename string `mapstructure:"filename"`
	MaxRows  int    `mapstructure:"max_rows"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "bookvoyage.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("datasets.works_path", "data/goodreads_works.csv")
	v.SetDefault("datasets.works_sample_path", "data/goodreads_works_sample.csv")
	v.SetDefault("datasets.reviews_path", "data/goodreads_reviews.csv")
	v.SetDefault("datasets.reviews_sample_path", "data/goodreads_reviews_sample.csv")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("export.filename", "my_reading_list.csv")
	v.SetDefault("export.max_rows", 10000)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		v.Set("server.mode", mode)
	}

	// Database
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		v.Set("database.path", path)
	}

	// Datasets
	if path := os.Getenv("WORKS_CSV_PATH"); path != "" {
		v.Set("datasets.works_path", path)
	}
	if path := os.Getenv("REVIEWS_CSV_PATH"); path != "" {
		v.Set("datasets.reviews_path", path)
	}

	// Rate Limit
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rate_limit.enabled", enabled == "true")
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Datasets.WorksPath == "" && c.Datasets.WorksSamplePath == "" {
		return fmt.Errorf("works dataset path cannot be empty")
	}

	if c.Datasets.ReviewsPath == "" && c.Datasets.ReviewsSamplePath == "" {
		return fmt.Errorf("reviews dataset path cannot be empty")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Export.MaxRows < 1 {
		return fmt.Errorf("export max_rows must be positive")
	}

	return nil
}
