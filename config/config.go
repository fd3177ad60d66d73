package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// DefaultSourceURL is the published catalog spreadsheet export
const DefaultSourceURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQqoziKy640ID3oDos-DKk49txgsNPdMJGb_vAH1_WiRG88kewDPneVgo9iSHq2u5DXYI_g_n6se14k/pub?output=csv"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Scoring   ScoringConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the spreadsheet source and its cache settings
type CatalogConfig struct {
	SourceURL         string        `mapstructure:"source_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	AffiliateTag      string        `mapstructure:"affiliate_tag"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// ScoringConfig holds preset and result-size settings
type ScoringConfig struct {
	PersonasFile string `mapstructure:"personas_file"`
	Alternatives int    `mapstructure:"alternatives"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/techchoose/")

	// TECHCHOOSE_CATALOG_CACHE_TTL -> catalog.cache_ttl
	v.SetEnvPrefix("TECHCHOOSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults
	v.SetDefault("catalog.source_url", DefaultSourceURL)
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.cache_ttl", "60s")
	v.SetDefault("catalog.affiliate_tag", "techchoose-20")
	v.SetDefault("catalog.requests_per_minute", 30)

	// Scoring defaults
	v.SetDefault("scoring.personas_file", "")
	v.SetDefault("scoring.alternatives", 5)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.Catalog.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog source URL must be an http(s) URL (set TECHCHOOSE_CATALOG_SOURCE_URL), got: %q", config.Catalog.SourceURL)
	}

	if config.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog cache TTL must be positive, got: %s", config.Catalog.CacheTTL)
	}

	if config.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got: %s", config.Catalog.Timeout)
	}

	if config.Catalog.RequestsPerMinute <= 0 {
		return fmt.Errorf("catalog requests per minute must be positive, got: %d", config.Catalog.RequestsPerMinute)
	}

	if config.Scoring.Alternatives < 0 {
		return fmt.Errorf("scoring alternatives must be zero or more, got: %d", config.Scoring.Alternatives)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	if _, err := zapcore.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}
