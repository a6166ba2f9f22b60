package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"transitcatalog.org/internal/models"
)

// Config holds all the configuration settings for our application.
type Config struct {
	Port       int
	Env        string
	LogLevel   string
	MaxRetries int
	CacheDir   string

	// Input document sources; at most one is set, stdin otherwise.
	InputFile string
	InputURL  string
	GTFSFile  string
	GTFSURL   string

	Settings Settings
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string) *Config {
	return &Config{
		Port:     port,
		Env:      env,
		Settings: DefaultSettings(),
	}
}

// Settings is the optional YAML application config.
//
//	routing_settings:
//	  bus_wait_time: 6
//	  bus_velocity: 40
//	metrics_cache_ttl: 10s
//	shutdown_timeout: 5s
type Settings struct {
	Routing         *models.RoutingSettings `yaml:"routing_settings"`
	MetricsCacheTTL time.Duration           `yaml:"metrics_cache_ttl" validate:"gte=0"`
	ShutdownTimeout time.Duration           `yaml:"shutdown_timeout" validate:"gte=0"`
}

// DefaultSettings returns the settings used when no config file is given.
func DefaultSettings() Settings {
	return Settings{
		MetricsCacheTTL: 10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate checks the settings against their struct tags.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// IsGTFS reports whether the network is imported from a GTFS bundle.
func (cfg *Config) IsGTFS() bool {
	return cfg.GTFSFile != "" || cfg.GTFSURL != ""
}
