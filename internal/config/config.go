// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"plancost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog contains catalog store configuration
	Catalog CatalogConfig `json:"catalog"`

	// Cache contains price cache configuration
	Cache CacheConfig `json:"cache"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Trace contains debug trace configuration
	Trace TraceConfig `json:"trace"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains catalog store settings
type CatalogConfig struct {
	// Dir is the directory holding per-key catalog files
	Dir string `json:"dir"`

	// Endpoint is the retail price API endpoint
	Endpoint string `json:"endpoint"`
}

// CacheConfig contains price cache settings
type CacheConfig struct {
	// Enabled enables the durable price cache
	Enabled bool `json:"enabled"`

	// Path is the cache file location
	Path string `json:"path"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// DefaultCurrency is used when a resource omits one
	DefaultCurrency string `json:"default_currency"`

	// HoursPerMonth is the monthly-equivalent convention for hourly meters
	HoursPerMonth int `json:"hours_per_month"`

	// ConfidenceFloor is the minimum score for a confident match
	ConfidenceFloor float64 `json:"confidence_floor"`
}

// TraceConfig contains debug trace settings
type TraceConfig struct {
	// Enabled enables per-resource scoring traces
	Enabled bool `json:"enabled"`

	// Path is the append-only trace file location
	Path string `json:"path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".plancost")

	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			Dir:      filepath.Join(baseDir, "catalog"),
			Endpoint: "https://prices.azure.com/api/retail/prices",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(baseDir, "price-cache.json"),
		},
		Pricing: PricingConfig{
			DefaultCurrency: "USD",
			HoursPerMonth:   730,
			ConfidenceFloor: 0.35,
		},
		Trace: TraceConfig{
			Enabled: false,
			Path:    filepath.Join(baseDir, "trace.ndjson"),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
