// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds the guide ingestion configuration
type Config struct {
	InstallID  string          `mapstructure:"install_id"`
	AI         AIConfig        `mapstructure:"ai"`
	Supabase   SupabaseConfig  `mapstructure:"supabase"`
	Geocode    GeocodeConfig   `mapstructure:"geocode"`
	Segmenter  SegmenterConfig `mapstructure:"segmenter"`
	Workers    int             `mapstructure:"workers"`
	WatchPaths []string        `mapstructure:"watch_paths"`
	RunLogPath string          `mapstructure:"run_log_path"`
}

// AIConfig holds extraction provider settings
type AIConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// SupabaseConfig holds project connection settings
type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	Key    string `mapstructure:"key"`
	Bucket string `mapstructure:"bucket"`
}

// GeocodeConfig holds address resolution settings
type GeocodeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

// SegmenterConfig holds record segmentation tuning knobs
type SegmenterConfig struct {
	LookbackWindow int `mapstructure:"lookback_window"`
	MaxNameLength  int `mapstructure:"max_name_length"`
	MinChunkChars  int `mapstructure:"min_chunk_chars"`
	FallbackChunks int `mapstructure:"fallback_chunks"`
}

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	// Set default values
	viper.SetDefault("ai.provider", "mock")
	viper.SetDefault("ai.temperature", 0.1)
	viper.SetDefault("ai.max_tokens", 4000)
	viper.SetDefault("supabase.bucket", "guideassets")
	viper.SetDefault("geocode.enabled", false)
	viper.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("segmenter.lookback_window", 9)
	viper.SetDefault("segmenter.max_name_length", 32)
	viper.SetDefault("segmenter.min_chunk_chars", 50)
	viper.SetDefault("segmenter.fallback_chunks", 10)
	viper.SetDefault("workers", 3)
	viper.SetDefault("watch_paths", []string{"./inbox"})
	// Note: install_id will be generated if missing, not set as default

	// If config path is provided, use it
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Otherwise, look in home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".guide-ingest")
		configFile := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		// If config file doesn't exist, create default one
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := generateDefaultConfig(configFile); err != nil {
				return nil, fmt.Errorf("failed to generate default config: %w", err)
			}
		}

		viper.SetConfigFile(configFile)
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configFile := viper.ConfigFileUsed()
			if configFile != "" {
				if err := generateDefaultConfig(configFile); err != nil {
					return nil, fmt.Errorf("failed to generate default config: %w", err)
				}
				if err := viper.ReadInConfig(); err != nil {
					return nil, fmt.Errorf("failed to read config: %w", err)
				}
			} else {
				log.Printf("No config file found, using defaults")
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Allow environment variables (GUIDE_AI_API_KEY, GUIDE_SUPABASE_URL, ...)
	viper.SetEnvPrefix("GUIDE")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.RunLogPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			config.RunLogPath = filepath.Join(home, ".guide-ingest", "runs.db")
		}
	}

	// Generate install_id if missing
	if config.InstallID == "" {
		config.InstallID = uuid.New().String()
		log.Printf("Generated new install ID: %s", config.InstallID)

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			viper.Set("install_id", config.InstallID)
			if err := viper.WriteConfig(); err != nil {
				log.Printf("Warning: Failed to save install_id to config file: %v", err)
			}
		}
	}

	return &config, nil
}

// generateDefaultConfig creates a default configuration file
func generateDefaultConfig(configFile string) error {
	defaultConfig := `# Guide Ingest Configuration
# install_id will be auto-generated on first run

ai:
  provider: "mock"  # mock, deepseek or openai
  api_key: ""       # or set GUIDE_AI_API_KEY
  model: ""         # provider default when empty

supabase:
  url: ""           # https://<project>.supabase.co
  key: ""           # service role key
  bucket: "guideassets"

geocode:
  enabled: false
  base_url: "https://nominatim.openstreetmap.org"

segmenter:
  lookback_window: 9
  max_name_length: 32
  min_chunk_chars: 50
  fallback_chunks: 10

workers: 3

watch_paths:
  - "./inbox"  # Directories to watch for documents
`

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}

	return os.WriteFile(configFile, []byte(defaultConfig), 0644)
}

// ApplyCLIFlags applies command-line flags to override config values
func ApplyCLIFlags(config *Config, provider, apiKey string, workers int, watchDirs []string) {
	if provider != "" {
		config.AI.Provider = provider
	}
	if apiKey != "" {
		config.AI.APIKey = apiKey
	}
	if workers > 0 {
		config.Workers = workers
	}
	if len(watchDirs) > 0 {
		config.WatchPaths = watchDirs
	}
}
