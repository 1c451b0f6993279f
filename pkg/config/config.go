/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"
)

// Config represents the Skuld configuration
type Config struct {
	DataDir   string  `yaml:"data_dir"`
	Port      int     `yaml:"port"`
	Bind      string  `yaml:"bind"`
	Principal string  `yaml:"principal"`
	Store     Store   `yaml:"store"`
	Logging   Logging `yaml:"logging"`
}

// Store contains store tuning configuration
type Store struct {
	BucketSizeKiB int64 `yaml:"bucket_size_kib"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "./data",
		Port:      8080,
		Bind:      "127.0.0.1",
		Principal: "auto",
		Store: Store{
			BucketSizeKiB: 64,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// BucketSizeBytes converts the configured bucket size to bytes.
// A zero or negative setting defers to the store's built-in default.
func (c *Config) BucketSizeBytes() int64 {
	if c.Store.BucketSizeKiB <= 0 {
		return 0
	}
	return c.Store.BucketSizeKiB * 1024
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GeneratePrincipal generates a unique default principal name
func GeneratePrincipal() (string, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate principal: %w", err)
	}
	return "skuld-" + id.String(), nil
}

// BootstrapConfig creates a new configuration with a generated principal
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	// Generate a stable principal for this installation
	principal, err := GeneratePrincipal()
	if err != nil {
		return nil, err
	}
	config.Principal = principal

	// Save the configuration
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	// Use OS-specific default locations
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./skuld.yaml"
	}

	// For Linux/macOS, use ~/.config/skuld/config.yaml
	configDir := filepath.Join(homeDir, ".config", "skuld")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
