package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the gsb configuration
type Config struct {
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
	Catalog Catalog `yaml:"catalog"`
	Server  Server  `yaml:"server"`
	Metrics Metrics `yaml:"metrics"`
}

// Output controls conversion output
type Output struct {
	Format string `yaml:"format"` // json or yaml
	Indent int    `yaml:"indent"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Catalog locates the grid catalog database
type Catalog struct {
	DataDir string `yaml:"data_dir"`
}

// Server contains inspection server settings
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Metrics controls metric export for CLI runs
type Metrics struct {
	Textfile string `yaml:"textfile"` // Prometheus text file written after each run
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Output: Output{
			Format: "json",
			Indent: 2,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Catalog: Catalog{
			DataDir: "./data",
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Validate checks enumerated and ranged fields
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q (want json or yaml)", c.Output.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("invalid output indent %d (want 0-8)", c.Output.Indent)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q (want text or json)", c.Logging.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields absent
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

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

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./gsb.yaml"
	}

	// For Linux/macOS, use ~/.config/gsb/config.yaml
	configDir := filepath.Join(homeDir, ".config", "gsb")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
