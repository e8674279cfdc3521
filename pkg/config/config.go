// Package config loads lifeos settings from config.yaml, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// Config holds all lifeos configuration.
type Config struct {
	// DataDir is resolved at load time and never read from the file.
	DataDir string `yaml:"-"`
	UserID  string `yaml:"user_id"`

	Gateway  GatewayConfig  `yaml:"gateway"`
	Checkout CheckoutConfig `yaml:"checkout"`
	LLM      LLMConfig      `yaml:"llm"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GatewayConfig points the coach at the AI analysis function. An empty URL
// puts the coach in offline mode.
type GatewayConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// CheckoutConfig points at the hosted checkout function.
type CheckoutConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Origin string `yaml:"origin"`
}

// LLMConfig configures the model behind `lifeos gateway serve`.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ServerConfig configures the gateway HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // dashboard log file; empty disables
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UserID: "local",
		Gateway: GatewayConfig{
			Timeout: "60s",
		},
		Checkout: CheckoutConfig{
			Origin: "http://localhost:5173",
		},
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Server: ServerConfig{
			Addr: ":8787",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load resolves the data directory (dir, then LIFEOS_DIR, then
// defaultDir), loads <data-dir>/.env and <data-dir>/config.yaml, and applies
// environment overrides. Missing files are not errors.
func Load(dir, defaultDir string) (*Config, error) {
	// .env in the working directory wins over the data directory's.
	_ = godotenv.Load()

	dataDir := dir
	if dataDir == "" {
		dataDir = os.Getenv("LIFEOS_DIR")
	}
	if dataDir == "" {
		dataDir = defaultDir
	}
	if err := loadDotenv(filepath.Join(dataDir, ".env")); err != nil {
		return nil, err
	}

	cfg, err := LoadFile(filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir
	return cfg, nil
}

// LoadFile reads a single YAML file over the defaults and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func loadDotenv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LIFEOS_USER"); v != "" {
		c.UserID = v
	}
	if v := os.Getenv("LIFEOS_GATEWAY_URL"); v != "" {
		c.Gateway.URL = v
	}
	if v := os.Getenv("LIFEOS_GATEWAY_KEY"); v != "" {
		c.Gateway.APIKey = v
	}
	if v := os.Getenv("LIFEOS_CHECKOUT_URL"); v != "" {
		c.Checkout.URL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LIFEOS_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LIFEOS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LIFEOS_ADDR"); v != "" {
		c.Server.Addr = v
	}

	// The hosted functions share one project key.
	if c.Checkout.URL == "" {
		c.Checkout.URL = c.Gateway.URL
	}
	if c.Checkout.APIKey == "" {
		c.Checkout.APIKey = c.Gateway.APIKey
	}
}

// GatewayTimeout returns the gateway timeout as a duration.
func (c *Config) GatewayTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gateway.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Offline reports whether no AI gateway is configured.
func (c *Config) Offline() bool {
	return c.Gateway.URL == ""
}

// Validate checks values the loader cannot default.
func (c *Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %.2f out of range [0, 2]", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}
