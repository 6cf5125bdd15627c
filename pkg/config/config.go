// Package config loads console configuration from the environment, with an
// optional config.yaml override file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the console.
// Environment variables override YAML values. Secrets (the IRIS password and
// the LLM API key) must only come from environment variables.
type Config struct {
	IRIS IRISConfig `yaml:"iris"`
	LLM  LLMConfig  `yaml:"llm"`

	// LogLevel is a zap level string: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// IRISConfig holds the connection settings for one IRIS endpoint.
type IRISConfig struct {
	Host      string `yaml:"host" env:"IRIS_HOST" env-default:"127.0.0.1"`
	Port      string `yaml:"port" env:"IRIS_PORT" env-default:"1972"`
	Namespace string `yaml:"namespace" env:"IRIS_NAMESPACE" env-default:"USER"`
	Username  string `yaml:"username" env:"IRIS_USER" env-default:"_SYSTEM"`
	Password  string `yaml:"-" env:"IRIS_PASSWORD"` // Secret - not in YAML

	// Driver is the database/sql driver name to open the connection with.
	// The default matches the registered IRIS driver.
	Driver string `yaml:"driver" env:"IRIS_DRIVER" env-default:"iris"`
}

// LLMConfig holds the text-to-SQL endpoint settings. The endpoint must speak
// the OpenAI chat-completions protocol; local servers (Ollama, vLLM) qualify.
type LLMConfig struct {
	BaseURL string `yaml:"base_url" env:"LLM_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey  string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the text-to-SQL endpoint is configured.
func (c *LLMConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.Model != ""
}

// Load reads configuration from config.yaml (when present) with environment
// variable overrides, then validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.IRIS.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the connection settings are usable. The port accepts
// numeric strings so it can come straight from the environment.
func (c *IRISConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("iris port %q must be an integer: %w", c.Port, err)
	}
	if c.Host == "" {
		return fmt.Errorf("iris host is required")
	}
	if c.Namespace == "" {
		return fmt.Errorf("iris namespace is required")
	}
	return nil
}

// PortNumber returns the port as an integer. Validate must have passed.
func (c *IRISConfig) PortNumber() int {
	n, _ := strconv.Atoi(c.Port)
	return n
}

// DSN returns the driver connection string for this endpoint.
func (c *IRISConfig) DSN() string {
	return fmt.Sprintf("iris://%s:%s@%s:%d/%s",
		c.Username, c.Password, c.Host, c.PortNumber(), c.Namespace)
}

// String renders the connection target without the password.
func (c *IRISConfig) String() string {
	return fmt.Sprintf("IRIS connection [%s@%s:%s/%s]", c.Username, c.Host, c.Port, c.Namespace)
}
