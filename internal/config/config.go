// Package config loads the application configuration from a YAML file,
// an optional .env file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Addr     string        `yaml:"addr"`
	Env      string        `yaml:"env"`
	LogLevel string        `yaml:"log_level"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Store    StoreConfig   `yaml:"store"`
	LLM      LLMConfig     `yaml:"llm"`
	Events   EventsConfig  `yaml:"events"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

type StoreConfig struct {
	Driver    string        `yaml:"driver"`
	DSN       string        `yaml:"dsn"`
	Database  string        `yaml:"database"`
	Timeout   time.Duration `yaml:"timeout"`
	MenuKey   string        `yaml:"menu_key"`
	OrdersKey string        `yaml:"orders_key"`
}

type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	AzureEndpoint   string        `yaml:"azure_endpoint"`
	AzureDeployment string        `yaml:"azure_deployment"`
	Temperature     float64       `yaml:"temperature"`
	MaxTokens       int           `yaml:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

var (
	validDrivers   = map[string]bool{"sqlite": true, "postgres": true, "mongo": true, "memory": true}
	validProviders = map[string]bool{"googleai": true, "openai": true, "github": true, "azure": true}
	validLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		Env:      "development",
		LogLevel: "info",
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
			Path:    "/metrics",
		},
		Store: StoreConfig{
			Driver:    "sqlite",
			DSN:       "foodmaster.db",
			Database:  "foodmaster",
			Timeout:   10 * time.Second,
			MenuKey:   "food-menu-v2",
			OrdersKey: "food-orders-v2",
		},
		LLM: LLMConfig{
			Provider: "googleai",
			Timeout:  60 * time.Second,
		},
		Events: EventsConfig{
			Exchange: "foodmaster.events",
		},
	}
}

// Load reads path on top of the defaults, then applies the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("ADDR", c.Addr)
	c.Env = getEnv("APP_ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)

	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.Timeout = getDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.AzureEndpoint = getEnv("AZURE_OPENAI_ENDPOINT", c.LLM.AzureEndpoint)
	c.LLM.AzureDeployment = getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", c.LLM.AzureDeployment)

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(apiKeyEnv(c.LLM.Provider))
	}

	c.Events.AMQPURL = getEnv("AMQP_URL", c.Events.AMQPURL)
}

// apiKeyEnv names the environment variable holding the key of a provider
func apiKeyEnv(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "github":
		return "GITHUB_TOKEN"
	case "azure":
		return "AZURE_OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Validate rejects unknown drivers, providers and log levels
func (c *Config) Validate() error {
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("unsupported log level: %q", c.LogLevel)
	}
	if c.Store.MenuKey == "" || c.Store.OrdersKey == "" {
		return errors.New("store keys must not be empty")
	}
	if c.Store.MenuKey == c.Store.OrdersKey {
		return errors.New("menu and orders must be stored under different keys")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout must not be negative: %s", c.LLM.Timeout)
	}
	return nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
