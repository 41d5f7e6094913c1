package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Printers PrintersConfig `yaml:"printers"`
	Menu     MenuConfig     `yaml:"menu"`
	Fallback FallbackConfig `yaml:"fallback"`
	Dispatch DispatchConfig `yaml:"dispatch"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// URL renders the pgx/goose connection string.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type PrintersConfig struct {
	Mock bool `yaml:"mock"`
	// FoodAddress and DrinksAddress are host:port of the receipt printers.
	// When DrinksAddress is empty both categories share the food printer.
	FoodAddress   string `yaml:"food_address"`
	DrinksAddress string `yaml:"drinks_address"`
	// ProbeTTLSeconds caps how often a liveness probe actually dials out.
	ProbeTTLSeconds int `yaml:"probe_ttl_seconds"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
}

type MenuConfig struct {
	Path string `yaml:"path"`
}

type FallbackConfig struct {
	CSVPath string `yaml:"csv_path"`
}

type DispatchConfig struct {
	RetryInitialMS int `yaml:"retry_initial_ms"`
	RetryMaxMS     int `yaml:"retry_max_ms"`
}

func (d DispatchConfig) RetryInitial() time.Duration {
	return time.Duration(d.RetryInitialMS) * time.Millisecond
}

func (d DispatchConfig) RetryMax() time.Duration {
	return time.Duration(d.RetryMaxMS) * time.Millisecond
}

// Load reads and validates the YAML configuration file, applying defaults
// for optional sections.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("invalid config: database.host is required")
	}
	if !cfg.Printers.Mock && cfg.Printers.FoodAddress == "" {
		return nil, fmt.Errorf("invalid config: printers.food_address is required unless printers.mock is set")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5000
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.Printers.ProbeTTLSeconds == 0 {
		c.Printers.ProbeTTLSeconds = 5
	}
	if c.Printers.TimeoutSeconds == 0 {
		c.Printers.TimeoutSeconds = 5
	}
	if c.Menu.Path == "" {
		c.Menu.Path = "resources/menu.json"
	}
	if c.Fallback.CSVPath == "" {
		c.Fallback.CSVPath = "data.csv"
	}
	if c.Dispatch.RetryInitialMS == 0 {
		c.Dispatch.RetryInitialMS = 500
	}
	if c.Dispatch.RetryMaxMS == 0 {
		c.Dispatch.RetryMaxMS = 15000
	}
}
