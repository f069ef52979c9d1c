package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ProviderConfig struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	FromEmail     string        `yaml:"from_email"`
	FromName      string        `yaml:"from_name"`
	Timeout       time.Duration `yaml:"timeout"`
	WebhookSecret string        `yaml:"webhook_secret"`
}

type WorkerConfig struct {
	Enabled        bool          `yaml:"enabled"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8090"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/var/lib/fangate/app.db"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://api.brevo.com"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Worker.TickInterval == 0 {
		cfg.Worker.TickInterval = time.Hour
	}
	if cfg.Worker.HealthInterval == 0 {
		cfg.Worker.HealthInterval = 15 * time.Minute
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if cfg.Provider.FromEmail == "" {
		return fmt.Errorf("provider.from_email is required")
	}
	if cfg.Worker.TickInterval < time.Minute {
		return fmt.Errorf("worker.tick_interval must be at least 1m")
	}
	return nil
}
