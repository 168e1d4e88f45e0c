package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Scraper struct {
		Headless       bool   `yaml:"headless"`
		UserAgent      string `yaml:"user_agent"`
		NavTimeoutSecs int64  `yaml:"nav_timeout_seconds"`
		SettleWaitSecs int64  `yaml:"settle_wait_seconds"`
	} `yaml:"scraper"`
	Processing struct {
		Workers   int    `yaml:"workers"`
		OutputDir string `yaml:"output_dir"`
		// Upload size cap in megabytes for guide files.
		MaxUploadMB int64 `yaml:"max_upload_mb"`
	} `yaml:"processing"`
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Scraper.NavTimeoutSecs == 0 {
		config.Scraper.NavTimeoutSecs = 30
	}
	if config.Scraper.SettleWaitSecs == 0 {
		config.Scraper.SettleWaitSecs = 3
	}
	if config.Processing.Workers == 0 {
		config.Processing.Workers = 4
	}
	if config.Processing.OutputDir == "" {
		config.Processing.OutputDir = "./output"
	}
	if config.Processing.MaxUploadMB == 0 {
		config.Processing.MaxUploadMB = 5
	}

	// Expand environment variables in secrets
	config.Database.URL = os.ExpandEnv(config.Database.URL)
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Telegram.BotToken = os.ExpandEnv(config.Telegram.BotToken)

	return config, nil
}
