package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Source struct {
		BaseURL        string            `yaml:"base_url"`
		TimeoutSeconds int               `yaml:"timeout_seconds"`
		Coins          map[string]string `yaml:"coins"` // API coin id -> display symbol
	} `yaml:"source"`
	Storage struct {
		HistoryFile string `yaml:"history_file"`
	} `yaml:"storage"`
	Monitor struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"monitor"`
	Chart struct {
		OutputFile string `yaml:"output_file"`
		Disabled   bool   `yaml:"disabled"`
	} `yaml:"chart"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("SOURCE_TIMEOUT_SECONDS"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
			cfg.Source.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("HISTORY_FILE"); v != "" {
		cfg.Storage.HistoryFile = v
	}
	if v := os.Getenv("MONITOR_INTERVAL_SECONDS"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
			cfg.Monitor.IntervalSeconds = secs
		}
	}
	if v := os.Getenv("CHART_FILE"); v != "" {
		cfg.Chart.OutputFile = v
	}
	if v := os.Getenv("CHART_DISABLED"); v == "true" {
		cfg.Chart.Disabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	// Defaults
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 10
	}
	if len(cfg.Source.Coins) == 0 {
		cfg.Source.Coins = map[string]string{
			"bitcoin":  "BTC",
			"ethereum": "ETH",
		}
	}
	if cfg.Storage.HistoryFile == "" {
		cfg.Storage.HistoryFile = "historico_cotacoes.csv"
	}
	if cfg.Monitor.IntervalSeconds == 0 {
		cfg.Monitor.IntervalSeconds = 15
	}
	if cfg.Chart.OutputFile == "" {
		cfg.Chart.OutputFile = "grafico_cotacoes.png"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "data/monitor.log"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if c.Source.TimeoutSeconds <= 0 {
		return fmt.Errorf("source.timeout_seconds must be positive")
	}
	if len(c.Source.Coins) == 0 {
		return fmt.Errorf("source.coins must list at least one coin")
	}
	if c.Storage.HistoryFile == "" {
		return fmt.Errorf("storage.history_file is required")
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive")
	}
	return nil
}
