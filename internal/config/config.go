package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	PriceFeed struct {
		BaseURL        string  `yaml:"base_url"`
		Interval       string  `yaml:"interval"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"price_feed"`
	SportsFeed struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"sports_feed"`
	Evaluation struct {
		Cron           string `yaml:"cron"`
		GraceMinutes   int    `yaml:"grace_minutes"`
		MaxConcurrency int    `yaml:"max_concurrency"`
	} `yaml:"evaluation"`
	Bankroll struct {
		InitialBalance float64 `yaml:"initial_balance"`
		StakePercent   float64 `yaml:"stake_percent"`
		StateFile      string  `yaml:"state_file"`
	} `yaml:"bankroll"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("PRICE_FEED_BASE_URL"); v != "" {
		cfg.PriceFeed.BaseURL = v
	}
	if v := os.Getenv("SPORTS_FEED_BASE_URL"); v != "" {
		cfg.SportsFeed.BaseURL = v
	}
	if v := os.Getenv("SPORTS_FEED_API_KEY"); v != "" {
		cfg.SportsFeed.APIKey = v
	}
	if v := os.Getenv("EVALUATION_CRON"); v != "" {
		cfg.Evaluation.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("GRACE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Evaluation.GraceMinutes = n
		}
	}
	if v := os.Getenv("STAKE_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Bankroll.StakePercent = f
		}
	}

	// Defaults
	if cfg.PriceFeed.Interval == "" {
		cfg.PriceFeed.Interval = "5m"
	}
	if cfg.PriceFeed.RateLimitRPS == 0 {
		cfg.PriceFeed.RateLimitRPS = 10
	}
	if cfg.PriceFeed.RateLimitBurst == 0 {
		cfg.PriceFeed.RateLimitBurst = 20
	}
	if cfg.PriceFeed.TimeoutSeconds == 0 {
		cfg.PriceFeed.TimeoutSeconds = 10
	}
	if cfg.Evaluation.Cron == "" {
		// Every 10 minutes.
		cfg.Evaluation.Cron = "0 */10 * * * *"
	}
	if cfg.Evaluation.GraceMinutes == 0 {
		cfg.Evaluation.GraceMinutes = 15
	}
	if cfg.Evaluation.MaxConcurrency == 0 {
		cfg.Evaluation.MaxConcurrency = 4
	}
	if cfg.Bankroll.InitialBalance == 0 {
		cfg.Bankroll.InitialBalance = 10000
	}
	if cfg.Bankroll.StakePercent == 0 {
		cfg.Bankroll.StakePercent = 2
	}
	if cfg.Bankroll.StateFile == "" {
		cfg.Bankroll.StateFile = "data/bankroll.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Evaluation.GraceMinutes < 0 {
		return fmt.Errorf("evaluation.grace_minutes must not be negative")
	}
	if c.Evaluation.MaxConcurrency < 1 {
		return fmt.Errorf("evaluation.max_concurrency must be at least 1")
	}
	if c.Bankroll.StakePercent <= 0 || c.Bankroll.StakePercent > 100 {
		return fmt.Errorf("bankroll.stake_percent must be in (0, 100]")
	}
	return nil
}
