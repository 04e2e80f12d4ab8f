package config

import (
	"time"

	"golang-finance-agent/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Search holds the configuration for the web search provider.
type Search struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxResults          int           `mapstructure:"max_results"`
	PageCacheTTL        time.Duration `mapstructure:"page_cache_ttl"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
}

// Telegram holds configuration for the optional Telegram chat shell.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
}

// Session holds conversation session settings.
type Session struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config holds the full configuration for the agent service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	Gemini       Gemini        `mapstructure:"gemini"`
	Search       Search        `mapstructure:"search"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Telegram     Telegram      `mapstructure:"telegram"`
	Session      Session       `mapstructure:"session"`
}

// Load loads the agent configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
