package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Search   SearchConfig   `yaml:"search"`
	Forecast ForecastConfig `yaml:"forecast"`
	Spots    SpotsConfig    `yaml:"spots"`
	Server   ServerConfig   `yaml:"server"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type SearchConfig struct {
	TavilyAPIKey string `yaml:"tavily_api_key" env:"TAVILY_API_KEY"`
	BaseURL      string `yaml:"base_url"`
}

type ForecastConfig struct {
	MarineURL   string `yaml:"marine_url"`
	ForecastURL string `yaml:"forecast_url"`
	Timezone    string `yaml:"timezone"`
}

type SpotsConfig struct {
	File string `yaml:"file"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file is fine as long as the secrets come from the environment.
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Search.TavilyAPIKey == "" {
		cfg.Search.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.tavily.com"
	}
	if cfg.Forecast.MarineURL == "" {
		cfg.Forecast.MarineURL = "https://marine-api.open-meteo.com/v1/marine"
	}
	if cfg.Forecast.ForecastURL == "" {
		cfg.Forecast.ForecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Forecast.Timezone == "" {
		cfg.Forecast.Timezone = "Asia/Tokyo"
	}
	if cfg.Spots.File == "" {
		cfg.Spots.File = "diving_spots.csv"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Search.TavilyAPIKey == "" {
		return fmt.Errorf("Tavily API key is required (set TAVILY_API_KEY or search.tavily_api_key)")
	}
	return nil
}
