package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
ai:
  gemini_api_key: test-gemini
search:
  tavily_api_key: test-tavily
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default model, got %s", cfg.AI.Model)
	}
	if cfg.Forecast.Timezone != "Asia/Tokyo" {
		t.Errorf("Expected default timezone, got %s", cfg.Forecast.Timezone)
	}
	if !strings.Contains(cfg.Forecast.MarineURL, "marine-api.open-meteo.com") {
		t.Errorf("Unexpected marine URL: %s", cfg.Forecast.MarineURL)
	}
	if !strings.Contains(cfg.Forecast.ForecastURL, "api.open-meteo.com") {
		t.Errorf("Unexpected forecast URL: %s", cfg.Forecast.ForecastURL)
	}
	if cfg.Search.BaseURL != "https://api.tavily.com" {
		t.Errorf("Unexpected search base URL: %s", cfg.Search.BaseURL)
	}
	if cfg.Spots.File != "diving_spots.csv" {
		t.Errorf("Unexpected spots file: %s", cfg.Spots.File)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Unexpected port: %d", cfg.Server.Port)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	path := writeConfig(t, "ai:\n  model: gemini-2.5-pro\n")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("TAVILY_API_KEY", "env-tavily")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.GeminiAPIKey != "env-gemini" {
		t.Errorf("Expected Gemini key from environment, got %s", cfg.AI.GeminiAPIKey)
	}
	if cfg.Search.TavilyAPIKey != "env-tavily" {
		t.Errorf("Expected Tavily key from environment, got %s", cfg.Search.TavilyAPIKey)
	}
	if cfg.AI.Model != "gemini-2.5-pro" {
		t.Errorf("Expected model from file, got %s", cfg.AI.Model)
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errTxt string
	}{
		{
			name:   "missing Gemini key",
			yaml:   "search:\n  tavily_api_key: test-tavily\n",
			errTxt: "Gemini API key",
		},
		{
			name:   "missing Tavily key",
			yaml:   "ai:\n  gemini_api_key: test-gemini\n",
			errTxt: "Tavily API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.yaml))
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("TAVILY_API_KEY", "")

			_, err := Load()
			if err == nil {
				t.Fatal("Expected error for missing secret")
			}
			if !strings.Contains(err.Error(), tt.errTxt) {
				t.Errorf("Expected error mentioning %q, got: %v", tt.errTxt, err)
			}
		})
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "ai: [not a mapping"))
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("TAVILY_API_KEY", "env-tavily")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for malformed config file")
	}
}
