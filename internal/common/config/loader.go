package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (plus config.<env>.yaml overrides) and the
// process environment into a Config. Credentials are only ever read from the
// environment.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env-specific overrides are optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvCredentials(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "travel-assistant"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "badger"
	}
	if cfg.Store.Badger.Path == "" {
		cfg.Store.Badger.Path = "data/vector_db"
	}
	if cfg.Store.Badger.Collection == "" {
		cfg.Store.Badger.Collection = "travel_knowledge"
	}
	if cfg.Store.Elasticsearch.Index == "" {
		cfg.Store.Elasticsearch.Index = "travel_knowledge"
	}

	if cfg.Gateways.TimeoutMS == 0 {
		cfg.Gateways.TimeoutMS = 10000
	}
	if cfg.Gateways.Weather.GeocodingURL == "" {
		cfg.Gateways.Weather.GeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if cfg.Gateways.Weather.ForecastURL == "" {
		cfg.Gateways.Weather.ForecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Gateways.Currency.BaseURL == "" {
		cfg.Gateways.Currency.BaseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	if cfg.Gateways.Amadeus.BaseURL == "" {
		cfg.Gateways.Amadeus.BaseURL = "https://test.api.amadeus.com"
	}
	if cfg.Gateways.GeocodeCache.TTLHours == 0 {
		cfg.Gateways.GeocodeCache.TTLHours = 24
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-20250514"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.TimeoutMS == 0 {
		cfg.LLM.TimeoutMS = 60000
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 1
	}

	if cfg.Composer.ContextBudget == 0 {
		cfg.Composer.ContextBudget = 6000
	}
	if cfg.Composer.TopK == 0 {
		cfg.Composer.TopK = 5
	}
	if cfg.Composer.HistoryTurns == 0 {
		cfg.Composer.HistoryTurns = 5
	}

	if cfg.Ingest.SentencesPerChunk == 0 {
		cfg.Ingest.SentencesPerChunk = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}

// applyEnvCredentials fills credential fields from the environment so they
// never need to live in a config file.
func applyEnvCredentials(cfg *Config) {
	if v := os.Getenv("AMADEUS_CLIENT_ID"); v != "" {
		cfg.Gateways.Amadeus.ClientID = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_SECRET"); v != "" {
		cfg.Gateways.Amadeus.ClientSecret = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Store.Type {
	case "badger", "elasticsearch":
	default:
		return fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
	if cfg.Store.Type == "elasticsearch" && len(cfg.Store.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch store requires at least one address")
	}
	if cfg.Composer.ContextBudget < 0 {
		return fmt.Errorf("context budget must be non-negative")
	}
	return nil
}
