package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Store    StoreConfig    `mapstructure:"store"`
	Gateways GatewaysConfig `mapstructure:"gateways"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Composer ComposerConfig `mapstructure:"composer"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StoreConfig selects and configures the semantic store backend.
type StoreConfig struct {
	Type          string              `mapstructure:"type"` // badger | elasticsearch
	Badger        BadgerConfig        `mapstructure:"badger"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type BadgerConfig struct {
	Path       string `mapstructure:"path"`
	Collection string `mapstructure:"collection"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// GatewaysConfig holds the per-provider settings for live travel data.
type GatewaysConfig struct {
	TimeoutMS int `mapstructure:"timeout_ms"` // per external call

	Weather  WeatherConfig  `mapstructure:"weather"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Amadeus  AmadeusConfig  `mapstructure:"amadeus"`

	GeocodeCache GeocodeCacheConfig `mapstructure:"geocode_cache"`
}

type WeatherConfig struct {
	GeocodingURL string `mapstructure:"geocoding_url"`
	ForecastURL  string `mapstructure:"forecast_url"`
}

type CurrencyConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// AmadeusConfig covers the flight and hotel offer provider. Absent client
// credentials disable both fetchers.
type AmadeusConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// GeocodeCacheConfig configures the optional redis cache of city coordinates.
type GeocodeCacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type LLMConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutMS   int     `mapstructure:"timeout_ms"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

type ComposerConfig struct {
	ContextBudget int `mapstructure:"context_budget"` // characters
	TopK          int `mapstructure:"top_k"`
	HistoryTurns  int `mapstructure:"history_turns"`
}

type IngestConfig struct {
	SentencesPerChunk int `mapstructure:"sentences_per_chunk"`
	OverlapSentences  int `mapstructure:"overlap_sentences"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
