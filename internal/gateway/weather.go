package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/httpclient"
	"travel-assistant/internal/common/logger"
)

// Coordinates is a geocoded city location. Coordinates are static facts, so
// they are the one thing the weather fetcher is allowed to cache.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

// GeocodeCache is an optional read-through cache of city coordinates.
type GeocodeCache interface {
	Get(ctx context.Context, city string) (*Coordinates, bool)
	Set(ctx context.Context, city string, coords *Coordinates)
}

// Weather is the normalized current-plus-forecast record for one city.
type Weather struct {
	City          string    `json:"city"`
	Country       string    `json:"country"`
	CurrentTemp   float64   `json:"currentTemp"`
	Humidity      float64   `json:"humidity"`
	MaxTemps      []float64 `json:"maxTemps"`
	MinTemps      []float64 `json:"minTemps"`
	Precipitation []float64 `json:"precipitation"`
}

func (w *Weather) Kind() Kind { return KindWeather }

func (w *Weather) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Weather for %s, %s:\n", w.City, w.Country)
	fmt.Fprintf(&b, "- Temperature: %.1f°C\n", w.CurrentTemp)
	fmt.Fprintf(&b, "- Humidity: %.0f%%\n", w.Humidity)
	if len(w.MaxTemps) > 0 && len(w.MinTemps) > 0 {
		fmt.Fprintf(&b, "- 7-Day Forecast: %.1f°C to %.1f°C, total precipitation %.1fmm",
			minOf(w.MinTemps), maxOf(w.MaxTemps), sumOf(w.Precipitation))
	}
	return strings.TrimRight(b.String(), "\n")
}

// WeatherFetcher resolves a city to coordinates and fetches its current
// conditions and 7-day forecast. The upstream endpoints need no credentials,
// so this fetcher is always configured.
type WeatherFetcher struct {
	cfg    config.WeatherConfig
	client *httpclient.Client
	cache  GeocodeCache // nil disables caching
	logger logger.Logger
}

func NewWeatherFetcher(cfg config.WeatherConfig, client *httpclient.Client, cache GeocodeCache, log logger.Logger) *WeatherFetcher {
	return &WeatherFetcher{
		cfg:    cfg,
		client: client,
		cache:  cache,
		logger: log.With(map[string]interface{}{"gateway": string(KindWeather)}),
	}
}

// Fetch returns weather for city. countryCode is optional and narrows the
// geocoding search.
func (f *WeatherFetcher) Fetch(ctx context.Context, city, countryCode string) (Result, error) {
	start := time.Now()
	result, err := f.fetch(ctx, city, countryCode)
	observe(KindWeather, start, err)
	if err != nil {
		f.logger.Warn("weather fetch failed", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
	}
	return result, err
}

func (f *WeatherFetcher) fetch(ctx context.Context, city, countryCode string) (Result, error) {
	coords, err := f.geocode(ctx, city, countryCode)
	if err != nil {
		return nil, err
	}

	forecastURL := fmt.Sprintf(
		"%s?latitude=%g&longitude=%g&current=temperature_2m,relative_humidity_2m,weather_code&daily=temperature_2m_max,temperature_2m_min,precipitation_sum&timezone=auto",
		f.cfg.ForecastURL, coords.Latitude, coords.Longitude)

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
		} `json:"current"`
		Daily struct {
			MaxTemps      []float64 `json:"temperature_2m_max"`
			MinTemps      []float64 `json:"temperature_2m_min"`
			Precipitation []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := f.client.GetJSON(ctx, forecastURL, &payload); err != nil {
		return nil, errs.NewTransportError("weather", err)
	}

	return &Weather{
		City:          coords.Name,
		Country:       coords.Country,
		CurrentTemp:   payload.Current.Temperature,
		Humidity:      payload.Current.Humidity,
		MaxTemps:      firstN(payload.Daily.MaxTemps, 7),
		MinTemps:      firstN(payload.Daily.MinTemps, 7),
		Precipitation: firstN(payload.Daily.Precipitation, 7),
	}, nil
}

func (f *WeatherFetcher) geocode(ctx context.Context, city, countryCode string) (*Coordinates, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(city))
	if countryCode != "" {
		cacheKey += "," + strings.ToLower(countryCode)
	}
	if f.cache != nil {
		if coords, ok := f.cache.Get(ctx, cacheKey); ok {
			return coords, nil
		}
	}

	geocodeURL := fmt.Sprintf("%s?name=%s&count=1", f.cfg.GeocodingURL, url.QueryEscape(city))
	if countryCode != "" {
		geocodeURL += "&country_code=" + url.QueryEscape(countryCode)
	}

	var payload struct {
		Results []Coordinates `json:"results"`
	}
	if err := f.client.GetJSON(ctx, geocodeURL, &payload); err != nil {
		return nil, errs.NewTransportError("geocoding", err)
	}
	if len(payload.Results) == 0 {
		return nil, errs.NewNotFoundError("geocoding", fmt.Sprintf("city %q not found", city))
	}

	coords := payload.Results[0]
	if f.cache != nil {
		f.cache.Set(ctx, cacheKey, &coords)
	}
	return &coords, nil
}

func firstN(vals []float64, n int) []float64 {
	if len(vals) > n {
		return vals[:n]
	}
	return vals
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func sumOf(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}
