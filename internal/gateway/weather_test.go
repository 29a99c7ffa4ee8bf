package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/httpclient"
	"travel-assistant/internal/common/logger"
)

func newWeatherServer(t *testing.T, geocodeResults []Coordinates) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"results": geocodeResults})
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"current": map[string]float64{
				"temperature_2m":       18.5,
				"relative_humidity_2m": 65,
			},
			"daily": map[string][]float64{
				"temperature_2m_max": {20, 22, 21, 19, 18, 23, 24, 25},
				"temperature_2m_min": {12, 13, 11, 10, 12, 14, 15, 16},
				"precipitation_sum":  {0, 1.2, 0, 0, 3.4, 0, 0, 9},
			},
		})
	})
	return httptest.NewServer(mux)
}

func weatherFetcherFor(t *testing.T, server *httptest.Server, cache GeocodeCache) *WeatherFetcher {
	t.Helper()
	cfg := config.WeatherConfig{
		GeocodingURL: server.URL + "/geocode",
		ForecastURL:  server.URL + "/forecast",
	}
	return NewWeatherFetcher(cfg, httpclient.New(5*time.Second), cache, logger.NewTestLogger(t))
}

func TestWeatherFetcher_Fetch_Success(t *testing.T) {
	server := newWeatherServer(t, []Coordinates{
		{Latitude: 48.85, Longitude: 2.35, Name: "Paris", Country: "France"},
	})
	defer server.Close()

	fetcher := weatherFetcherFor(t, server, nil)
	result, err := fetcher.Fetch(context.Background(), "Paris", "")
	require.NoError(t, err)
	require.Equal(t, KindWeather, result.Kind())

	weather, ok := result.(*Weather)
	require.True(t, ok)
	assert.Equal(t, "Paris", weather.City)
	assert.Equal(t, 18.5, weather.CurrentTemp)
	assert.Len(t, weather.MaxTemps, 7)

	text := result.Render()
	assert.Contains(t, text, "Current Weather for Paris, France")
	assert.Contains(t, text, "Temperature: 18.5°C")
	assert.Contains(t, text, "7-Day Forecast")
}

func TestWeatherFetcher_Fetch_CityNotFound(t *testing.T) {
	server := newWeatherServer(t, nil)
	defer server.Close()

	fetcher := weatherFetcherFor(t, server, nil)
	result, err := fetcher.Fetch(context.Background(), "Nowhereville", "")
	assert.Nil(t, result)
	require.Error(t, err)

	se, ok := errs.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errs.ErrCodeNotFound, se.Code)
}

func TestWeatherFetcher_Fetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.WeatherConfig{
		GeocodingURL: server.URL + "/geocode",
		ForecastURL:  server.URL + "/forecast",
	}
	fetcher := NewWeatherFetcher(cfg, httpclient.New(5*time.Second), nil, logger.NewTestLogger(t))

	_, err := fetcher.Fetch(context.Background(), "Paris", "")
	require.Error(t, err)

	se, ok := errs.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, errs.ErrCodeTransportError, se.Code)
	assert.True(t, se.Retryable)
}

func TestWeatherFetcher_GeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisGeocodeCache(client, time.Hour, logger.NewTestLogger(t))

	geocodeCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []Coordinates{{Latitude: 51.5, Longitude: -0.12, Name: "London", Country: "United Kingdom"}},
		})
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := weatherFetcherFor(t, server, cache)

	_, err := fetcher.Fetch(context.Background(), "London", "")
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), "London", "")
	require.NoError(t, err)

	assert.Equal(t, 1, geocodeCalls, "second fetch should hit the coordinate cache")
}

func TestRedisGeocodeCache_MissOnRedisFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisGeocodeCache(client, time.Hour, logger.NewTestLogger(t))

	ctx := context.Background()
	cache.Set(ctx, "tokyo", &Coordinates{Latitude: 35.67, Longitude: 139.65, Name: "Tokyo", Country: "Japan"})

	coords, ok := cache.Get(ctx, "tokyo")
	require.True(t, ok)
	assert.Equal(t, "Tokyo", coords.Name)

	mr.Close()
	_, ok = cache.Get(ctx, "tokyo")
	assert.False(t, ok, "redis failure should read as a cache miss")
}
