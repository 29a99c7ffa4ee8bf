package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/httpclient"
	"travel-assistant/internal/common/logger"
)

func TestCurrencyFetcher_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"base": "USD",
			"date": "2025-06-01",
			"rates": map[string]float64{
				"EUR": 0.92,
				"GBP": 0.79,
				"JPY": 155.3,
				"AUD": 1.51,
				"CAD": 1.37,
				"INR": 83.4,
				"CHF": 0.89,
			},
		})
	}))
	defer server.Close()

	fetcher := NewCurrencyFetcher(config.CurrencyConfig{BaseURL: server.URL},
		httpclient.New(5*time.Second), logger.NewTestLogger(t))

	result, err := fetcher.Fetch(context.Background(), "usd")
	require.NoError(t, err)
	require.Equal(t, KindCurrency, result.Kind())

	currency, ok := result.(*Currency)
	require.True(t, ok)
	assert.Equal(t, "USD", currency.Base)
	assert.Len(t, currency.Rates, 7)

	text := result.Render()
	assert.Contains(t, text, "Exchange Rates (Base: USD)")
	assert.Contains(t, text, "- 1 USD = 0.92 EUR")
	assert.Contains(t, text, "- 1 USD = 83.40 INR")
	assert.Contains(t, text, "Last updated: 2025-06-01")
	// CHF is in the table but not on the display shortlist.
	assert.NotContains(t, text, "CHF")
}

func TestCurrencyFetcher_Fetch_EmptyBaseDefaultsToUSD(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"base":  "USD",
			"date":  "2025-06-01",
			"rates": map[string]float64{"EUR": 0.92},
		})
	}))
	defer server.Close()

	fetcher := NewCurrencyFetcher(config.CurrencyConfig{BaseURL: server.URL},
		httpclient.New(5*time.Second), logger.NewTestLogger(t))

	_, err := fetcher.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/USD", requestedPath)
}

func TestCurrencyFetcher_Fetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewCurrencyFetcher(config.CurrencyConfig{BaseURL: server.URL},
		httpclient.New(5*time.Second), logger.NewTestLogger(t))

	result, err := fetcher.Fetch(context.Background(), "USD")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, errs.ErrCodeTransportError, errs.CodeOf(err))
}

func TestCurrencyFetcher_Fetch_NoRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"base": "XXX"})
	}))
	defer server.Close()

	fetcher := NewCurrencyFetcher(config.CurrencyConfig{BaseURL: server.URL},
		httpclient.New(5*time.Second), logger.NewTestLogger(t))

	_, err := fetcher.Fetch(context.Background(), "XXX")
	require.Error(t, err)
	assert.Equal(t, errs.ErrCodeNotFound, errs.CodeOf(err))
}
