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

// displayCurrencies is the fixed shortlist projected into rendered output.
// The full rate table stays on the record for downstream use.
var displayCurrencies = []string{"EUR", "GBP", "JPY", "AUD", "CAD", "INR"}

// Currency is the normalized exchange-rate table for one base currency.
type Currency struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
	AsOf  string             `json:"asOf"`
}

func (c *Currency) Kind() Kind { return KindCurrency }

func (c *Currency) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exchange Rates (Base: %s):\n", c.Base)
	for _, cur := range displayCurrencies {
		rate, ok := c.Rates[cur]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- 1 %s = %.2f %s\n", c.Base, rate, cur)
	}
	fmt.Fprintf(&b, "Last updated: %s", c.AsOf)
	return b.String()
}

// CurrencyFetcher pulls the full rate table for a base currency. The
// upstream endpoint needs no credentials.
type CurrencyFetcher struct {
	cfg    config.CurrencyConfig
	client *httpclient.Client
	logger logger.Logger
}

func NewCurrencyFetcher(cfg config.CurrencyConfig, client *httpclient.Client, log logger.Logger) *CurrencyFetcher {
	return &CurrencyFetcher{
		cfg:    cfg,
		client: client,
		logger: log.With(map[string]interface{}{"gateway": string(KindCurrency)}),
	}
}

func (f *CurrencyFetcher) Fetch(ctx context.Context, base string) (Result, error) {
	start := time.Now()
	result, err := f.fetch(ctx, base)
	observe(KindCurrency, start, err)
	if err != nil {
		f.logger.Warn("currency fetch failed", map[string]interface{}{
			"base":  base,
			"error": err.Error(),
		})
	}
	return result, err
}

func (f *CurrencyFetcher) fetch(ctx context.Context, base string) (Result, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}

	var payload struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	rateURL := fmt.Sprintf("%s/%s", f.cfg.BaseURL, url.PathEscape(base))
	if err := f.client.GetJSON(ctx, rateURL, &payload); err != nil {
		return nil, errs.NewTransportError("currency", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errs.NewNotFoundError("currency", fmt.Sprintf("no rates for base %q", base))
	}

	return &Currency{
		Base:  base,
		Rates: payload.Rates,
		AsOf:  payload.Date,
	}, nil
}
