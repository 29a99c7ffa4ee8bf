// Package gateway adapts third-party travel data APIs into normalized result
// types with a uniform fetch contract.
//
// Every fetcher returns (Result, error) where the error, when present, is a
// *errors.StandardError. Fetchers never panic and never let provider errors
// escape unwrapped: a missing credential yields a stable NOT_CONFIGURED
// error, zero matches yield NOT_FOUND, and network failures yield
// TRANSPORT_ERROR. Results render themselves into the text blocks consumed
// by the context composer.
package gateway

import (
	"fmt"
	"time"

	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/metrics"
)

// Kind identifies one class of live travel data.
type Kind string

const (
	KindFlight   Kind = "flight"
	KindHotel    Kind = "hotel"
	KindWeather  Kind = "weather"
	KindCurrency Kind = "currency"
)

// Result is a normalized provider payload that can project itself into a
// context text block.
type Result interface {
	Kind() Kind
	Render() string
}

// RenderError projects a failed fetch into the one-line block used in place
// of real data. The pipeline never surfaces gateway errors any other way.
func RenderError(kind Kind, err error) string {
	return fmt.Sprintf("%s data unavailable: %s", displayName(kind), reason(err))
}

func displayName(kind Kind) string {
	switch kind {
	case KindFlight:
		return "Flight"
	case KindHotel:
		return "Hotel"
	case KindWeather:
		return "Weather"
	case KindCurrency:
		return "Currency"
	}
	return string(kind)
}

func reason(err error) string {
	if err == nil {
		return "unknown error"
	}
	if se, ok := errs.AsStandard(err); ok {
		return se.Message
	}
	return err.Error()
}

// observe records per-fetch metrics.
func observe(kind Kind, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GatewayRequests.WithLabelValues(string(kind), status).Inc()
	metrics.GatewayDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}
