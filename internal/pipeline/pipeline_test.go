package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-assistant/internal/common/config"
	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/composer"
	"travel-assistant/internal/gateway"
	"travel-assistant/internal/prompt"
	"travel-assistant/internal/vectorstore"
)

type staticResult struct {
	kind gateway.Kind
	text string
}

func (r *staticResult) Kind() gateway.Kind { return r.kind }
func (r *staticResult) Render() string     { return r.text }

type recordingGateways struct {
	weatherCalls  int
	weatherCity   string
	currencyCalls int
	flightCalls   int
	flightArgs    []string
	flightAdults  int
	hotelCalls    int
}

type weatherRecorder struct{ g *recordingGateways }

func (w *weatherRecorder) Fetch(ctx context.Context, city, countryCode string) (gateway.Result, error) {
	w.g.weatherCalls++
	w.g.weatherCity = city
	return &staticResult{kind: gateway.KindWeather, text: "weather block for " + city}, nil
}

type currencyRecorder struct{ g *recordingGateways }

func (c *currencyRecorder) Fetch(ctx context.Context, base string) (gateway.Result, error) {
	c.g.currencyCalls++
	return &staticResult{kind: gateway.KindCurrency, text: "currency block"}, nil
}

type flightRecorder struct{ g *recordingGateways }

func (f *flightRecorder) Fetch(ctx context.Context, origin, destination, departureDate string, adults int) (gateway.Result, error) {
	f.g.flightCalls++
	f.g.flightArgs = []string{origin, destination, departureDate}
	f.g.flightAdults = adults
	return &staticResult{kind: gateway.KindFlight, text: "flight block"}, nil
}

type hotelRecorder struct{ g *recordingGateways }

func (h *hotelRecorder) Fetch(ctx context.Context, cityCode, checkIn, checkOut string) (gateway.Result, error) {
	h.g.hotelCalls++
	return &staticResult{kind: gateway.KindHotel, text: "hotel block"}, nil
}

type passageStore struct{ passages []vectorstore.Passage }

func (s *passageStore) Upsert(ctx context.Context, docs []vectorstore.Document) error { return nil }
func (s *passageStore) Query(ctx context.Context, query string, topK int) ([]vectorstore.Passage, error) {
	return s.passages, nil
}
func (s *passageStore) Count(ctx context.Context) (int, error) { return len(s.passages), nil }
func (s *passageStore) Close() error                           { return nil }

type scriptedGenerator struct {
	text       string
	err        error
	lastSystem string
	lastPrompt string
}

func (g *scriptedGenerator) Generate(ctx context.Context, system, promptText string) (string, error) {
	g.lastSystem = system
	g.lastPrompt = promptText
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func newTestAssistant(t *testing.T, gateways *recordingGateways, generator *scriptedGenerator) *Assistant {
	t.Helper()
	log := logger.NewTestLogger(t)
	comp := composer.New(
		&weatherRecorder{g: gateways},
		&currencyRecorder{g: gateways},
		&flightRecorder{g: gateways},
		&hotelRecorder{g: gateways},
		&passageStore{passages: []vectorstore.Passage{
			{Text: "Paris is known for the Louvre.", SourceID: "kb", Score: 0.8},
		}},
		config.ComposerConfig{ContextBudget: 6000, TopK: 3, HistoryTurns: 5},
		time.Second,
		log,
	)
	return NewAssistant(comp, prompt.NewBuilder(5), generator, log)
}

func TestAssistant_Answer_WeatherQuery(t *testing.T) {
	gateways := &recordingGateways{}
	generator := &scriptedGenerator{text: "Expect mild weather in Paris."}
	assistant := newTestAssistant(t, gateways, generator)

	answer := assistant.Answer(context.Background(), "What's the weather in Paris?", nil)

	assert.Equal(t, 1, gateways.weatherCalls)
	assert.Equal(t, "Paris", gateways.weatherCity)
	assert.Zero(t, gateways.flightCalls)
	assert.Zero(t, gateways.hotelCalls)
	assert.Zero(t, gateways.currencyCalls)

	require.NotEmpty(t, answer.Context.Blocks)
	assert.Equal(t, "weather block for Paris", answer.Context.Blocks[0], "weather block leads the context")

	assert.Equal(t, "Expect mild weather in Paris.", answer.Text)
	assert.False(t, answer.Degraded)
	assert.NotEmpty(t, answer.RequestID)
	assert.Equal(t, prompt.SystemPolicy, generator.lastSystem)
	assert.Contains(t, generator.lastPrompt, "weather block for Paris")
	assert.Contains(t, generator.lastPrompt, "What's the weather in Paris?")
}

func TestAssistant_Answer_FlightQuery(t *testing.T) {
	gateways := &recordingGateways{}
	generator := &scriptedGenerator{text: "Here are your options."}
	assistant := newTestAssistant(t, gateways, generator)

	assistant.Answer(context.Background(), "flight from CDG to JFK on 2025-06-01", nil)

	require.Equal(t, 1, gateways.flightCalls)
	assert.Equal(t, []string{"CDG", "JFK", "2025-06-01"}, gateways.flightArgs)
	assert.Equal(t, 1, gateways.flightAdults)
}

func TestAssistant_Answer_NoTopicsStillRetrieves(t *testing.T) {
	gateways := &recordingGateways{}
	generator := &scriptedGenerator{text: "The Louvre is a museum."}
	assistant := newTestAssistant(t, gateways, generator)

	answer := assistant.Answer(context.Background(), "Tell me about the Louvre", nil)

	assert.Zero(t, gateways.weatherCalls+gateways.flightCalls+gateways.hotelCalls+gateways.currencyCalls)
	assert.Contains(t, answer.Context.Text(), "Paris is known for the Louvre.")
}

func TestAssistant_Answer_GenerationFailureDegrades(t *testing.T) {
	gateways := &recordingGateways{}
	generator := &scriptedGenerator{err: errs.NewLLMGenerationFailedError(errors.New("boom"))}
	assistant := newTestAssistant(t, gateways, generator)

	answer := assistant.Answer(context.Background(), "What's the weather in Paris?", nil)

	assert.True(t, answer.Degraded)
	assert.Equal(t, FallbackAnswer, answer.Text)
	assert.False(t, strings.Contains(answer.Text, "boom"), "technical detail never reaches the user")
}

func TestAssistant_Answer_HistoryReachesPrompt(t *testing.T) {
	gateways := &recordingGateways{}
	generator := &scriptedGenerator{text: "ok"}
	assistant := newTestAssistant(t, gateways, generator)

	assistant.Answer(context.Background(), "And the weather in Paris?", []prompt.Turn{
		{Role: "User", Text: "I am planning a trip to France"},
	})

	assert.Contains(t, generator.lastPrompt, "User: I am planning a trip to France")
}
