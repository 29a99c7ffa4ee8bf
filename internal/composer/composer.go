// Package composer fans out gateway calls for the detected topics, queries
// the semantic store, and fuses the results into one bounded context.
package composer

import (
	"context"
	"strings"
	"sync"
	"time"

	"travel-assistant/internal/common/config"
	"travel-assistant/internal/common/logger"
	"travel-assistant/internal/gateway"
	"travel-assistant/internal/intent"
	"travel-assistant/internal/vectorstore"
)

// TruncationMarker terminates a hard-truncated first block.
const TruncationMarker = "... [context truncated]"

// Fetcher interfaces are defined here so tests can substitute fakes for the
// live gateway clients.

type WeatherSource interface {
	Fetch(ctx context.Context, city, countryCode string) (gateway.Result, error)
}

type CurrencySource interface {
	Fetch(ctx context.Context, base string) (gateway.Result, error)
}

type FlightSource interface {
	Fetch(ctx context.Context, origin, destination, departureDate string, adults int) (gateway.Result, error)
}

type HotelSource interface {
	Fetch(ctx context.Context, cityCode, checkIn, checkOut string) (gateway.Result, error)
}

// ComposedContext is the fused, budget-bounded context for one query.
type ComposedContext struct {
	Blocks    []string
	Truncated bool
}

// Text joins the blocks with blank lines.
func (c *ComposedContext) Text() string {
	return strings.Join(c.Blocks, "\n\n")
}

type Composer struct {
	weather  WeatherSource
	currency CurrencySource
	flights  FlightSource
	hotels   HotelSource
	store    vectorstore.Store

	budget      int
	topK        int
	callTimeout time.Duration
	logger      logger.Logger
}

func New(
	weather WeatherSource,
	currency CurrencySource,
	flights FlightSource,
	hotels HotelSource,
	store vectorstore.Store,
	cfg config.ComposerConfig,
	callTimeout time.Duration,
	log logger.Logger,
) *Composer {
	return &Composer{
		weather:     weather,
		currency:    currency,
		flights:     flights,
		hotels:      hotels,
		store:       store,
		budget:      cfg.ContextBudget,
		topK:        cfg.TopK,
		callTimeout: callTimeout,
		logger:      log.With(map[string]interface{}{"component": "composer"}),
	}
}

// Compose runs the gateway fan-out and the semantic-store query
// concurrently, waits for everything to settle, and fuses the blocks in
// fixed topic order followed by retrieved passages. A failed call
// contributes an unavailability block; it never cancels the other calls.
func (c *Composer) Compose(ctx context.Context, in *intent.Intent, query string) *ComposedContext {
	blocks := make(map[intent.Topic]string)
	var passages []vectorstore.Passage
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, topic := range intent.TopicOrder {
		if !in.HasTopic(topic) {
			continue
		}
		topic := topic
		wg.Add(1)
		go func() {
			defer wg.Done()
			block := c.fetchTopic(ctx, topic, in)
			mu.Lock()
			blocks[topic] = block
			mu.Unlock()
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
		hits, err := c.store.Query(callCtx, query, c.topK)
		if err != nil {
			c.logger.WithError(err).Warn("semantic store query failed", map[string]interface{}{
				"query": query,
			})
			return
		}
		mu.Lock()
		passages = hits
		mu.Unlock()
	}()

	wg.Wait()

	ordered := make([]string, 0, len(blocks)+len(passages))
	for _, topic := range intent.TopicOrder {
		if block, ok := blocks[topic]; ok {
			ordered = append(ordered, block)
		}
	}
	for _, passage := range passages {
		ordered = append(ordered, passage.Text)
	}

	return c.truncate(ordered)
}

func (c *Composer) fetchTopic(ctx context.Context, topic intent.Topic, in *intent.Intent) string {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	switch topic {
	case intent.TopicFlight:
		return c.fetchFlights(callCtx, in)
	case intent.TopicHotel:
		return c.fetchHotels(callCtx, in)
	case intent.TopicWeather:
		return c.fetchWeather(callCtx, in)
	case intent.TopicCurrency:
		return c.render(gateway.KindCurrency)(c.currency.Fetch(callCtx, "USD"))
	}
	return ""
}

func (c *Composer) fetchWeather(ctx context.Context, in *intent.Intent) string {
	if len(in.Locations) == 0 {
		return incompleteParams(gateway.KindWeather, "no location detected")
	}
	return c.render(gateway.KindWeather)(c.weather.Fetch(ctx, in.Locations[0].Raw, ""))
}

func (c *Composer) fetchFlights(ctx context.Context, in *intent.Intent) string {
	route := in.Route
	if route == nil && len(in.Locations) >= 2 {
		route = &intent.Route{Origin: in.Locations[0], Destination: in.Locations[1]}
	}
	if route == nil {
		return incompleteParams(gateway.KindFlight, "origin and destination not detected")
	}
	departure := in.DepartureDate()
	if departure == "" {
		return incompleteParams(gateway.KindFlight, "departure date not provided")
	}
	if !route.Origin.Resolved || !route.Destination.Resolved {
		c.logger.Warn("flight route includes guessed location code", map[string]interface{}{
			"origin":      route.Origin.Code,
			"destination": route.Destination.Code,
		})
	}
	return c.render(gateway.KindFlight)(c.flights.Fetch(ctx, route.Origin.Code, route.Destination.Code, departure, 1))
}

func (c *Composer) fetchHotels(ctx context.Context, in *intent.Intent) string {
	if len(in.Locations) == 0 {
		return incompleteParams(gateway.KindHotel, "no location detected")
	}
	checkIn, checkOut := in.DepartureDate(), in.ReturnDate()
	if checkIn == "" || checkOut == "" {
		return incompleteParams(gateway.KindHotel, "check-in and check-out dates not provided")
	}
	return c.render(gateway.KindHotel)(c.hotels.Fetch(ctx, in.Locations[0].Code, checkIn, checkOut))
}

func (c *Composer) render(kind gateway.Kind) func(gateway.Result, error) string {
	return func(result gateway.Result, err error) string {
		if err != nil {
			c.logger.WithError(err).Warn("gateway fetch failed", map[string]interface{}{
				"gateway": string(kind),
			})
			return gateway.RenderError(kind, err)
		}
		return result.Render()
	}
}

// truncate drops whole trailing blocks until the joined text fits the
// budget. Only when the first block alone exceeds the budget is a block cut
// mid-text, with a marker appended.
func (c *Composer) truncate(blocks []string) *ComposedContext {
	if len(blocks) == 0 {
		return &ComposedContext{}
	}
	if len(blocks[0]) > c.budget {
		cut := c.budget - len(TruncationMarker)
		if cut < 0 {
			cut = 0
		}
		block := blocks[0][:cut] + TruncationMarker
		// A budget under the marker length still caps the output.
		if len(block) > c.budget {
			block = block[:c.budget]
		}
		return &ComposedContext{
			Blocks:    []string{block},
			Truncated: true,
		}
	}

	kept := blocks[:1]
	total := len(blocks[0])
	for _, block := range blocks[1:] {
		next := total + len("\n\n") + len(block)
		if next > c.budget {
			return &ComposedContext{Blocks: kept, Truncated: true}
		}
		kept = append(kept, block)
		total = next
	}
	return &ComposedContext{Blocks: kept}
}

func incompleteParams(kind gateway.Kind, detail string) string {
	name := strings.ToUpper(string(kind)[:1]) + string(kind)[1:]
	return name + " data not retrieved: " + detail + "."
}
