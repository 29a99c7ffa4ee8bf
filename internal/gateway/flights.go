package gateway

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
)

const maxFlightOffers = 3

// FlightOffer is one normalized offer. Offers keep the upstream order,
// which the provider sorts cheapest first.
type FlightOffer struct {
	CarrierCode     string  `json:"carrierCode"`
	CarrierName     string  `json:"carrierName"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	DurationMinutes int     `json:"durationMinutes"`
	StopCount       int     `json:"stopCount"`
	DepartureAt     string  `json:"departureAt"`
	ArrivalAt       string  `json:"arrivalAt"`
}

type FlightOffers struct {
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departureDate"`
	Offers        []FlightOffer `json:"offers"`
}

func (f *FlightOffers) Kind() Kind { return KindFlight }

func (f *FlightOffers) Render() string {
	if len(f.Offers) == 0 {
		return fmt.Sprintf("No flights found from %s to %s on %s.", f.Origin, f.Destination, f.DepartureDate)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Flight Options from %s to %s on %s:\n", f.Origin, f.Destination, f.DepartureDate)
	for i, offer := range f.Offers {
		stops := "non-stop"
		if offer.StopCount == 1 {
			stops = "1 stop"
		} else if offer.StopCount > 1 {
			stops = fmt.Sprintf("%d stops", offer.StopCount)
		}
		fmt.Fprintf(&b, "%d. %s: %.2f %s, %s, %s (departs %s)\n",
			i+1, offer.CarrierName, offer.Price, offer.Currency,
			formatDuration(offer.DurationMinutes), stops, offer.DepartureAt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FlightFetcher searches flight offers through the shared authenticated
// client.
type FlightFetcher struct {
	amadeus *AmadeusClient
	logger  logger.Logger
}

func NewFlightFetcher(amadeus *AmadeusClient, log logger.Logger) *FlightFetcher {
	return &FlightFetcher{
		amadeus: amadeus,
		logger:  log.With(map[string]interface{}{"gateway": string(KindFlight)}),
	}
}

func (f *FlightFetcher) Fetch(ctx context.Context, origin, destination, departureDate string, adults int) (Result, error) {
	start := time.Now()
	result, err := f.fetch(ctx, origin, destination, departureDate, adults)
	observe(KindFlight, start, err)
	if err != nil {
		f.logger.Warn("flight fetch failed", map[string]interface{}{
			"origin":      origin,
			"destination": destination,
			"error":       err.Error(),
		})
	}
	return result, err
}

func (f *FlightFetcher) fetch(ctx context.Context, origin, destination, departureDate string, adults int) (Result, error) {
	if !f.amadeus.Configured() {
		return nil, errs.NewNotConfiguredError("flight")
	}
	if _, parseErr := time.Parse("2006-01-02", departureDate); parseErr != nil {
		return nil, errs.NewMalformedInputError(fmt.Sprintf("departure date %q is not a calendar date", departureDate))
	}
	if adults < 1 {
		adults = 1
	}

	query := url.Values{}
	query.Set("originLocationCode", origin)
	query.Set("destinationLocationCode", destination)
	query.Set("departureDate", departureDate)
	query.Set("adults", strconv.Itoa(adults))
	query.Set("max", strconv.Itoa(maxFlightOffers))

	var payload struct {
		Data []struct {
			Itineraries []struct {
				Duration string `json:"duration"`
				Segments []struct {
					CarrierCode string `json:"carrierCode"`
					Departure   struct {
						At string `json:"at"`
					} `json:"departure"`
					Arrival struct {
						At string `json:"at"`
					} `json:"arrival"`
				} `json:"segments"`
			} `json:"itineraries"`
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"data"`
	}
	if err := f.amadeus.GetJSON(ctx, "/v2/shopping/flight-offers", query, &payload); err != nil {
		return nil, errs.NewTransportError("flight", err)
	}

	offers := make([]FlightOffer, 0, maxFlightOffers)
	for _, item := range payload.Data {
		if len(offers) == maxFlightOffers {
			break
		}
		if len(item.Itineraries) == 0 || len(item.Itineraries[0].Segments) == 0 {
			continue
		}
		itinerary := item.Itineraries[0]
		segments := itinerary.Segments
		code := segments[0].CarrierCode
		price, _ := strconv.ParseFloat(item.Price.Total, 64)
		offers = append(offers, FlightOffer{
			CarrierCode:     code,
			CarrierName:     carrierDisplayName(code),
			Price:           price,
			Currency:        item.Price.Currency,
			DurationMinutes: parseISODuration(itinerary.Duration),
			StopCount:       len(segments) - 1,
			DepartureAt:     segments[0].Departure.At,
			ArrivalAt:       segments[len(segments)-1].Arrival.At,
		})
	}

	return &FlightOffers{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		Offers:        offers,
	}, nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// parseISODuration converts an ISO-8601 duration such as "PT7H30M" to
// whole minutes. Unparseable input yields zero.
func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// carrierDisplayName maps an IATA carrier code to a display name, falling
// back to the raw code when unmapped.
func carrierDisplayName(code string) string {
	if name, ok := airlineNames[code]; ok {
		return name
	}
	return code
}

var airlineNames = map[string]string{
	"AA": "American Airlines",
	"AC": "Air Canada",
	"AF": "Air France",
	"AI": "Air India",
	"BA": "British Airways",
	"CX": "Cathay Pacific",
	"DL": "Delta Air Lines",
	"EK": "Emirates",
	"EY": "Etihad Airways",
	"IB": "Iberia",
	"JL": "Japan Airlines",
	"KL": "KLM Royal Dutch Airlines",
	"LH": "Lufthansa",
	"LX": "Swiss International Air Lines",
	"NH": "All Nippon Airways",
	"QF": "Qantas",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"TK": "Turkish Airlines",
	"UA": "United Airlines",
	"VS": "Virgin Atlantic",
}
