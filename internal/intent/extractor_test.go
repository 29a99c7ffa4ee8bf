package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TopicFlags(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Topic
	}{
		{
			name:  "flight keyword",
			query: "I want to fly somewhere cheap",
			want:  []Topic{TopicFlight},
		},
		{
			name:  "currency keywords",
			query: "what is the exchange rate for euros",
			want:  []Topic{TopicCurrency},
		},
		{
			name:  "hotel keyword",
			query: "recommend accommodation options",
			want:  []Topic{TopicHotel},
		},
		{
			name:  "weather requires a location",
			query: "how does temperature work",
			want:  nil,
		},
		{
			name:  "weather with location",
			query: "What's the weather in Paris?",
			want:  []Topic{TopicWeather},
		},
		{
			name:  "multiple topics",
			query: "flight and hotel prices for a trip to Tokyo",
			want:  []Topic{TopicFlight, TopicHotel, TopicCurrency},
		},
		{
			name:  "no topic keywords",
			query: "tell me something interesting",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.query).Topics)
		})
	}
}

func TestExtract_NoTopicsForPlainQuestions(t *testing.T) {
	in := Extract("What is the capital of France?")
	assert.Empty(t, in.Topics)
	assert.Empty(t, in.Locations)
}

func TestExtract_LocationsRequireCueWord(t *testing.T) {
	// "Paris" is capitalized but there is no travel cue in the query.
	in := Extract("Paris Hilton is a celebrity")
	assert.Empty(t, in.Locations)

	in = Extract("planning a trip to Paris")
	require.Len(t, in.Locations, 1)
	assert.Equal(t, "Paris", in.Locations[0].Raw)
}

func TestExtract_LocationStoplist(t *testing.T) {
	in := Extract("What's the weather in Paris?")
	require.Len(t, in.Locations, 1)
	assert.Equal(t, "Paris", in.Locations[0].Raw)
	assert.Equal(t, "PAR", in.Locations[0].Code)
	assert.True(t, in.Locations[0].Resolved)
}

func TestExtract_LocationsDeduplicatedInOrder(t *testing.T) {
	in := Extract("trip from Paris to Tokyo and back to Paris")
	require.Len(t, in.Locations, 2)
	assert.Equal(t, "Paris", in.Locations[0].Raw)
	assert.Equal(t, "Tokyo", in.Locations[1].Raw)
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		raw      string
		code     string
		resolved bool
	}{
		{"CDG", "CDG", true},
		{"cdg", "CDG", true},
		{"Paris", "PAR", true},
		{"London", "LON", true},
		{"Tokyo", "TYO", true},
		// Unknown names fall back to the first three letters, unresolved.
		{"Springfield", "SPR", false},
		{"Zzyzx", "ZZY", false},
	}
	for _, tt := range tests {
		loc := ResolveLocation(tt.raw)
		assert.Equal(t, tt.code, loc.Code, "raw %q", tt.raw)
		assert.Equal(t, tt.resolved, loc.Resolved, "raw %q", tt.raw)
		assert.Equal(t, tt.raw, loc.Raw)
	}
}

func TestExtract_CodeRouteWinsOverCityRoute(t *testing.T) {
	in := Extract("flight from CDG to JFK on 2025-06-01")
	require.NotNil(t, in.Route)
	assert.Equal(t, "CDG", in.Route.Origin.Code)
	assert.Equal(t, "JFK", in.Route.Destination.Code)
	assert.True(t, in.Route.Origin.Resolved)
	assert.True(t, in.Route.Destination.Resolved)

	// Extraction is idempotent for well-formed code pairs.
	again := Extract("flight from CDG to JFK on 2025-06-01")
	assert.Equal(t, in.Route, again.Route)
}

func TestExtract_CityRouteFallback(t *testing.T) {
	in := Extract("flights from Paris to New York on 2025-06-01")
	require.NotNil(t, in.Route)
	assert.Equal(t, "PAR", in.Route.Origin.Code)
	assert.Equal(t, "NYC", in.Route.Destination.Code)
}

func TestExtract_UnknownCodePairKeptVerbatim(t *testing.T) {
	in := Extract("flight from QQQ to XXX tomorrow")
	require.NotNil(t, in.Route)
	assert.Equal(t, "QQQ", in.Route.Origin.Code)
	assert.Equal(t, "XXX", in.Route.Destination.Code)
	assert.False(t, in.Route.Origin.Resolved)
	assert.False(t, in.Route.Destination.Resolved)
}

func TestExtract_Dates(t *testing.T) {
	in := Extract("hotel in Rome from 2025-06-01 to 2025-06-05")
	assert.Equal(t, []string{"2025-06-01", "2025-06-05"}, in.Dates)
	assert.Equal(t, "2025-06-01", in.DepartureDate())
	assert.Equal(t, "2025-06-05", in.ReturnDate())
}

func TestExtract_InvalidCalendarDatesDropped(t *testing.T) {
	in := Extract("travel on 2025-13-40 or 2025-06-01")
	assert.Equal(t, []string{"2025-06-01"}, in.Dates)
}

func TestExtract_EmptyQuery(t *testing.T) {
	in := Extract("")
	assert.Empty(t, in.Topics)
	assert.Empty(t, in.Locations)
	assert.Empty(t, in.Dates)
	assert.Nil(t, in.Route)
	assert.Empty(t, in.DepartureDate())
	assert.Empty(t, in.ReturnDate())
}
