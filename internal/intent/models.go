package intent

// Topic flags a query as concerning one class of live travel data.
type Topic string

const (
	TopicFlight   Topic = "flight"
	TopicHotel    Topic = "hotel"
	TopicWeather  Topic = "weather"
	TopicCurrency Topic = "currency"
)

// TopicOrder is the fixed precedence used when fusing real-time context
// blocks. It never changes at runtime.
var TopicOrder = []Topic{TopicFlight, TopicHotel, TopicWeather, TopicCurrency}

// Location is a detected place token together with its resolved 3-letter
// code. Resolved is false when the code was guessed by slicing the raw token,
// so later stages can treat it as low confidence.
type Location struct {
	Raw      string `json:"raw"`
	Code     string `json:"code"`
	Resolved bool   `json:"resolved"`
}

// Route is an origin/destination pair extracted from a flight query.
type Route struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
}

// Intent is the structured representation of a free-text query. It is derived
// purely from the query text and never persisted.
type Intent struct {
	Locations []Location `json:"locations"`
	Dates     []string   `json:"dates"`
	Topics    []Topic    `json:"topics"`
	Route     *Route     `json:"route,omitempty"`
}

// HasTopic reports whether t was detected in the query.
func (i *Intent) HasTopic(t Topic) bool {
	for _, have := range i.Topics {
		if have == t {
			return true
		}
	}
	return false
}

// DepartureDate returns the first detected date, or "" when none was found.
func (i *Intent) DepartureDate() string {
	if len(i.Dates) > 0 {
		return i.Dates[0]
	}
	return ""
}

// ReturnDate returns the second detected date, or "" when none was found.
func (i *Intent) ReturnDate() string {
	if len(i.Dates) > 1 {
		return i.Dates[1]
	}
	return ""
}
