package intent

// Static lookup tables for entity extraction. All of them are read-only after
// process start; none may be mutated at runtime.

// topicKeywords drives the case-insensitive substring test for topic flags.
var topicKeywords = map[Topic][]string{
	TopicFlight:   {"flight", "fly", "flying", "airline"},
	TopicCurrency: {"budget", "cost", "price", "expensive", "currency", "exchange", "money", "dollar", "euro"},
	TopicWeather:  {"weather", "temperature", "climate"},
	TopicHotel:    {"hotel", "accommodation", "stay", "lodging", "resort"},
}

// cueWords gate the location scan. A query with no cue word is treated as a
// plain factual question and yields no location candidates.
var cueWords = []string{
	"weather", "visit", "trip", "travel", "flight", "fly", "hotel",
	"vacation", "holiday", "itinerary", "destination", "stay", "tour",
	"temperature", "climate",
}

// locationStoplist filters interrogative and auxiliary words that happen to
// be capitalized at the start of a sentence.
var locationStoplist = map[string]struct{}{
	"What": {}, "Whats": {}, "Where": {}, "When": {}, "Why": {}, "How": {},
	"Who": {}, "Which": {}, "Can": {}, "Could": {}, "Should": {}, "Would": {},
	"Will": {}, "Shall": {}, "May": {}, "Might": {}, "Must": {}, "Does": {},
	"Did": {}, "The": {}, "And": {}, "For": {}, "But": {}, "Are": {},
	"You": {}, "Tell": {}, "Please": {}, "Give": {}, "Show": {}, "Find": {},
	"Get": {}, "About": {}, "From": {}, "Need": {}, "Want": {}, "Best": {},
	"Good": {}, "Much": {}, "Many": {}, "This": {}, "That": {}, "There": {},
}

// airportCodes is the set of 3-letter location codes accepted as already
// resolved when they appear verbatim in a query.
var airportCodes = map[string]struct{}{
	"CDG": {}, "ORY": {}, "JFK": {}, "EWR": {}, "LGA": {}, "LHR": {},
	"LGW": {}, "NRT": {}, "HND": {}, "DXB": {}, "SIN": {}, "SYD": {},
	"FCO": {}, "MAD": {}, "BCN": {}, "AMS": {}, "BER": {}, "BOM": {},
	"DEL": {}, "BKK": {}, "IST": {}, "LAX": {}, "SFO": {}, "ORD": {},
	"MIA": {}, "YYZ": {}, "FRA": {}, "MUC": {}, "VIE": {}, "PRG": {},
	"LIS": {}, "DUB": {}, "ZRH": {}, "GVA": {}, "ATH": {}, "CAI": {},
	"HKG": {}, "ICN": {}, "PEK": {}, "PVG": {}, "KUL": {}, "DPS": {},
	"MLE": {}, "PAR": {}, "LON": {}, "NYC": {}, "TYO": {}, "ROM": {},
}

// cityCodes maps normalized city names to their location code.
var cityCodes = map[string]string{
	"paris":         "PAR",
	"london":        "LON",
	"new york":      "NYC",
	"newyork":       "NYC",
	"tokyo":         "TYO",
	"dubai":         "DXB",
	"singapore":     "SIN",
	"sydney":        "SYD",
	"rome":          "ROM",
	"madrid":        "MAD",
	"barcelona":     "BCN",
	"amsterdam":     "AMS",
	"berlin":        "BER",
	"mumbai":        "BOM",
	"delhi":         "DEL",
	"bangkok":       "BKK",
	"istanbul":      "IST",
	"los angeles":   "LAX",
	"san francisco": "SFO",
	"chicago":       "CHI",
	"miami":         "MIA",
	"toronto":       "YTO",
	"frankfurt":     "FRA",
	"munich":        "MUC",
	"vienna":        "VIE",
	"prague":        "PRG",
	"lisbon":        "LIS",
	"dublin":        "DUB",
	"zurich":        "ZRH",
	"geneva":        "GVA",
	"athens":        "ATH",
	"cairo":         "CAI",
	"hong kong":     "HKG",
	"seoul":         "SEL",
	"beijing":       "BJS",
	"shanghai":      "SHA",
	"kuala lumpur":  "KUL",
	"bali":          "DPS",
	"maldives":      "MLE",
}
