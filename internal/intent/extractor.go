// Package intent extracts structured travel intent from free-text queries.
//
// Extraction is deliberately heuristic: fixed keyword vocabularies for topic
// flags, a capitalization scan for locations, and regular expressions for
// routes and dates. The rules run in a documented precedence order and the
// extractor never fails; a query with no matches yields an empty Intent.
package intent

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	dateRe      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	codeRouteRe = regexp.MustCompile(`\b([A-Z]{3})\s+to\s+([A-Z]{3})\b`)
	cityRouteRe = regexp.MustCompile(`(?i)\bfrom\s+([a-zA-Z][a-zA-Z ]*?)\s+to\s+([a-zA-Z][a-zA-Z ]*?)(?:\s+(?:on|in|at|for|this|next)\b|[.,;!?]|$)`)
)

// Extract parses a free-text query into an Intent. It is pure and never
// fails. Rules apply in precedence order: topic flags, locations, code
// resolution, flight route, dates.
func Extract(query string) *Intent {
	locations := extractLocations(query)
	out := &Intent{
		Locations: locations,
		Topics:    detectTopics(query, len(locations) > 0),
		Route:     extractRoute(query),
		Dates:     extractDates(query),
	}
	return out
}

func detectTopics(query string, hasLocation bool) []Topic {
	lower := strings.ToLower(query)

	var topics []Topic
	for _, topic := range TopicOrder {
		if topic == TopicWeather && !hasLocation {
			continue
		}
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				topics = append(topics, topic)
				break
			}
		}
	}
	return topics
}

// extractLocations scans for capitalized candidate tokens. The scan only runs
// when the query contains a travel cue word, which keeps plain factual
// questions from producing phantom locations.
func extractLocations(query string) []Location {
	lower := strings.ToLower(query)
	cued := false
	for _, cue := range cueWords {
		if strings.Contains(lower, cue) {
			cued = true
			break
		}
	}
	if !cued {
		return nil
	}

	seen := make(map[string]struct{})
	var locations []Location
	for _, field := range strings.Fields(query) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		token = strings.TrimSuffix(strings.TrimSuffix(token, "'s"), "’s")
		if len(token) <= 2 {
			continue
		}
		runes := []rune(token)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		if _, stopped := locationStoplist[token]; stopped {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		locations = append(locations, ResolveLocation(token))
	}
	return locations
}

// ResolveLocation maps a raw place token to a 3-letter code. Resolution never
// fails: a token matching neither the code table nor the city table falls
// back to its first three letters uppercased, flagged unresolved.
func ResolveLocation(raw string) Location {
	if len(raw) == 3 {
		upper := strings.ToUpper(raw)
		if _, ok := airportCodes[upper]; ok {
			return Location{Raw: raw, Code: upper, Resolved: true}
		}
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if code, ok := cityCodes[normalized]; ok {
		return Location{Raw: raw, Code: code, Resolved: true}
	}

	upper := strings.ToUpper(raw)
	if len(upper) > 3 {
		upper = upper[:3]
	}
	return Location{Raw: raw, Code: upper, Resolved: false}
}

// extractRoute prefers an explicit "XXX to YYY" code pair; free-text
// "from City to City" is the fallback.
func extractRoute(query string) *Route {
	if m := codeRouteRe.FindStringSubmatch(query); m != nil {
		origin := Location{Raw: m[1], Code: m[1], Resolved: knownCode(m[1])}
		dest := Location{Raw: m[2], Code: m[2], Resolved: knownCode(m[2])}
		return &Route{Origin: origin, Destination: dest}
	}

	if m := cityRouteRe.FindStringSubmatch(query); m != nil {
		origin := ResolveLocation(strings.TrimSpace(m[1]))
		dest := ResolveLocation(strings.TrimSpace(m[2]))
		return &Route{Origin: origin, Destination: dest}
	}
	return nil
}

func knownCode(code string) bool {
	_, ok := airportCodes[code]
	return ok
}

// extractDates returns valid calendar dates in order of appearance. Matches
// that only look like dates (e.g. 2025-13-40) are dropped.
func extractDates(query string) []string {
	var dates []string
	for _, m := range dateRe.FindAllString(query, -1) {
		if _, err := time.Parse("2006-01-02", m); err != nil {
			continue
		}
		dates = append(dates, m)
	}
	return dates
}
