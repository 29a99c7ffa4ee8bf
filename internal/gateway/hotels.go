package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	errs "travel-assistant/internal/common/errors"
	"travel-assistant/internal/common/logger"
)

// maxHotelIDs bounds the second-step offer lookup.
const maxHotelIDs = 5

// HotelOffer is one normalized offer for a single property.
type HotelOffer struct {
	HotelName string  `json:"hotelName"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
}

type HotelOffers struct {
	CityCode string       `json:"cityCode"`
	CheckIn  string       `json:"checkIn"`
	CheckOut string       `json:"checkOut"`
	Offers   []HotelOffer `json:"offers"`
}

func (h *HotelOffers) Kind() Kind { return KindHotel }

func (h *HotelOffers) Render() string {
	if len(h.Offers) == 0 {
		return fmt.Sprintf("No hotel offers found in %s for %s to %s.", h.CityCode, h.CheckIn, h.CheckOut)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hotel Options in %s (%s to %s):\n", h.CityCode, h.CheckIn, h.CheckOut)
	for i, offer := range h.Offers {
		fmt.Fprintf(&b, "%d. %s: %.2f %s total\n", i+1, offer.HotelName, offer.Price, offer.Currency)
	}
	return strings.TrimRight(b.String(), "\n")
}

// HotelFetcher lists hotels in a city and then requests offers for a
// bounded set of them through the shared authenticated client.
type HotelFetcher struct {
	amadeus *AmadeusClient
	logger  logger.Logger
}

func NewHotelFetcher(amadeus *AmadeusClient, log logger.Logger) *HotelFetcher {
	return &HotelFetcher{
		amadeus: amadeus,
		logger:  log.With(map[string]interface{}{"gateway": string(KindHotel)}),
	}
}

func (f *HotelFetcher) Fetch(ctx context.Context, cityCode, checkIn, checkOut string) (Result, error) {
	start := time.Now()
	result, err := f.fetch(ctx, cityCode, checkIn, checkOut)
	observe(KindHotel, start, err)
	if err != nil {
		f.logger.Warn("hotel fetch failed", map[string]interface{}{
			"cityCode": cityCode,
			"error":    err.Error(),
		})
	}
	return result, err
}

func (f *HotelFetcher) fetch(ctx context.Context, cityCode, checkIn, checkOut string) (Result, error) {
	if !f.amadeus.Configured() {
		return nil, errs.NewNotConfiguredError("hotel")
	}
	for _, date := range []string{checkIn, checkOut} {
		if _, parseErr := time.Parse("2006-01-02", date); parseErr != nil {
			return nil, errs.NewMalformedInputError(fmt.Sprintf("stay date %q is not a calendar date", date))
		}
	}

	hotelIDs, err := f.listHotels(ctx, cityCode)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("hotelIds", strings.Join(hotelIDs, ","))
	query.Set("checkInDate", checkIn)
	query.Set("checkOutDate", checkOut)

	var payload struct {
		Data []struct {
			Hotel struct {
				Name string `json:"name"`
			} `json:"hotel"`
			Offers []struct {
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := f.amadeus.GetJSON(ctx, "/v3/shopping/hotel-offers", query, &payload); err != nil {
		return nil, errs.NewTransportError("hotel", err)
	}

	offers := make([]HotelOffer, 0, len(payload.Data))
	for _, item := range payload.Data {
		if len(item.Offers) == 0 {
			continue
		}
		price, _ := strconv.ParseFloat(item.Offers[0].Price.Total, 64)
		offers = append(offers, HotelOffer{
			HotelName: item.Hotel.Name,
			Price:     price,
			Currency:  item.Offers[0].Price.Currency,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
		})
	}

	return &HotelOffers{
		CityCode: cityCode,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Offers:   offers,
	}, nil
}

func (f *HotelFetcher) listHotels(ctx context.Context, cityCode string) ([]string, error) {
	query := url.Values{}
	query.Set("cityCode", cityCode)

	var payload struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := f.amadeus.GetJSON(ctx, "/v1/reference-data/locations/hotels/by-city", query, &payload); err != nil {
		return nil, errs.NewTransportError("hotel", err)
	}
	if len(payload.Data) == 0 {
		return nil, errs.NewNotFoundError("hotel", fmt.Sprintf("no hotels listed for city %s", cityCode))
	}

	ids := make([]string, 0, maxHotelIDs)
	for _, item := range payload.Data {
		if len(ids) == maxHotelIDs {
			break
		}
		if item.HotelID != "" {
			ids = append(ids, item.HotelID)
		}
	}
	return ids, nil
}
