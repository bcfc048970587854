// Package viewstate derives per-screen view state from the itinerary data
// manager. Projections only read published state; the single write path is
// Source.SetItinerary.
package viewstate

import (
	"time"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/observable"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/storyline"
)

// Source is the part of the data manager the projections depend on.
type Source interface {
	CurrentTravelData() *observable.Value[*model.TravelData]
	CurrentItinerary() *observable.Value[int]
	SetItinerary(i int)
	EventAndDateForWeatherAlert() (*model.Event, *model.DateBucket)
	Storyline() storyline.Table
}

// IndexPath addresses an item inside a sectioned list.
type IndexPath struct {
	Section int
	Item    int
}

// Coordinate is a map position.
type Coordinate struct {
	Lat float64
	Lng float64
}

func coordinateOf(g *model.Geometry) (Coordinate, bool) {
	if g == nil || g.Location == nil || g.Location.Lat == nil || g.Location.Lng == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *g.Location.Lat, Lng: *g.Location.Lng}, true
}

const dayAndMonthLayout = "2 Jan"

// dayAndMonth renders epoch milliseconds as "2 Jan" in UTC.
func dayAndMonth(ms *model.Millis) string {
	if ms == nil {
		return ""
	}
	return ms.Time().Format(dayAndMonthLayout)
}

func dayAndMonthOf(t time.Time) string {
	return t.Format(dayAndMonthLayout)
}

func boolValue(b *bool) bool { return b != nil && *b }

// lodgingPrice returns the price to show and the struck-through previous price.
// A loyalty rate applies to members, a promotional discount overrides it, and
// when both flags are explicitly false the list price is shown.
func lodgingPrice(l *model.Lodging) (price, previous *float64) {
	if l == nil {
		return nil, nil
	}
	if boolValue(l.IsLoyaltyMember) && l.LoyaltyDiscount != nil {
		previous, price = l.LoyaltyDiscount.PreviousPrice, l.LoyaltyDiscount.DiscountedPrice
	}
	if boolValue(l.HasPromotionalDiscount) && l.PromotionalDiscount != nil {
		previous, price = l.PromotionalDiscount.PreviousPrice, l.PromotionalDiscount.DiscountedPrice
	}
	if l.IsLoyaltyMember != nil && !*l.IsLoyaltyMember &&
		l.HasPromotionalDiscount != nil && !*l.HasPromotionalDiscount {
		price = l.Price
	}
	return price, previous
}

func variantOf(ev *model.Event) model.Variant {
	if ev == nil {
		return nil
	}
	return ev.Variant
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
