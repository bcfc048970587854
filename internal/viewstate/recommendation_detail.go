package viewstate

import "github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"

// RecommendationDetail is the detail view of one recommended hotel, restaurant
// or transit option. Accepting it advances the storyline.
type RecommendationDetail struct {
	event *model.Event
	src   Source
}

// NewRecommendationDetail returns nil when ev is nil.
func NewRecommendationDetail(ev *model.Event, src Source) *RecommendationDetail {
	if ev == nil {
		return nil
	}
	return &RecommendationDetail{event: ev, src: src}
}

func (d *RecommendationDetail) Event() *model.Event { return d.event }

func (d *RecommendationDetail) SubType() model.SubType { return d.event.SubType }

func (d *RecommendationDetail) NavigationTitle() string {
	switch d.event.SubType {
	case model.SubTypeLodging:
		return "Hotel Detail"
	case model.SubTypeRestaurant:
		return "Restaurant Detail"
	case model.SubTypeTransit:
		return "Transportation Detail"
	}
	return ""
}

func (d *RecommendationDetail) BottomButtonTitle() string {
	switch d.event.SubType {
	case model.SubTypeLodging:
		return "B O O K   H O T E L"
	case model.SubTypeRestaurant:
		return "U P D A T E   E V E N T"
	case model.SubTypeTransit:
		return "U P D A T E   I T I N E R A R Y"
	}
	return ""
}

// DisplayPrice is the price shown for a hotel and the struck-through price
// it replaces. Both are nil for other subtypes.
func (d *RecommendationDetail) DisplayPrice() (price, previous *float64) {
	l, _ := d.event.Variant.(*model.Lodging)
	return lodgingPrice(l)
}

func (d *RecommendationDetail) MapCoordinate() (Coordinate, bool) {
	return coordinateOf(d.event.Geometry())
}

// City is the city of the recommended place.
func (d *RecommendationDetail) City() string {
	if g := d.event.Geometry(); g != nil {
		return g.City
	}
	return ""
}

func (d *RecommendationDetail) NumberOfSections() int { return 1 }

func (d *RecommendationDetail) NumberOfRows() int {
	if t, ok := d.event.Variant.(*model.Transit); ok {
		return len(t.Steps)
	}
	return 0
}

// TransitStep returns the leg at row of a transit recommendation.
func (d *RecommendationDetail) TransitStep(row int) (model.TransitStep, bool) {
	t, ok := d.event.Variant.(*model.Transit)
	if !ok || row < 0 || row >= len(t.Steps) {
		return model.TransitStep{}, false
	}
	return t.Steps[row], true
}

// Accept switches to the itinerary that contains the accepted option and
// reports whether the subtype has a follow-up itinerary.
func (d *RecommendationDetail) Accept() bool {
	s := d.src.Storyline()
	switch d.event.SubType {
	case model.SubTypeLodging:
		d.src.SetItinerary(s.AfterHotel)
	case model.SubTypeRestaurant:
		d.src.SetItinerary(s.Transportation)
	case model.SubTypeTransit:
		d.src.SetItinerary(s.AfterTransportation)
	default:
		return false
	}
	return true
}
