package viewstate

import "github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"

// Recommendation types carried in rec_type.
const (
	RecLodging    = "lodging"
	RecRestaurant = "restaurant"
	RecTransit    = "transit"
)

const blablacar = "blablacar"

// RowKind selects how a recommendation row is rendered.
type RowKind string

const (
	RowNone       RowKind = ""
	RowHotel      RowKind = "hotel"
	RowRestaurant RowKind = "restaurant"
	RowTransport  RowKind = "transportation"
	RowBlaBlaCar  RowKind = "blablacar"
)

// Row is the display data of one recommendation.
type Row struct {
	Kind     RowKind
	Title    string
	ImageURL string
	Rating   *float64
	Trusted  bool

	// hotel
	Rationale     string
	Price         *float64
	PreviousPrice *float64

	// restaurant
	Cuisine    string
	Distance   string
	PriceLevel *float64

	// transportation
	DepartureArea string
	Start         *model.Millis
	End           *model.Millis
	Cost          string
	TransitName   string
	SeatsLeft     int
}

// TwoPartHeader summarises a recommendation list: where and when.
type TwoPartHeader struct {
	RecType         string
	LodgingLocation string
	FromLocation    string
	ToLocation      string
	Start           *model.Millis
	End             *model.Millis
}

// Recommendations is the list view of a recommendations event, optionally
// offered as replacements for another event.
type Recommendations struct {
	event    *model.Event
	recs     *model.Recommendations
	replaced *model.Event
	src      Source
}

// NewRecommendations returns nil unless ev is a recommendations event.
func NewRecommendations(ev, replaced *model.Event, src Source) *Recommendations {
	if ev == nil {
		return nil
	}
	recs, ok := ev.Variant.(*model.Recommendations)
	if !ok {
		return nil
	}
	return &Recommendations{event: ev, recs: recs, replaced: replaced, src: src}
}

func (r *Recommendations) RecType() string { return r.recs.RecType }

// Replaced is the event the recommendations would replace, if any.
func (r *Recommendations) Replaced() *model.Event { return r.replaced }

func (r *Recommendations) NavigationTitle() string {
	switch r.recs.RecType {
	case RecLodging:
		return "Hotels"
	case RecRestaurant:
		return "Restaurants"
	case RecTransit:
		return "Transportation"
	}
	return ""
}

func (r *Recommendations) NumberOfSections() int { return 1 }

func (r *Recommendations) NumberOfRows() int { return len(r.recs.List) }

// Recommendation returns the event at row or nil.
func (r *Recommendations) Recommendation(row int) *model.Event {
	if row < 0 || row >= len(r.recs.List) {
		return nil
	}
	return &r.recs.List[row]
}

// HeaderOnePart names the replaced event and its "city, country".
func (r *Recommendations) HeaderOnePart() (name, cityCountry string) {
	if r.replaced == nil {
		return "", ""
	}
	if rest, ok := r.replaced.Variant.(*model.Restaurant); ok {
		name = rest.Name
	}
	if g := r.replaced.Geometry(); g != nil && g.City != "" && g.Country != "" {
		cityCountry = g.City + ", " + g.Country
	}
	return name, cityCountry
}

// HeaderTwoPart uses the times of the first recommendation.
func (r *Recommendations) HeaderTwoPart() TwoPartHeader {
	h := TwoPartHeader{
		RecType:         r.recs.RecType,
		LodgingLocation: r.recs.LodgingLocation,
		FromLocation:    r.recs.FromLocation,
		ToLocation:      r.recs.ToLocation,
	}
	if first := r.Recommendation(0); first != nil {
		h.Start, h.End = first.StartTime, first.EndTime
	}
	return h
}

// DepartureArea is the departure of the first leg of a transit recommendation.
func (r *Recommendations) DepartureArea(row int) string {
	if t, ok := variantOf(r.Recommendation(row)).(*model.Transit); ok && len(t.Steps) > 0 {
		return t.Steps[0].DepartureArea
	}
	return ""
}

// TransportCellKind distinguishes ride sharing offers from regular transit.
func (r *Recommendations) TransportCellKind(row int) RowKind {
	t, ok := variantOf(r.Recommendation(row)).(*model.Transit)
	if !ok {
		return RowNone
	}
	if t.TransitName == blablacar {
		return RowBlaBlaCar
	}
	return RowTransport
}

// Row derives the display data of the recommendation at row according to the
// list's rec_type.
func (r *Recommendations) Row(row int) (Row, bool) {
	ev := r.Recommendation(row)
	if ev == nil {
		return Row{}, false
	}
	switch r.recs.RecType {
	case RecLodging:
		l, ok := ev.Variant.(*model.Lodging)
		if !ok {
			return Row{}, false
		}
		price, prev := lodgingPrice(l)
		return Row{
			Kind:          RowHotel,
			Title:         ev.Title(),
			Rating:        l.Rating,
			Rationale:     l.Rationale,
			Trusted:       boolValue(l.IsTrustedPartner),
			Price:         price,
			PreviousPrice: prev,
			ImageURL:      l.ImageURL,
		}, true
	case RecRestaurant:
		rest, ok := ev.Variant.(*model.Restaurant)
		if !ok {
			return Row{}, false
		}
		return Row{
			Kind:       RowRestaurant,
			Title:      rest.Name,
			Cuisine:    rest.Cuisine,
			Distance:   rest.Distance,
			Rating:     rest.Rating,
			PriceLevel: rest.PriceLevel,
			ImageURL:   rest.ImageURL,
			Trusted:    boolValue(rest.IsTrustedPartner),
		}, true
	case RecTransit:
		t, ok := ev.Variant.(*model.Transit)
		if !ok || t.TransitName == "" {
			return Row{}, false
		}
		out := Row{
			Kind:          r.TransportCellKind(row),
			Title:         t.TransitName,
			TransitName:   t.TransitName,
			DepartureArea: r.DepartureArea(row),
			Start:         ev.StartTime,
			End:           ev.EndTime,
			Cost:          t.Cost,
			Trusted:       boolValue(t.IsTrustedPartner),
		}
		if out.Kind == RowBlaBlaCar {
			out.SeatsLeft = 3
		}
		return out, true
	}
	return Row{}, false
}

// Detail builds the detail view state of the recommendation at row.
func (r *Recommendations) Detail(row int) *RecommendationDetail {
	return NewRecommendationDetail(r.Recommendation(row), r.src)
}
