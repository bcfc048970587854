package viewstate

import "github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"

// EventDetail is the view state of one event and its day.
type EventDetail struct {
	event *model.Event
	date  *model.DateBucket
	src   Source
}

// NewEventDetail returns nil when ev is nil.
func NewEventDetail(ev *model.Event, date *model.DateBucket, src Source) *EventDetail {
	if ev == nil {
		return nil
	}
	return &EventDetail{event: ev, date: date, src: src}
}

func (d *EventDetail) Event() *model.Event { return d.event }

func (d *EventDetail) Date() *model.DateBucket { return d.date }

func (d *EventDetail) SubType() model.SubType { return d.event.SubType }

// NavigationTitle names the detail screen: the venue for meetings,
// restaurants and hotels, the mode for flights and transit.
func (d *EventDetail) NavigationTitle() string {
	switch v := d.event.Variant.(type) {
	case *model.Lodging:
		return firstNonEmpty(v.Name, v.Title)
	case *model.Flight:
		return "Flight"
	case *model.Transit:
		return "Transportation"
	case *model.Recommendations:
		return (&Recommendations{recs: v}).NavigationTitle()
	}
	return d.event.Title()
}

// NavigationDate is the start day for restaurants and transit and the
// "checkin - checkout" range for lodging. Other subtypes have none.
func (d *EventDetail) NavigationDate() string {
	switch v := d.event.Variant.(type) {
	case *model.Restaurant, *model.Transit:
		return dayAndMonth(d.event.StartTime)
	case *model.Lodging:
		if v.Checkin == nil || v.Checkout == nil {
			return ""
		}
		return dayAndMonth(v.Checkin) + " - " + dayAndMonth(v.Checkout)
	}
	return ""
}

func (d *EventDetail) IsAffectedByBadWeather() bool {
	return d.event.IsAffectedByWeather()
}

// MapCoordinate is the event's position when its geometry carries one.
func (d *EventDetail) MapCoordinate() (Coordinate, bool) {
	return coordinateOf(d.event.Geometry())
}

// WeatherRecommendations lists the replacements suggested for a weather
// affected restaurant. Returns nil when the event carries none, which is
// possible even for weather affected events.
func (d *EventDetail) WeatherRecommendations() *Recommendations {
	r, ok := d.event.Variant.(*model.Restaurant)
	if !ok || r.RecommendedReplacements == nil {
		return nil
	}
	return NewRecommendations(r.RecommendedReplacements, d.event, d.src)
}

// TransitSteps returns the legs of a transit event.
func (d *EventDetail) TransitSteps() []model.TransitStep {
	if t, ok := d.event.Variant.(*model.Transit); ok {
		return t.Steps
	}
	return nil
}

func (d *EventDetail) NumberOfSections() int { return 1 }

func (d *EventDetail) NumberOfRows() int { return len(d.TransitSteps()) }

// TransitStep returns the leg at row.
func (d *EventDetail) TransitStep(row int) (model.TransitStep, bool) {
	steps := d.TransitSteps()
	if row < 0 || row >= len(steps) {
		return model.TransitStep{}, false
	}
	return steps[row], true
}
