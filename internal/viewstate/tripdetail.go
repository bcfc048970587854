package viewstate

import (
	"sync"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/model"
)

// CellKind selects how an itinerary event is rendered.
type CellKind string

const (
	CellNone           CellKind = ""
	CellMeeting        CellKind = "meeting"
	CellFlight         CellKind = "flight"
	CellHotel          CellKind = "hotel"
	CellTransit        CellKind = "transit"
	CellRecommendation CellKind = "recommendation"
)

// Cell is the display data of one event in the trip timeline.
type Cell struct {
	Kind    CellKind
	SubType model.SubType
	Start   *model.Millis
	End     *model.Millis
	Title   string

	// meeting and restaurant
	Location          string
	NumberOfStars     *float64
	PriceLevel        *float64
	Outdoor           bool
	AffectedByWeather bool

	// flight
	DepartureCode string
	DepartureCity string
	ArrivalCode   string
	ArrivalCity   string
	Gate          string
	Terminal      string
	Boarding      *model.Millis

	// hotel
	Confirmation string
	Room         string
	Checkin      *model.Millis
	Checkout     *model.Millis
	DisplayType  string

	// transit
	TransitName string

	// recommendations
	Message string
}

// DateHeader is the section header of one itinerary day.
type DateHeader struct {
	Date            *model.Millis
	DayAndMonth     string
	TemperatureHigh *float64
	TemperatureLow  *float64
	Condition       string
}

// TripDetail is the timeline of the selected itinerary. It starts empty, is
// populated by the first emission that resolves to an itinerary and is fully
// replaced by every later one. Emissions that resolve to no itinerary (index
// -1, out of range, invalid data) leave it unchanged.
type TripDetail struct {
	src    Source
	unsubs []func()

	mu            sync.Mutex
	dates         []model.DateBucket
	populated     bool
	weatherQueued bool
	weatherSegue  bool
}

// NewTripDetail subscribes to src and derives the initial state.
func NewTripDetail(src Source) *TripDetail {
	t := &TripDetail{src: src}
	t.unsubs = []func(){
		src.CurrentItinerary().Subscribe(func(int) { t.recompute() }),
		src.CurrentTravelData().Subscribe(func(*model.TravelData) { t.recompute() }),
	}
	t.recompute()
	return t
}

// Close stops following the data manager.
func (t *TripDetail) Close() {
	for _, u := range t.unsubs {
		u()
	}
}

func (t *TripDetail) recompute() {
	idx := t.src.CurrentItinerary().Get()
	it := t.src.CurrentTravelData().Get().User(0).Itinerary(idx)
	if it == nil {
		return
	}
	dates := make([]model.DateBucket, len(it.Dates))
	copy(dates, it.Dates)

	t.mu.Lock()
	t.dates = dates
	t.populated = true
	t.mu.Unlock()
}

// Populated reports whether an itinerary has been derived yet.
func (t *TripDetail) Populated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.populated
}

// Dates returns the day buckets of the selected itinerary.
func (t *TripDetail) Dates() []model.DateBucket {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.DateBucket, len(t.dates))
	copy(out, t.dates)
	return out
}

func (t *TripDetail) NumberOfSections() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dates)
}

func (t *TripDetail) NumberOfItems(section int) int {
	b := t.bucket(section)
	if b == nil {
		return 0
	}
	return len(b.Events)
}

func (t *TripDetail) bucket(section int) *model.DateBucket {
	t.mu.Lock()
	defer t.mu.Unlock()
	if section < 0 || section >= len(t.dates) {
		return nil
	}
	b := t.dates[section]
	return &b
}

func (t *TripDetail) event(ip IndexPath) (*model.Event, *model.DateBucket) {
	b := t.bucket(ip.Section)
	ev := b.Event(ip.Item)
	if ev == nil {
		return nil, nil
	}
	return ev, b
}

// Header returns the date header of section.
func (t *TripDetail) Header(section int) (DateHeader, bool) {
	b := t.bucket(section)
	if b == nil {
		return DateHeader{}, false
	}
	return DateHeader{
		Date:            b.Date,
		DayAndMonth:     dayAndMonth(b.Date),
		TemperatureHigh: b.TemperatureHigh,
		TemperatureLow:  b.TemperatureLow,
		Condition:       b.Condition,
	}, true
}

// SubType returns the subtype of the event at ip, or "" when out of range.
func (t *TripDetail) SubType(ip IndexPath) model.SubType {
	ev, _ := t.event(ip)
	if ev == nil {
		return ""
	}
	return ev.SubType
}

// IsAffectedByWeather reports the weather flag of the event at ip.
func (t *TripDetail) IsAffectedByWeather(ip IndexPath) bool {
	ev, _ := t.event(ip)
	return ev.IsAffectedByWeather()
}

// HotelDisplayType returns the display type of a lodging event at ip.
func (t *TripDetail) HotelDisplayType(ip IndexPath) string {
	ev, _ := t.event(ip)
	if ev == nil {
		return ""
	}
	if l, ok := ev.Variant.(*model.Lodging); ok {
		return l.DisplayType
	}
	return ""
}

// CellKind returns how the event at ip is rendered.
func (t *TripDetail) CellKind(ip IndexPath) CellKind {
	c, _ := t.Cell(ip)
	return c.Kind
}

// Cell derives the display data of the event at ip.
func (t *TripDetail) Cell(ip IndexPath) (Cell, bool) {
	ev, _ := t.event(ip)
	if ev == nil {
		return Cell{}, false
	}
	c := Cell{
		SubType: ev.SubType,
		Start:   ev.StartTime,
		End:     ev.EndTime,
		Title:   ev.Title(),
		// Unknown subtypes fall back to the recommendation cell.
		Kind:              CellRecommendation,
		AffectedByWeather: ev.IsAffectedByWeather(),
	}
	switch v := ev.Variant.(type) {
	case *model.Meeting:
		c.Kind = CellMeeting
		c.Location = v.Vicinity
		c.Outdoor = boolValue(v.IsOutdoor)
	case *model.Restaurant:
		c.Kind = CellMeeting
		c.Location = v.Vicinity
		c.NumberOfStars = v.NumberOfStars
		c.PriceLevel = v.PriceLevel
		c.Outdoor = boolValue(v.IsOutdoor)
	case *model.Flight:
		c.Kind = CellFlight
		c.DepartureCode = v.DepartureAirportCode
		c.ArrivalCode = v.ArrivalAirportCode
		if v.DepartureLocation != nil {
			c.DepartureCity = v.DepartureLocation.City
		}
		if v.ArrivalLocation != nil {
			c.ArrivalCity = v.ArrivalLocation.City
		}
		c.Gate = v.Gate
		c.Terminal = v.Terminal
		c.Boarding = v.BoardingTime
	case *model.Lodging:
		c.Kind = CellHotel
		c.Confirmation = v.Confirmation
		c.Room = v.Room
		c.Checkin = v.Checkin
		c.Checkout = v.Checkout
		c.DisplayType = v.DisplayType
	case *model.Transit:
		c.Kind = CellTransit
		c.Location = v.DepartureStreet
		c.TransitName = v.TransitName
	case *model.Recommendations:
		c.Message = v.Message
	}
	return c, true
}

// ------------------------------
// storyline driven state
// ------------------------------

// TryToQueueWeatherAlert arms the weather alert when the weather itinerary is
// selected and disarms it otherwise.
func (t *TripDetail) TryToQueueWeatherAlert() {
	queued := t.src.CurrentItinerary().Get() == t.src.Storyline().Weather
	t.mu.Lock()
	t.weatherQueued = queued
	t.mu.Unlock()
}

// ConsumeWeatherAlert reports whether the alert was armed and disarms it.
func (t *TripDetail) ConsumeWeatherAlert() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	q := t.weatherQueued
	t.weatherQueued = false
	return q
}

// AddedEventIndexPath is the position of the event the last story step added.
func (t *TripDetail) AddedEventIndexPath() (IndexPath, bool) {
	s := t.src.Storyline()
	switch t.src.CurrentItinerary().Get() {
	case s.AfterHotel:
		return IndexPath{Section: 0, Item: 1}, true
	case s.Transportation:
		return IndexPath{Section: 2, Item: 2}, true
	case s.AfterTransportation:
		return IndexPath{Section: 2, Item: 1}, true
	}
	return IndexPath{}, false
}

// AddedEventAlertText is the confirmation shown for the last story step.
func (t *TripDetail) AddedEventAlertText() string {
	s := t.src.Storyline()
	switch t.src.CurrentItinerary().Get() {
	case s.AfterHotel:
		return "You have successfully booked a hotel and it has been added to your itinerary."
	case s.Transportation:
		return "You have successfully updated the meeting location for this event. We’ll notify your invitees."
	case s.AfterTransportation:
		return "Congratulations! This event has been added to your itinerary."
	}
	return ""
}

// ------------------------------
// navigation
// ------------------------------

// SetWeatherAlertSegue makes the next EventDetailFor return the weather alert event.
func (t *TripDetail) SetWeatherAlertSegue() {
	t.mu.Lock()
	t.weatherSegue = true
	t.mu.Unlock()
}

// EventDetailFor builds the detail view state of the event at ip, or of the
// weather alert event when SetWeatherAlertSegue was called. Returns nil when
// there is no such event.
func (t *TripDetail) EventDetailFor(ip IndexPath) *EventDetail {
	t.mu.Lock()
	segue := t.weatherSegue
	t.weatherSegue = false
	t.mu.Unlock()

	if segue {
		ev, date := t.src.EventAndDateForWeatherAlert()
		return NewEventDetail(ev, date, t.src)
	}
	ev, date := t.event(ip)
	return NewEventDetail(ev, date, t.src)
}

// RecommendationsFor builds the recommendation list for a recommendations
// event at ip. Returns nil for other events.
func (t *TripDetail) RecommendationsFor(ip IndexPath) *Recommendations {
	ev, _ := t.event(ip)
	return NewRecommendations(ev, nil, t.src)
}
