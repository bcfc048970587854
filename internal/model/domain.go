// Package model holds the itinerary entity graph and the parsers that build it
// from loosely typed payloads.
//
// Every entity is immutable after parsing. A new TravelData replaces the old
// one wholesale; nothing in the graph is patched in place.
package model

import "time"

// ------------------------------
// Value objects
// ------------------------------

// Millis is an epoch timestamp in milliseconds as sent by the itinerary service.
type Millis float64

// Time converts m to a UTC time.Time.
func (m Millis) Time() time.Time { return time.UnixMilli(int64(m)).UTC() }

// Location is a flat coordinate plus place names.
type Location struct {
	Lat     *float64
	Lng     *float64
	City    string
	Country string
}

// LatLng is the coordinate pair nested inside a Geometry.
type LatLng struct {
	Lat *float64
	Lng *float64
}

// Geometry is the places-style location shape used by meetings, restaurants and lodging.
type Geometry struct {
	Location *LatLng
	City     string
	Country  string
}

// Discount describes a lodging price reduction.
type Discount struct {
	PreviousPrice   *float64
	DiscountedPrice *float64
	Message         string
}

// ------------------------------
// Aggregate roots
// ------------------------------

// TravelData is the root snapshot published by the data manager.
type TravelData struct {
	Users []User
}

// IsValid reports whether at least one user has at least one itinerary.
func (d *TravelData) IsValid() bool {
	if d == nil {
		return false
	}
	for i := range d.Users {
		if len(d.Users[i].Itineraries) > 0 {
			return true
		}
	}
	return false
}

// User returns the user at index i or nil when out of range.
func (d *TravelData) User(i int) *User {
	if d == nil || i < 0 || i >= len(d.Users) {
		return nil
	}
	return &d.Users[i]
}

// User owns an ordered list of positionally addressed itineraries.
type User struct {
	Name        string
	Itineraries []Itinerary
}

// Itinerary returns the itinerary at index i or nil when out of range.
func (u *User) Itinerary(i int) *Itinerary {
	if u == nil || i < 0 || i >= len(u.Itineraries) {
		return nil
	}
	return &u.Itineraries[i]
}

// Itinerary is one trip plan made of calendar day buckets.
type Itinerary struct {
	ID              string
	Title           string
	Version         *int
	StartDate       *Millis
	EndDate         *Millis
	InitialLocation *Location
	Dates           []DateBucket

	// Backing store passthrough, not interpreted.
	DocID string
	Type  string
	Rev   string
}

// Date returns the date bucket at index i or nil when out of range.
func (it *Itinerary) Date(i int) *DateBucket {
	if it == nil || i < 0 || i >= len(it.Dates) {
		return nil
	}
	return &it.Dates[i]
}

// DateBucket is one calendar day within an itinerary.
type DateBucket struct {
	Date            *Millis
	TemperatureHigh *float64
	TemperatureLow  *float64
	Condition       string
	Events          []Event
}

// Event returns the event at index i or nil when out of range.
func (b *DateBucket) Event(i int) *Event {
	if b == nil || i < 0 || i >= len(b.Events) {
		return nil
	}
	return &b.Events[i]
}

// TransitStepType distinguishes walking legs from rail legs.
type TransitStepType string

const (
	StepWalk TransitStepType = "walk"
	StepRail TransitStepType = "rail"
)

// TransitStep is one leg of a transit event.
type TransitStep struct {
	Type          TransitStepType
	StartTime     *Millis
	EndTime       *Millis
	DepartureArea string
	ArrivalArea   string
	Details       string
	WalkTime      string
	TransitLine   string
	Title         string
	Stops         *float64 // rail only
}
