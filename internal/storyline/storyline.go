// Package storyline names the itinerary positions of the scripted trip demo.
// The backend serves one itinerary per step of the story and the client moves
// between them as the user books a hotel, reacts to the weather alert and picks
// transportation.
package storyline

import "fmt"

// Position addresses one event inside user 0's itineraries.
type Position struct {
	Itinerary int
	Date      int
	Event     int
}

// Table maps story steps to itinerary indices.
type Table struct {
	Beginning           int
	AfterHotel          int
	Weather             int
	Transportation      int
	AfterTransportation int

	// WeatherAlert is the event the weather notification points at.
	WeatherAlert Position
}

// Default returns the layout the itinerary service ships.
func Default() Table {
	return Table{
		Beginning:           0,
		AfterHotel:          1,
		Weather:             2,
		Transportation:      3,
		AfterTransportation: 4,
		WeatherAlert:        Position{Itinerary: 2, Date: 2, Event: 1},
	}
}

// Meaning names the story step shown at index.
func (t Table) Meaning(index int) string {
	switch index {
	case t.Beginning:
		return "beginning"
	case t.AfterHotel:
		return "after hotel"
	case t.Weather:
		return "weather"
	case t.Transportation:
		return "transportation"
	case t.AfterTransportation:
		return "after transportation"
	}
	if index < 0 {
		return "none"
	}
	return fmt.Sprintf("itinerary %d", index)
}
