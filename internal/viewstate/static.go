package viewstate

import "time"

// Notification is one row of the notification list.
type Notification struct {
	Kind      string
	Text      string
	TimeStamp string
}

var notificationRows = []Notification{
	{Kind: "weatherAlert", Text: "Inclement weather may affect your Regroup with audio/visual team at Pfau Cafe.", TimeStamp: "Just now"},
	{Kind: "event", Text: "Richard added a location for Event Launch", TimeStamp: "2 mins ago"},
	{Kind: "flight", Text: "Your flight to Berlin is boarding now at Gate 316", TimeStamp: "1 day ago"},
	{Kind: "event", Text: "You created a new trip: Berlin, Event Planning", TimeStamp: "7 days ago"},
}

// Notifications is the notification inbox. Its rows are fixed; the weather
// alert row opens the storyline's weather alert event.
type Notifications struct {
	src Source
}

func NewNotifications(src Source) *Notifications {
	return &Notifications{src: src}
}

func (n *Notifications) NumberOfSections() int { return 1 }

func (n *Notifications) NumberOfRows() int { return len(notificationRows) }

func (n *Notifications) Row(row int) (Notification, bool) {
	if row < 0 || row >= len(notificationRows) {
		return Notification{}, false
	}
	return notificationRows[row], true
}

// Highlighted reports whether row is drawn as unread.
func (n *Notifications) Highlighted(row int) bool { return row == 0 }

// WeatherAlertEventDetail returns nil while no data with the alert event is loaded.
func (n *Notifications) WeatherAlertEventDetail() *EventDetail {
	ev, date := n.src.EventAndDateForWeatherAlert()
	return NewEventDetail(ev, date, n.src)
}

// Trip is one row of the trip list.
type Trip struct {
	Title     string
	Subtitle  string
	ImageName string
	Start     time.Time
	End       time.Time
}

// MyTrips lists the demo trips with dates relative to now.
type MyTrips struct {
	trips []Trip
}

func NewMyTrips(now time.Time) *MyTrips {
	day := func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

	berlinStart := day(now, 1)
	trips := []Trip{
		{Title: "Berlin, Event Planning", ImageName: "Trips-berlin", Start: berlinStart, End: day(berlinStart, 4)},
		{Title: "Brand B London PR Event", ImageName: "trips-london", Start: day(now, 54), End: day(now, 60)},
		{Title: "Expansion Proposal New York", ImageName: "trips-nyc", Start: day(now, 115), End: day(now, 120)},
	}
	for i := range trips {
		trips[i].Subtitle = dayAndMonthOf(trips[i].Start) + " - " + dayAndMonthOf(trips[i].End)
	}
	return &MyTrips{trips: trips}
}

func (m *MyTrips) NumberOfSections() int { return 1 }

func (m *MyTrips) NumberOfRows() int { return len(m.trips) }

func (m *MyTrips) Trip(row int) (Trip, bool) {
	if row < 0 || row >= len(m.trips) {
		return Trip{}, false
	}
	return m.trips[row], true
}
