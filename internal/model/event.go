package model

// SubType tags which variant an Event carries.
type SubType string

const (
	SubTypeMeeting         SubType = "meeting"
	SubTypeRestaurant      SubType = "restaurant"
	SubTypeFlight          SubType = "flight"
	SubTypeLodging         SubType = "lodging"
	SubTypeTransit         SubType = "transit"
	SubTypeRecommendations SubType = "recommendations"
	SubTypeOther           SubType = "other"
)

// Common holds the fields every event variant shares.
type Common struct {
	ItineraryID       string
	SubType           SubType
	StartTime         *Millis
	EndTime           *Millis
	AffectedByWeather *bool

	DocID string
	Type  string
	Rev   string
}

// Event is one itinerary activity. Variant is nil when the subtype is not
// recognised; only Common is populated in that case.
type Event struct {
	Common
	Variant Variant
}

// Variant is the closed set of event shapes. Use a type switch over
// *Meeting, *Restaurant, *Flight, *Lodging, *Transit, *Recommendations and *Other.
type Variant interface {
	subType() SubType
}

// IsAffectedByWeather reports whether the event is flagged as weather affected.
func (e *Event) IsAffectedByWeather() bool {
	return e != nil && e.AffectedByWeather != nil && *e.AffectedByWeather
}

// Title returns the display title of the variant, falling back to its name.
func (e *Event) Title() string {
	if e == nil {
		return ""
	}
	switch v := e.Variant.(type) {
	case *Meeting:
		return v.Title
	case *Restaurant:
		return firstNonEmpty(v.Title, v.Name)
	case *Lodging:
		return firstNonEmpty(v.Title, v.Name)
	case *Other:
		return firstNonEmpty(v.Title, v.Name)
	case *Transit:
		return v.TransitName
	case *Flight:
		return v.DepartureAirportCode + " - " + v.ArrivalAirportCode
	case *Recommendations:
		return v.Message
	}
	return ""
}

// Geometry returns the geometry of variants that carry one.
func (e *Event) Geometry() *Geometry {
	if e == nil {
		return nil
	}
	switch v := e.Variant.(type) {
	case *Meeting:
		return v.Geometry
	case *Restaurant:
		return v.Geometry
	case *Lodging:
		return v.Geometry
	case *Other:
		return v.Geometry
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Meeting is a scheduled meeting.
type Meeting struct {
	Title     string
	Geometry  *Geometry
	Vicinity  string
	IsOutdoor *bool
	Time      *Millis
	ImageURL  string
}

// Restaurant is a dining event. RecommendedReplacements is normally present when
// the event is affected by weather, but that is not guaranteed.
type Restaurant struct {
	Title                   string
	Name                    string
	Geometry                *Geometry
	PriceLevel              *float64
	Rating                  *float64
	NumberOfStars           *float64
	Cuisine                 string
	Distance                string
	Location                string
	ReviewHighlight         string
	Reviewer                string
	ReviewTime              string
	Vicinity                string
	IsOutdoor               *bool
	Time                    *Millis
	ImageURL                string
	IsTrustedPartner        *bool
	RecommendedReplacements *Event
}

// Flight is an air leg.
type Flight struct {
	BoardingTime         *Millis
	DepartureTime        *Millis
	ArrivalTime          *Millis
	DepartureAirportCode string
	ArrivalAirportCode   string
	DepartureLocation    *Location
	ArrivalLocation      *Location
	Gate                 string
	Terminal             string
}

// Lodging is a hotel stay or a hotel offer inside a recommendation list.
type Lodging struct {
	Title                  string
	Name                   string
	Room                   string
	Geometry               *Geometry
	Confirmation           string
	Checkin                *Millis
	Checkout               *Millis
	Price                  *float64
	IsTrustedPartner       *bool
	HasPromotionalDiscount *bool
	PromotionalDiscount    *Discount
	IsLoyaltyMember        *bool
	LoyaltyDiscount        *Discount
	LoyaltyProgramName     string
	LoyaltyPoints          *float64
	Rationale              string
	Description            string
	DisplayType            string
	ImageURL               string
	Rating                 *float64
	NumberOfStars          *float64
	Location               string
	ReviewHighlight        string
	Reviewer               string
	ReviewTime             string
}

// Transit is a ground transportation option.
type Transit struct {
	IsTrustedPartner *bool
	Cost             string
	TransitName      string
	Steps            []TransitStep
	DepartureStreet  string
}

// Recommendations groups alternative events, e.g. hotels after a booking gap or
// indoor restaurants during bad weather.
type Recommendations struct {
	RecType         string
	Message         string
	FromLocation    string
	ToLocation      string
	LodgingLocation string
	List            []Event
	Alert           *bool
}

// Other is a free-form activity.
type Other struct {
	Title     string
	Name      string
	Geometry  *Geometry
	Vicinity  string
	Time      *Millis
	ImageURL  string
	IsOutdoor *bool
}

func (*Meeting) subType() SubType         { return SubTypeMeeting }
func (*Restaurant) subType() SubType      { return SubTypeRestaurant }
func (*Flight) subType() SubType          { return SubTypeFlight }
func (*Lodging) subType() SubType         { return SubTypeLodging }
func (*Transit) subType() SubType         { return SubTypeTransit }
func (*Recommendations) subType() SubType { return SubTypeRecommendations }
func (*Other) subType() SubType           { return SubTypeOther }
