package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DecodePayload decodes a raw service payload into a generic JSON object.
// It fails only when the whole payload is not a JSON object.
func DecodePayload(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("decode payload: empty body")
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode payload: not a JSON object")
	}
	return out, nil
}

// ParseTravelDataJSON decodes raw and builds a TravelData from it.
func ParseTravelDataJSON(raw []byte) (*TravelData, error) {
	data, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	return ParseTravelData(data), nil
}

// ParseTravelData builds the entity graph from a decoded payload. It never fails:
// wrong types leave fields absent and malformed elements are skipped. The result
// may be invalid; callers check IsValid.
func ParseTravelData(data map[string]any) *TravelData {
	f := fields(data)
	td := &TravelData{}
	for _, u := range f.list("users") {
		td.Users = append(td.Users, parseUser(u))
	}
	return td
}

func parseUser(f fields) User {
	u := User{Name: f.str("name")}
	for _, it := range f.list("itineraries") {
		u.Itineraries = append(u.Itineraries, parseItinerary(it))
	}
	return u
}

func parseItinerary(f fields) Itinerary {
	it := Itinerary{
		ID:        f.str("id"),
		Title:     f.str("title"),
		Version:   f.integer("version"),
		StartDate: f.millis("itineraryStartDate"),
		EndDate:   f.millis("itineraryEndDate"),
		DocID:     f.str("_id"),
		Type:      f.str("type"),
		Rev:       f.str("_rev"),
	}
	if loc, ok := f.dict("initialLocation"); ok {
		it.InitialLocation = parseLocation(loc)
	}
	for _, d := range f.list("dates") {
		it.Dates = append(it.Dates, parseDateBucket(d))
	}
	return it
}

func parseDateBucket(f fields) DateBucket {
	b := DateBucket{
		Date:            f.millis("date"),
		TemperatureHigh: f.num("temperatureHigh"),
		TemperatureLow:  f.num("temperatureLow"),
		Condition:       f.str("condition"),
	}
	b.Events = parseEvents(f.list("events"))
	return b
}

func parseEvents(items []fields) []Event {
	var out []Event
	for _, item := range items {
		if ev, ok := parseEvent(item); ok {
			out = append(out, ev)
		}
	}
	return out
}

func parseLocation(f fields) *Location {
	return &Location{
		Lat:     f.num("lat"),
		Lng:     f.num("lng"),
		City:    f.str("city"),
		Country: f.str("country"),
	}
}

func parseGeometry(f fields) *Geometry {
	g := &Geometry{City: f.str("city"), Country: f.str("country")}
	if loc, ok := f.dict("location"); ok {
		g.Location = &LatLng{Lat: loc.num("lat"), Lng: loc.num("lng")}
	}
	return g
}

func parseDiscount(f fields) *Discount {
	return &Discount{
		PreviousPrice:   f.num("previousPrice"),
		DiscountedPrice: f.num("discountedPrice"),
		Message:         f.str("message"),
	}
}

func parseTransitStep(f fields) TransitStep {
	return TransitStep{
		Type:          TransitStepType(f.str("type")),
		StartTime:     f.millis("start_time"),
		EndTime:       f.millis("end_time"),
		DepartureArea: f.str("departureArea"),
		ArrivalArea:   f.str("arrivalArea"),
		Details:       f.str("details"),
		WalkTime:      f.str("walkTime"),
		TransitLine:   f.str("transitLine"),
		Title:         f.str("title"),
		Stops:         f.num("stops"),
	}
}

func (f fields) geometry(key string) *Geometry {
	if g, ok := f.dict(key); ok {
		return parseGeometry(g)
	}
	return nil
}

func (f fields) location(key string) *Location {
	if l, ok := f.dict(key); ok {
		return parseLocation(l)
	}
	return nil
}

func (f fields) discount(key string) *Discount {
	if d, ok := f.dict(key); ok {
		return parseDiscount(d)
	}
	return nil
}

// parseEvent returns ok=false when the element has no usable subType and must
// be dropped from its parent sequence.
func parseEvent(f fields) (Event, bool) {
	sub, ok := f.strOK("subType")
	if !ok {
		log.Warn().Str("itinerary_id", f.str("itineraryId")).Str("title", f.str("meetingName")).
			Msg("discarding event without subType")
		return Event{}, false
	}

	ev := Event{Common: Common{
		ItineraryID:       f.str("itineraryId"),
		SubType:           SubType(sub),
		StartTime:         f.millis("start_time"),
		EndTime:           f.millis("end_time"),
		AffectedByWeather: f.boolean("affectedByWeather"),
		DocID:             f.str("_id"),
		Type:              f.str("type"),
		Rev:               f.str("_rev"),
	}}

	switch ev.SubType {
	case SubTypeMeeting:
		ev.Variant = &Meeting{
			Title:     f.str("meetingName"),
			Geometry:  f.geometry("geometry"),
			Vicinity:  f.str("vicinity"),
			IsOutdoor: f.boolean("isOutdoor"),
			Time:      f.millis("time"),
			ImageURL:  f.str("imageUrl"),
		}
	case SubTypeOther:
		ev.Variant = &Other{
			Title:     f.str("meetingName"),
			Name:      f.str("name"),
			Geometry:  f.geometry("geometry"),
			Vicinity:  f.str("vicinity"),
			Time:      f.millis("time"),
			ImageURL:  f.str("imageUrl"),
			IsOutdoor: f.boolean("isOutdoor"),
		}
	case SubTypeRestaurant:
		r := &Restaurant{
			Title:            f.str("meetingName"),
			Name:             f.str("name"),
			Geometry:         f.geometry("geometry"),
			PriceLevel:       f.num("price_level"),
			Rating:           f.num("rating"),
			NumberOfStars:    f.num("numberOfStars"),
			Cuisine:          f.str("cuisine"),
			Distance:         f.str("distance"),
			Location:         f.str("location"),
			ReviewHighlight:  f.str("reviewHighlight"),
			Reviewer:         f.str("reviewer"),
			ReviewTime:       f.str("reviewTime"),
			Vicinity:         f.str("vicinity"),
			IsOutdoor:        f.boolean("isOutdoor"),
			Time:             f.millis("time"),
			ImageURL:         f.str("imageUrl"),
			IsTrustedPartner: f.boolean("isPreferred"),
		}
		if repl, ok := f.dict("recommendedReplacements"); ok {
			if nested, ok := parseEvent(repl); ok {
				r.RecommendedReplacements = &nested
			}
		}
		ev.Variant = r
	case SubTypeFlight:
		ev.Variant = &Flight{
			BoardingTime:         f.millis("boardingTime"),
			DepartureTime:        f.millis("departureTime"),
			ArrivalTime:          f.millis("arrivalTime"),
			DepartureAirportCode: f.str("departureAirportCode"),
			ArrivalAirportCode:   f.str("arrivalAirportCode"),
			DepartureLocation:    f.location("departureLocation"),
			ArrivalLocation:      f.location("arrivalLocation"),
			Gate:                 f.str("gate"),
			Terminal:             f.str("terminal"),
		}
	case SubTypeLodging:
		ev.Variant = &Lodging{
			Title:                  f.str("meetingName"),
			Name:                   f.str("name"),
			Room:                   f.str("room"),
			Geometry:               f.geometry("geometry"),
			Confirmation:           f.str("confirmation"),
			Checkin:                f.millis("checkin"),
			Checkout:               f.millis("checkout"),
			Price:                  f.num("price"),
			IsTrustedPartner:       f.boolean("isPreferred"),
			HasPromotionalDiscount: f.boolean("hasPromotionalDiscount"),
			PromotionalDiscount:    f.discount("promotionalDiscount"),
			IsLoyaltyMember:        f.boolean("isLoyaltyMember"),
			LoyaltyDiscount:        f.discount("loyaltyDiscount"),
			LoyaltyProgramName:     f.str("loyaltyProgramName"),
			LoyaltyPoints:          f.num("loyaltyPoints"),
			Rationale:              f.str("rationale"),
			Description:            f.str("description"),
			DisplayType:            f.str("displayType"),
			ImageURL:               f.str("imageUrl"),
			Rating:                 f.num("rating"),
			NumberOfStars:          f.num("numberOfStars"),
			Location:               f.str("location"),
			ReviewHighlight:        f.str("reviewHighlight"),
			Reviewer:               f.str("reviewer"),
			ReviewTime:             f.str("reviewTime"),
		}
	case SubTypeTransit:
		t := &Transit{
			IsTrustedPartner: f.boolean("isPreferred"),
			Cost:             f.str("cost"),
			TransitName:      f.str("ios_transit_name"),
			DepartureStreet:  f.str("departureStreet"),
		}
		for _, s := range f.list("transit_steps") {
			t.Steps = append(t.Steps, parseTransitStep(s))
		}
		ev.Variant = t
	case SubTypeRecommendations:
		ev.Variant = &Recommendations{
			RecType:         f.str("rec_type"),
			Message:         f.str("message"),
			FromLocation:    f.str("fromLocation"),
			ToLocation:      f.str("toLocation"),
			LodgingLocation: f.str("lodgingLocation"),
			List:            parseEvents(f.list("recommendationList")),
			Alert:           f.boolean("alert"),
		}
	default:
		log.Warn().Str("sub_type", sub).Str("itinerary_id", ev.ItineraryID).Msg("unsupported event subType")
	}
	return ev, true
}
