package storyline

import "testing"

func TestDefault(t *testing.T) {
	tbl := Default()
	if tbl.Beginning != 0 || tbl.AfterHotel != 1 || tbl.Weather != 2 || tbl.Transportation != 3 || tbl.AfterTransportation != 4 {
		t.Fatalf("unexpected table %+v", tbl)
	}
	if tbl.WeatherAlert != (Position{Itinerary: 2, Date: 2, Event: 1}) {
		t.Fatalf("unexpected weather alert %+v", tbl.WeatherAlert)
	}
}

func TestMeaning(t *testing.T) {
	tbl := Default()
	cases := map[int]string{
		0:  "beginning",
		1:  "after hotel",
		2:  "weather",
		3:  "transportation",
		4:  "after transportation",
		7:  "itinerary 7",
		-1: "none",
	}
	for idx, want := range cases {
		if got := tbl.Meaning(idx); got != want {
			t.Fatalf("Meaning(%d) = %q, want %q", idx, got, want)
		}
	}
}
