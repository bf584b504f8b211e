package golf

import "testing"

func TestSuggestClub_Bands(t *testing.T) {
	cases := []struct {
		distance float64
		want     string
	}{
		{0, "Wedge"},
		{99.9, "Wedge"},
		{100.0, "9 Iron"},
		{149.9, "9 Iron"},
		{150.0, "7 Iron"},
		{179.9, "7 Iron"},
		{180.0, "5 Iron"},
		{219.9, "5 Iron"},
		{220.0, "Driver"},
		{320, "Driver"},
	}
	for _, tc := range cases {
		got := SuggestClub(tc.distance)
		if got.Club != tc.want {
			t.Fatalf("SuggestClub(%v) = %q, want %q", tc.distance, got.Club, tc.want)
		}
		if got.Explanation == "" {
			t.Fatalf("SuggestClub(%v) missing explanation", tc.distance)
		}
	}
}

func TestWindConditions_Static(t *testing.T) {
	w := WindConditions()
	if w.Speed != "10 mph" || w.Direction != "North-East" || w.Recommendation == "" {
		t.Fatalf("unexpected wind report: %+v", w)
	}
}
