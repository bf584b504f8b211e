package wake

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		text, phrase string
		want         bool
	}{
		{"hey CEDDY please help", "Hey Ceddy", true},
		{"Hey Ceddy", "Hey Ceddy", true},
		{"well hey ceddy, what club here?", "Hey Ceddy", true},
		{"hey ced", "Hey Ceddy", false},
		{"what club should I use", "Hey Ceddy", false},
		{"", "Hey Ceddy", false},
		{"hey ceddy", "", false},
	}
	for _, tc := range cases {
		if got := Detect(tc.text, tc.phrase); got != tc.want {
			t.Fatalf("Detect(%q, %q) = %v, want %v", tc.text, tc.phrase, got, tc.want)
		}
	}
}
