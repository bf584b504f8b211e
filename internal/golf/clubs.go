// Package golf holds the static club-selection and course-condition logic.
package golf

// Suggestion is a club recommendation for a given distance.
type Suggestion struct {
	Club        string `json:"club"`
	Explanation string `json:"explanation"`
}

// Wind is the current wind report. Static placeholder until a weather
// provider is wired in.
type Wind struct {
	Speed          string `json:"speed"`
	Direction      string `json:"direction"`
	Recommendation string `json:"recommendation"`
}

// SuggestClub maps a distance in yards to a club using fixed bands.
func SuggestClub(distance float64) Suggestion {
	switch {
	case distance < 100:
		return Suggestion{Club: "Wedge", Explanation: "For short distances under 100 yards, a wedge is appropriate."}
	case distance < 150:
		return Suggestion{Club: "9 Iron", Explanation: "For distances between 100-150 yards, a 9 iron is a good choice."}
	case distance < 180:
		return Suggestion{Club: "7 Iron", Explanation: "For distances between 150-180 yards, a 7 iron is recommended."}
	case distance < 220:
		return Suggestion{Club: "5 Iron", Explanation: "For distances between 180-220 yards, a 5 iron provides good distance."}
	default:
		return Suggestion{Club: "Driver", Explanation: "For distances over 220 yards, use your driver for maximum distance."}
	}
}

// WindConditions returns the placeholder wind report.
func WindConditions() Wind {
	return Wind{
		Speed:          "10 mph",
		Direction:      "North-East",
		Recommendation: "Adjust your aim slightly to the left to account for the crosswind.",
	}
}
