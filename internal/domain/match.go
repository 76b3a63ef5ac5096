package domain

import "math"

// Match is one ranked result of a matching request. Ephemeral, never persisted.
type Match struct {
	Profile    Profile
	Score      float64 // raw cosine similarity
	Percentage float64 // Score*100 rounded to 2 decimals
	Rationale  string
	// RationaleOK distinguishes "rationale generated" from "generation failed or
	// not requested", so callers can assert on the side-effect outcome.
	RationaleOK bool
}

// MatchPercentage converts a cosine similarity into a percentage rounded to
// 2 decimal places.
func MatchPercentage(score float64) float64 {
	return math.Round(score*100*100) / 100
}
