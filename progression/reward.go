package progression

import "math"

// Multiplier returns the streak bonus, checked from the highest tier down.
func Multiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 1.5
	case streak >= 7:
		return 1.25
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// ActionPoints floors base × multiplier(streak).
func ActionPoints(base int64, streak int) int64 {
	return int64(math.Floor(float64(base) * Multiplier(streak)))
}
