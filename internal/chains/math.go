package chains

import (
	"math"
	"time"
)

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// round rounds to specified decimal places
func round(value float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(value*mult) / mult
}

// daysBetween returns the absolute number of days between two times
func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}
