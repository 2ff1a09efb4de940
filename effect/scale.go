package effect

import "math"

func clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// lerp maps t from the unit interval onto [from, to].
func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
