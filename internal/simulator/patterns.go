package simulator

import (
	"math/rand"
	"time"
)

var peakHours = map[int]bool{
	8: true, 9: true, // breakfast
	13: true, 14: true, // lunch
	17: true, 18: true, // after work
}

// demandMultiplier scales the base order rate by time of day, week and season.
func demandMultiplier(t time.Time) float64 {
	hour := t.Hour()
	multiplier := 1.0

	switch {
	case hour < 7 || hour >= 23:
		multiplier *= 0.1
	case peakHours[hour]:
		multiplier *= 1.8
	}

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		if hour >= 10 && hour <= 20 {
			multiplier *= 1.4
		}
	}

	// cold juice sells better in summer
	if t.Month() >= time.June && t.Month() <= time.August {
		multiplier *= 1.3
	}
	return multiplier
}

// nextArrival draws the wait until the next order from an exponential
// distribution with the current hourly rate.
func nextArrival(rng *rand.Rand, ordersPerHour float64, now time.Time) time.Duration {
	rate := ordersPerHour * demandMultiplier(now)
	if rate <= 0 {
		return time.Hour
	}
	hours := rng.ExpFloat64() / rate
	return time.Duration(hours * float64(time.Hour)).Round(time.Second)
}
