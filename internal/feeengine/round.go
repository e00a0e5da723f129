package feeengine

import "math"

// RoundHalfUp is the single rounding primitive for all money math in the
// core. No other package may round a float to an int64 directly; every fee
// calculation funnels its final step through this function so rounding
// behavior is defined once and tested once.
func RoundHalfUp(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return -int64(math.Floor(-x + 0.5))
}
