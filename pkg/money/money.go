// Package money converts between major currency units used on the wire and
// minor units stored in the database. All conversions go through here so
// rounding stays consistent across handlers.
package money

import "math"

// ToMinor converts a major-unit amount (e.g. 499.90) to minor units (49990),
// rounding half away from zero.
func ToMinor(major float64) int64 {
	return int64(math.Round(major * 100))
}

// ToMajor converts minor units back to a major-unit amount.
func ToMajor(minor int64) float64 {
	return float64(minor) / 100
}
