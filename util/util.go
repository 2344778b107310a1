package util

import (
	"math"
	"time"
)

const HoursInADay float64 = 24

// FloatsEqualWithinTolerance compares two floats with the given tolerance.
func FloatsEqualWithinTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// SafeDivide returns a/b and true, or 0 and false when b is zero.
func SafeDivide(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

// ContainsStringInArray checks whether value is present in the array.
func ContainsStringInArray(array []string, value string) bool {
	for _, v := range array {
		if v == value {
			return true
		}
	}
	return false
}

// DaysBetween returns the fractional number of days from 'from' to 'to'.
// Negative when 'to' is before 'from'.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / HoursInADay
}
