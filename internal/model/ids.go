package model

import "strings"

// IsNumericID reports whether s is a non-empty run of ASCII digits.
func IsNumericID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CompareIDs is the total order used for sibling and root ordering.
//
// Numeric ids compare by value with arbitrary precision (time-based ids for
// inserted tags exceed int64 comfortably in principle). Non-numeric ids sort
// after every numeric id, lexicographically among themselves. Equal values
// ("7" vs "007") fall back to the raw string.
func CompareIDs(a, b string) int {
	na, nb := IsNumericID(a), IsNumericID(b)
	switch {
	case na && !nb:
		return -1
	case !na && nb:
		return 1
	case !na && !nb:
		return strings.Compare(a, b)
	}
	if c := compareDigits(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// NumericLess reports whether a and b are both numeric and a < b by value.
func NumericLess(a, b string) bool {
	if !IsNumericID(a) || !IsNumericID(b) {
		return false
	}
	return compareDigits(a, b) < 0
}

func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
