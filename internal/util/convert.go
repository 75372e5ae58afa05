// Package util provides shared utility functions used across markbar.
package util

import "strings"

// IntToString converts an integer to its string representation without
// using the fmt package. This is useful in hot paths where allocation
// from fmt.Sprintf should be avoided.
func IntToString(n int) string {
	if n == 0 {
		return "0"
	}
	// Negate in uint so math.MinInt has a magnitude.
	u := uint(n)
	if n < 0 {
		u = -u
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if n < 0 {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Clamp limits n to the closed range [lo, hi].
// When hi < lo the lower bound wins.
func Clamp(n, lo, hi int) int {
	if n > hi {
		n = hi
	}
	if n < lo {
		n = lo
	}
	return n
}

// FormatFraction renders a/b, for example "30/100".
func FormatFraction(a, b int) string {
	return IntToString(a) + "/" + IntToString(b)
}

// FormatInts renders a list of integers separated by sep.
func FormatInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = IntToString(v)
	}
	return strings.Join(parts, sep)
}
