// Package contractid issues short numeric contract identifiers.
//
// Identifiers are drawn uniformly at random inside the fixed-width range and
// checked against a caller-supplied taken-set. The set is a best-effort,
// possibly-stale snapshot: the store remains the sole authority on
// uniqueness, so callers must still treat a uniqueness violation on the
// subsequent write as a recoverable condition.
package contractid

import (
	"math/rand/v2"
	"time"
)

// Digits is the default identifier width.
const Digits = 6

// maxDraws bounds the random search before the time-derived fallback.
const maxDraws = 100

// Issue returns a candidate identifier with exactly the requested number of
// decimal digits, avoiding values in taken. After maxDraws collisions it
// falls back to a time-derived value folded into the valid range; that
// fallback is not guaranteed unique.
func Issue(taken map[int64]struct{}, digits int) int64 {
	if digits <= 0 {
		digits = Digits
	}
	min := pow10(digits - 1)
	max := pow10(digits) - 1
	span := max - min + 1
	for i := 0; i < maxDraws; i++ {
		n := min + rand.Int64N(span)
		if _, ok := taken[n]; !ok {
			return n
		}
	}
	n := min + time.Now().UnixMilli()%span
	if n > max {
		n = max
	}
	return n
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
