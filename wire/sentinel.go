// Package wire implements the TWS field codec: the null-terminated field
// encoding used on the wire, and the sentinel values the gateway uses to
// mean "absent" for integers and floats.
package wire

import "math"

// IntMax is the sentinel the gateway uses in place of an absent integer.
// It is the maximum value of a Java int (2^31 - 1).
const IntMax = math.MaxInt32

// DoubleMax is the sentinel the gateway uses in place of an absent float.
// It is the maximum value of a Java double, which is exactly math.MaxFloat64.
const DoubleMax = math.MaxFloat64

// IsIntMax reports whether v is the integer absent-sentinel.
func IsIntMax(v int) bool {
	return v == IntMax
}

// IsDoubleMax reports whether v is the float absent-sentinel.
func IsDoubleMax(v float64) bool {
	return v == DoubleMax
}
