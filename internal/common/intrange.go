package common

import (
	"fmt"
	"math"
)

// IntRange is an inclusive range of integers. A nil bound is unbounded.
type IntRange struct {
	Lower *int
	Upper *int
}

// AnyInt is the unbounded range.
var AnyInt = IntRange{}

// Exactly returns a range containing only n.
func Exactly(n int) IntRange {
	return IntRange{Lower: &n, Upper: &n}
}

// AtLeast returns a range with only a lower bound.
func AtLeast(n int) IntRange {
	return IntRange{Lower: &n}
}

// Between returns a range with both bounds set.
func Between(lo, hi int) IntRange {
	return IntRange{Lower: &lo, Upper: &hi}
}

// LowerBound returns the lower bound, or math.MinInt when unbounded.
func (r IntRange) LowerBound() int {
	if r.Lower == nil {
		return math.MinInt
	}

	return *r.Lower
}

// UpperBound returns the upper bound, or math.MaxInt when unbounded.
func (r IntRange) UpperBound() int {
	if r.Upper == nil {
		return math.MaxInt
	}

	return *r.Upper
}

// Contains returns true if n is within the range.
func (r IntRange) Contains(n int) bool {
	return !r.IsTooSmall(n) && !r.IsTooLarge(n)
}

// IsTooSmall returns true if n is below the lower bound.
func (r IntRange) IsTooSmall(n int) bool {
	return n < r.LowerBound()
}

// IsTooLarge returns true if n is above the upper bound.
func (r IntRange) IsTooLarge(n int) bool {
	return n > r.UpperBound()
}

// String returns a human-readable representation such as "[1..3]" or "[0..*]".
func (r IntRange) String() string {
	lo, hi := "*", "*"
	if r.Lower != nil {
		lo = fmt.Sprint(*r.Lower)
	}

	if r.Upper != nil {
		hi = fmt.Sprint(*r.Upper)
	}

	return "[" + lo + ".." + hi + "]"
}
