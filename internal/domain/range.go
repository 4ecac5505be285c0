package domain

import (
	"fmt"
	"math"
)

// Range is the half-open interval [Start, End). Start <= End always holds for
// values built with NewRange.
type Range struct {
	Start int64
	End   int64
}

// NewRange returns the range [start, end). The length must fit in an int64.
func NewRange(start, end int64) (Range, error) {
	if start > end {
		return Range{}, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
	}
	if end-start < 0 {
		return Range{}, fmt.Errorf("%w: [%d, %d) has more than %d elements", ErrInvalidRange, start, end, int64(math.MaxInt64))
	}
	return Range{Start: start, End: end}, nil
}

// Len returns the number of integers in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Empty reports whether the range contains no integers.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether n lies in the range.
func (r Range) Contains(n int64) bool {
	return n >= r.Start && n < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Chunk is a contiguous sub-range handed to a single worker. Index is the
// chunk's position among its siblings and fixes the order in which results
// are concatenated.
type Chunk struct {
	Index int
	Range
}

// PrimeResult is an ordered sequence of primes.
type PrimeResult []int64
