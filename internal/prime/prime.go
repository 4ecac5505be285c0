// Package prime implements the trial-division primality filter and the
// sequential reference search.
package prime

import "github.com/bft-labs/primebench/internal/domain"

// Filter decides whether a single integer belongs in the result.
type Filter func(n int64) bool

// IsPrime reports whether n is prime by trial division with every i from 2
// through floor(sqrt(n)).
func IsPrime(n int64) bool {
	if n <= 1 {
		return false
	}
	// i <= n/i is i*i <= n without overflow.
	for i := int64(2); i <= n/i; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// FilterRange applies f to every integer of r in ascending order and returns
// the ones it accepts.
func FilterRange(r domain.Range, f Filter) domain.PrimeResult {
	out := domain.PrimeResult{}
	for n := r.Start; n < r.End; n++ {
		if f(n) {
			out = append(out, n)
		}
	}
	return out
}

// Sequential returns the primes of r using a single control flow.
func Sequential(r domain.Range) domain.PrimeResult {
	return FilterRange(r, IsPrime)
}
