package prime

import (
	"math"
	"reflect"
	"testing"

	"github.com/bft-labs/primebench/internal/domain"
)

// sieve returns a table where composite[n] is true for every composite n < limit.
func sieve(limit int) []bool {
	composite := make([]bool, limit)
	for i := 2; i*i < limit; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j < limit; j += i {
			composite[j] = true
		}
	}
	return composite
}

func TestIsPrime_Scenarios(t *testing.T) {
	tests := []struct {
		n    int64
		want bool
	}{
		{2, true},
		{1, false},
		{97, true},
		{100, false},
		{3, true},
		{4, false},
		{9, false},
		{25, false},
		{49, false},
		{7919, true},
		{2147483647, true},
		{math.MaxInt64, false},
	}
	for _, tt := range tests {
		if got := IsPrime(tt.n); got != tt.want {
			t.Errorf("IsPrime(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestIsPrime_BelowTwo(t *testing.T) {
	for _, n := range []int64{1, 0, -1, -2, -7, -97, math.MinInt64} {
		if IsPrime(n) {
			t.Errorf("IsPrime(%d) = true, want false", n)
		}
	}
}

func TestIsPrime_MatchesSieveBelow10000(t *testing.T) {
	const limit = 10000
	composite := sieve(limit)
	count := 0
	for n := 2; n < limit; n++ {
		want := !composite[n]
		if want {
			count++
		}
		if got := IsPrime(int64(n)); got != want {
			t.Fatalf("IsPrime(%d) = %v, want %v", n, got, want)
		}
	}
	if count != 1229 {
		t.Fatalf("reference sieve found %d primes below 10000, want 1229", count)
	}
}

func TestSequential(t *testing.T) {
	tests := []struct {
		name string
		r    domain.Range
		want domain.PrimeResult
	}{
		{name: "2 to 20", r: domain.Range{Start: 2, End: 20}, want: domain.PrimeResult{2, 3, 5, 7, 11, 13, 17, 19}},
		{name: "empty", r: domain.Range{Start: 10, End: 10}, want: domain.PrimeResult{}},
		{name: "negative start", r: domain.Range{Start: -10, End: 4}, want: domain.PrimeResult{2, 3}},
		{name: "no primes", r: domain.Range{Start: 24, End: 29}, want: domain.PrimeResult{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sequential(tt.r)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sequential(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestFilterRange_CustomFilter(t *testing.T) {
	even := func(n int64) bool { return n%2 == 0 }
	got := FilterRange(domain.Range{Start: 1, End: 8}, even)
	want := domain.PrimeResult{2, 4, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterRange() = %v, want %v", got, want)
	}
}

func BenchmarkIsPrime(b *testing.B) {
	for i := 0; i < b.N; i++ {
		IsPrime(999983)
	}
}
