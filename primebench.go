// Package primebench finds the primes in an integer range, sequentially or by
// splitting the range across parallel workers, and benchmarks one against the
// other.
//
// Example usage:
//
//	primes, err := primebench.FindPrimes(ctx, 2, 1000000, runtime.NumCPU())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := primebench.Benchmark(ctx, 2, 1000000, runtime.NumCPU())
//	if errors.Is(err, primebench.ErrResultMismatch) {
//	    log.Fatal("parallel search is broken")
//	}
//	report.WriteText(os.Stdout)
package primebench

import (
	"context"

	"github.com/bft-labs/primebench/internal/bench"
	"github.com/bft-labs/primebench/internal/domain"
	"github.com/bft-labs/primebench/internal/prime"
)

// Range is the half-open interval [Start, End).
type Range = domain.Range

// Report holds the timings of a benchmark run.
type Report = bench.Report

var (
	ErrInvalidWorkerCount = domain.ErrInvalidWorkerCount
	ErrWorkerFailure      = domain.ErrWorkerFailure
	ErrResultMismatch     = domain.ErrResultMismatch
	ErrInvalidRange       = domain.ErrInvalidRange
)

// IsPrime reports whether n is prime.
func IsPrime(n int64) bool {
	return prime.IsPrime(n)
}

// SequentialPrimes returns the primes in [start, end) using one goroutine.
func SequentialPrimes(start, end int64) ([]int64, error) {
	r, err := domain.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	return prime.Sequential(r), nil
}

// FindPrimes returns the primes in [start, end), splitting the range into
// chunks for workers goroutines. Results are in ascending order.
func FindPrimes(ctx context.Context, start, end int64, workers int) ([]int64, error) {
	r, err := domain.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	return bench.FindPrimes(ctx, nil, r, workers)
}

// Benchmark times the sequential and parallel searches over [start, end) and
// fails with ErrResultMismatch if they disagree.
func Benchmark(ctx context.Context, start, end int64, workers int) (Report, error) {
	r, err := domain.NewRange(start, end)
	if err != nil {
		return Report{}, err
	}
	return bench.NewRunner().Run(ctx, bench.Params{Range: r, Workers: workers})
}
