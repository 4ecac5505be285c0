package primebench_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/primebench"
)

func ExampleFindPrimes() {
	primes, err := primebench.FindPrimes(context.Background(), 2, 20, 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(primes)
	// Output: [2 3 5 7 11 13 17 19]
}

func ExampleFindPrimes_invalidWorkers() {
	_, err := primebench.FindPrimes(context.Background(), 2, 20, 0)
	fmt.Println(errors.Is(err, primebench.ErrInvalidWorkerCount))
	// Output: true
}

func ExampleBenchmark() {
	report, err := primebench.Benchmark(context.Background(), 10, 10, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(report.Primes), report.Chunks)
	// Output: 0 0
}

func ExampleSequentialPrimes() {
	primes, _ := primebench.SequentialPrimes(90, 110)
	fmt.Println(primes, primebench.IsPrime(97), primebench.IsPrime(100))
	// Output: [97 101 103 107 109] true false
}
