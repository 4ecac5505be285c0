// Package domain contains the value types and error conditions shared by the
// partitioner, the executor, and the benchmark driver.
//
// # Entities
//
//   - [Range]: a half-open integer interval [Start, End)
//   - [Chunk]: a contiguous piece of a Range, tagged with its position
//   - [PrimeResult]: an ordered list of primes
//
// The package has no infrastructure dependencies.
package domain
