package domain

import (
	"errors"
	"fmt"
)

// Error conditions returned by primebench. Check them with errors.Is.
var (
	// ErrInvalidWorkerCount is returned when a non-positive worker count reaches
	// the partitioner.
	ErrInvalidWorkerCount = errors.New("primebench: invalid worker count")

	// ErrWorkerFailure is returned when a chunk computation terminates abnormally.
	ErrWorkerFailure = errors.New("primebench: worker failure")

	// ErrResultMismatch is returned when the sequential and parallel paths find
	// different sets of primes.
	ErrResultMismatch = errors.New("primebench: sequential and parallel results do not match")

	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("primebench: invalid range")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("primebench: invalid configuration")

	// ErrBlobNotFound is returned when a requested blob does not exist.
	ErrBlobNotFound = errors.New("primebench: blob not found")
)

// WorkerError records which chunk failed and why.
type WorkerError struct {
	Chunk Chunk
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker for chunk %d %s failed: %v", e.Chunk.Index, e.Chunk.Range, e.Err)
}

// Is matches ErrWorkerFailure.
func (e *WorkerError) Is(target error) bool {
	return target == ErrWorkerFailure
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// MismatchError describes how the parallel result differs from the
// sequential reference.
type MismatchError struct {
	// Missing counts primes the sequential path found that the parallel path did not.
	Missing int
	// Extra counts primes the parallel path found that the sequential path did not.
	Extra int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %d missing from parallel result, %d unexpected", ErrResultMismatch, e.Missing, e.Extra)
}

// Is matches ErrResultMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrResultMismatch
}
