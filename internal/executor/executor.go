// Package executor fans chunks out to independent workers and gathers their
// results in chunk order.
package executor

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/primebench/internal/domain"
	"github.com/bft-labs/primebench/internal/prime"
	"github.com/bft-labs/primebench/pkg/log"
)

// Option configures an Executor.
type Option func(*Executor)

// WithParallelism bounds the number of chunks processed at once.
// Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithTimeout sets a deadline on the fan-in wait. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithLogger sets the logger used for per-chunk debug output.
func WithLogger(l log.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// Executor applies a filter to every element of every chunk using one
// goroutine per chunk.
type Executor struct {
	parallelism int
	timeout     time.Duration
	logger      log.Logger
}

// New creates an Executor. By default parallelism equals GOMAXPROCS and there
// is no deadline.
func New(opts ...Option) *Executor {
	e := &Executor{
		parallelism: runtime.GOMAXPROCS(0),
		logger:      log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parallelism returns the maximum number of concurrently running workers.
func (e *Executor) Parallelism() int {
	return e.parallelism
}

// Run filters every chunk and returns the concatenation of the per-chunk
// results, chunk 0 first. Workers own their chunk and their result slot, and
// share nothing else. Run blocks until every dispatched worker has returned.
//
// A panicking worker fails the whole run with a *domain.WorkerError and
// cancels the remaining workers. No partial result is returned.
func (e *Executor) Run(ctx context.Context, chunks []domain.Chunk, filter prime.Filter) (domain.PrimeResult, error) {
	if len(chunks) == 0 {
		return domain.PrimeResult{}, nil
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	results := make([]domain.PrimeResult, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, c := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = &domain.WorkerError{Chunk: c, Err: fmt.Errorf("panic: %v", p)}
				}
			}()

			start := time.Now()
			res, err := scan(gctx, c.Range, filter)
			if err != nil {
				return err
			}
			results[i] = res
			e.logger.Debug("chunk done",
				log.Int("chunk", c.Index),
				log.String("range", c.Range.String()),
				log.Int("found", len(res)),
				log.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("wait for workers: %w", err)
	}
	// A deadline that fired during the last filter calls still fails the run.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("wait for workers: %w", err)
	}

	total := 0
	for _, res := range results {
		total += len(res)
	}
	out := make(domain.PrimeResult, 0, total)
	for _, res := range results {
		out = append(out, res...)
	}
	return out, nil
}

// scan is prime.FilterRange with a cancellation check before every element.
// The check is a non-blocking receive on ctx.Done, so a worker stops within
// one filter call of the deadline.
func scan(ctx context.Context, r domain.Range, filter prime.Filter) (domain.PrimeResult, error) {
	done := ctx.Done()
	out := domain.PrimeResult{}
	for n := r.Start; n < r.End; n++ {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}
		if filter(n) {
			out = append(out, n)
		}
	}
	return out, nil
}
