// Package bench runs the sequential and parallel prime searches over the same
// range, times them, and checks that they agree.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/primebench/internal/domain"
	"github.com/bft-labs/primebench/internal/executor"
	"github.com/bft-labs/primebench/internal/partition"
	"github.com/bft-labs/primebench/internal/prime"
	"github.com/bft-labs/primebench/pkg/log"
)

// Publisher stores an encoded report somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Params are the inputs of one benchmark run.
type Params struct {
	Range   domain.Range
	Workers int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for progress output.
func WithLogger(l log.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithExecutor replaces the default executor.
func WithExecutor(e *executor.Executor) Option {
	return func(r *Runner) {
		r.exec = e
	}
}

// WithParallelFilter replaces the filter used by the parallel path only.
func WithParallelFilter(f prime.Filter) Option {
	return func(r *Runner) {
		r.parallelFilter = f
	}
}

// WithPublisher publishes the TOML report after every successful run.
func WithPublisher(p Publisher) Option {
	return func(r *Runner) {
		r.publisher = p
	}
}

// Runner is the benchmark driver.
type Runner struct {
	logger         log.Logger
	exec           *executor.Executor
	parallelFilter prime.Filter
	publisher      Publisher
	now            func() time.Time
}

// NewRunner creates a Runner with a default executor and no publisher.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:         log.NewNoopLogger(),
		parallelFilter: prime.IsPrime,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exec == nil {
		r.exec = executor.New(executor.WithLogger(r.logger))
	}
	return r
}

// Run times the sequential reference and the parallel executor over
// p.Range and returns a report once both agree on the set of primes.
func (r *Runner) Run(ctx context.Context, p Params) (Report, error) {
	chunks, err := partition.Split(p.Range, p.Workers)
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	r.logger.Info("running sequential search", log.String("range", p.Range.String()))
	start := r.now()
	seq := prime.Sequential(p.Range)
	seqDur := r.now().Sub(start)

	r.logger.Info("running parallel search",
		log.String("range", p.Range.String()),
		log.Int("workers", p.Workers),
		log.Int("chunks", len(chunks)),
	)
	start = r.now()
	par, err := r.exec.Run(ctx, chunks, r.parallelFilter)
	parDur := r.now().Sub(start)
	if err != nil {
		return Report{}, fmt.Errorf("parallel search: %w", err)
	}

	if err := CompareSets(seq, par); err != nil {
		r.logger.Error("result mismatch",
			log.Int("sequential", len(seq)),
			log.Int("parallel", len(par)),
		)
		return Report{}, err
	}

	rep := Report{
		Range:      p.Range,
		Workers:    p.Workers,
		Chunks:     len(chunks),
		Sequential: seqDur,
		Parallel:   parDur,
		Primes:     par,
		Finished:   r.now(),
	}
	r.logger.Info("benchmark finished",
		log.Int("primes", len(par)),
		log.Duration("sequential", seqDur),
		log.Duration("parallel", parDur),
		log.Float64("speedup", rep.Speedup()),
	)

	if r.publisher != nil {
		data, err := rep.MarshalTOML()
		if err != nil {
			return rep, fmt.Errorf("encode report: %w", err)
		}
		if err := r.publisher.Publish(ctx, data); err != nil {
			return rep, fmt.Errorf("publish report: %w", err)
		}
	}
	return rep, nil
}

// FindPrimes runs only the parallel path: split r for workers and filter the
// chunks with the given executor (a default one when nil).
func FindPrimes(ctx context.Context, e *executor.Executor, r domain.Range, workers int) (domain.PrimeResult, error) {
	chunks, err := partition.Split(r, workers)
	if err != nil {
		return nil, err
	}
	if e == nil {
		e = executor.New()
	}
	return e.Run(ctx, chunks, prime.IsPrime)
}
