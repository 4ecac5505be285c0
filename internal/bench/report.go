package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/primebench/internal/domain"
)

// Report holds the outcome of one benchmark run.
type Report struct {
	Range   domain.Range
	Workers int
	Chunks  int

	Sequential time.Duration
	Parallel   time.Duration

	// Primes is the parallel result, which has been checked against the
	// sequential reference.
	Primes domain.PrimeResult

	Finished time.Time
}

// Speedup is the sequential duration divided by the parallel duration.
func (r Report) Speedup() float64 {
	if r.Parallel <= 0 {
		return 0
	}
	return r.Sequential.Seconds() / r.Parallel.Seconds()
}

// WriteText prints the timings in seconds with two decimals, followed by a
// summary line.
func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Single-threaded duration: %.2f seconds\nMulti-threaded duration: %.2f seconds\nFound %s primes in %s with %d workers (%.2fx speedup)\n",
		r.Sequential.Seconds(),
		r.Parallel.Seconds(),
		humanize.Comma(int64(len(r.Primes))),
		r.Range,
		r.Workers,
		r.Speedup(),
	)
	return err
}

// reportDoc is the TOML layout of a published report.
type reportDoc struct {
	Start             int64     `toml:"start"`
	End               int64     `toml:"end"`
	Workers           int       `toml:"workers"`
	Chunks            int       `toml:"chunks"`
	Primes            int       `toml:"primes"`
	SequentialSeconds float64   `toml:"sequential_seconds"`
	ParallelSeconds   float64   `toml:"parallel_seconds"`
	Speedup           float64   `toml:"speedup"`
	Finished          time.Time `toml:"finished"`
}

// MarshalTOML encodes the report without the prime list.
func (r Report) MarshalTOML() ([]byte, error) {
	return toml.Marshal(reportDoc{
		Start:             r.Range.Start,
		End:               r.Range.End,
		Workers:           r.Workers,
		Chunks:            r.Chunks,
		Primes:            len(r.Primes),
		SequentialSeconds: r.Sequential.Seconds(),
		ParallelSeconds:   r.Parallel.Seconds(),
		Speedup:           r.Speedup(),
		Finished:          r.Finished.UTC(),
	})
}
