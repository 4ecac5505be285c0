package partition

import (
	"errors"
	"testing"

	"github.com/bft-labs/primebench/internal/domain"
)

// checkCover fails the test unless chunks cover r exactly once, in order.
func checkCover(t *testing.T, r domain.Range, k int, chunks []domain.Chunk) {
	t.Helper()

	seen := make(map[int64]int)
	next := r.Start
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("chunk %d has Index %d", i, c.Index)
		}
		if c.Empty() {
			t.Fatalf("chunk %d %v is empty", i, c.Range)
		}
		if c.Start != next {
			t.Fatalf("chunk %d starts at %d, want %d", i, c.Start, next)
		}
		for n := c.Start; n < c.End; n++ {
			seen[n]++
		}
		next = c.End
	}
	if next != r.End && !r.Empty() {
		t.Fatalf("chunks end at %d, want %d", next, r.End)
	}
	if int64(len(seen)) != r.Len() {
		t.Fatalf("chunks cover %d integers, want %d", len(seen), r.Len())
	}
	for n, count := range seen {
		if !r.Contains(n) {
			t.Fatalf("%d is outside %v", n, r)
		}
		if count != 1 {
			t.Fatalf("%d appears in %d chunks", n, count)
		}
	}
	if len(chunks) > k {
		t.Fatalf("got %d chunks for %d workers", len(chunks), k)
	}
}

func TestSplit_Cover(t *testing.T) {
	ranges := []domain.Range{
		{Start: 2, End: 20},
		{Start: 0, End: 1},
		{Start: 0, End: 7},
		{Start: -50, End: 50},
		{Start: 100, End: 1101},
		{Start: 3, End: 4},
	}
	for _, r := range ranges {
		for k := 1; k <= 16; k++ {
			chunks, err := Split(r, k)
			if err != nil {
				t.Fatalf("Split(%v, %d) error: %v", r, k, err)
			}
			checkCover(t, r, k, chunks)
		}
	}
}

func TestSplit_Sizes(t *testing.T) {
	tests := []struct {
		name  string
		r     domain.Range
		k     int
		sizes []int64
	}{
		{name: "even split", r: domain.Range{Start: 0, End: 12}, k: 4, sizes: []int64{3, 3, 3, 3}},
		{name: "last absorbs remainder", r: domain.Range{Start: 2, End: 20}, k: 4, sizes: []int64{4, 4, 4, 6}},
		{name: "remainder k-1", r: domain.Range{Start: 0, End: 11}, k: 4, sizes: []int64{2, 2, 2, 5}},
		{name: "fewer elements than workers", r: domain.Range{Start: 0, End: 3}, k: 8, sizes: []int64{3}},
		{name: "single worker", r: domain.Range{Start: 5, End: 15}, k: 1, sizes: []int64{10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.r, tt.k)
			if err != nil {
				t.Fatalf("Split() error: %v", err)
			}
			if len(chunks) != len(tt.sizes) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.sizes))
			}
			for i, c := range chunks {
				if c.Len() != tt.sizes[i] {
					t.Errorf("chunk %d size = %d, want %d", i, c.Len(), tt.sizes[i])
				}
			}
		})
	}
}

func TestSplit_EmptyRange(t *testing.T) {
	for _, k := range []int{1, 4, 32} {
		chunks, err := Split(domain.Range{Start: 10, End: 10}, k)
		if err != nil {
			t.Fatalf("Split(empty, %d) error: %v", k, err)
		}
		if len(chunks) != 0 {
			t.Errorf("Split(empty, %d) = %d chunks, want 0", k, len(chunks))
		}
	}
}

func TestSplit_InvalidWorkerCount(t *testing.T) {
	for _, k := range []int{0, -1, -16} {
		_, err := Split(domain.Range{Start: 2, End: 20}, k)
		if !errors.Is(err, domain.ErrInvalidWorkerCount) {
			t.Errorf("Split(k=%d) error = %v, want ErrInvalidWorkerCount", k, err)
		}
	}
}
