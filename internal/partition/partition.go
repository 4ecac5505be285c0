// Package partition splits a range into contiguous chunks for parallel workers.
package partition

import (
	"fmt"

	"github.com/bft-labs/primebench/internal/domain"
)

// Split divides r into chunks for k workers.
//
// Each chunk holds floor(r.Len()/k) integers and the last chunk absorbs the
// remainder, so the chunks cover r exactly once with no gaps. When r has
// fewer than k integers the whole range becomes a single chunk. An empty
// range yields no chunks.
func Split(r domain.Range, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidWorkerCount, k)
	}
	if r.Empty() {
		return nil, nil
	}

	size := r.Len() / int64(k)
	if size == 0 {
		return []domain.Chunk{{Index: 0, Range: r}}, nil
	}

	chunks := make([]domain.Chunk, k)
	lo := r.Start
	for i := 0; i < k; i++ {
		hi := lo + size
		if i == k-1 {
			hi = r.End
		}
		chunks[i] = domain.Chunk{Index: i, Range: domain.Range{Start: lo, End: hi}}
		lo = hi
	}
	return chunks, nil
}
