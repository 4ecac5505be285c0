package bench

import "github.com/bft-labs/primebench/internal/domain"

// CompareSets returns a *domain.MismatchError unless want and got contain
// the same set of integers. Order and duplicates are ignored.
func CompareSets(want, got domain.PrimeResult) error {
	wantSet := make(map[int64]struct{}, len(want))
	for _, n := range want {
		wantSet[n] = struct{}{}
	}
	gotSet := make(map[int64]struct{}, len(got))
	for _, n := range got {
		gotSet[n] = struct{}{}
	}

	var missing, extra int
	for n := range wantSet {
		if _, ok := gotSet[n]; !ok {
			missing++
		}
	}
	for n := range gotSet {
		if _, ok := wantSet[n]; !ok {
			extra++
		}
	}
	if missing != 0 || extra != 0 {
		return &domain.MismatchError{Missing: missing, Extra: extra}
	}
	return nil
}
