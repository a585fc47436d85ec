package xbin

import (
	"github.com/hupe1980/posehash/geom"
	"github.com/hupe1980/posehash/internal/parallel"
)

// pairSource yields the k-th (i, j) pair of a batch.
type pairSource func(k int) (i, j int)

func pairsOf(pairs [][2]int) pairSource {
	return func(k int) (int, int) { return pairs[k][0], pairs[k][1] }
}

func selectedPairsOf(i1, i2 []int) pairSource {
	return func(k int) (int, int) { return i1[k], i2[k] }
}

// KeysOfPairs returns, for each pair (i, j), the key of
// inverse(xs1[i]) * xs2[j].
func (h *Hash[F]) KeysOfPairs(pairs [][2]int, xs1, xs2 []geom.Xform[F]) ([]uint64, error) {
	return h.pairKeys(len(pairs), pairsOf(pairs), xs1, xs2, nil, nil)
}

// KeysOfSelectedPairs is KeysOfPairs with the pairs given as two parallel
// index slices.
func (h *Hash[F]) KeysOfSelectedPairs(i1, i2 []int, xs1, xs2 []geom.Xform[F]) ([]uint64, error) {
	if len(i1) != len(i2) {
		return nil, ErrLengthMismatch
	}
	return h.pairKeys(len(i1), selectedPairsOf(i1, i2), xs1, xs2, nil, nil)
}

// TaggedKeysOfPairs is KeysOfPairs with tags1[i] and tags2[j] packed into
// the top bits of each key (see TagKey). tags1 and tags2 run parallel to
// xs1 and xs2.
func (h *Hash[F]) TaggedKeysOfPairs(pairs [][2]int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[F]) ([]uint64, error) {
	if len(tags1) != len(xs1) || len(tags2) != len(xs2) {
		return nil, ErrLengthMismatch
	}
	return h.pairKeys(len(pairs), pairsOf(pairs), xs1, xs2, tags1, tags2)
}

// TaggedKeysOfSelectedPairs is TaggedKeysOfPairs with the pairs given as two
// parallel index slices.
func (h *Hash[F]) TaggedKeysOfSelectedPairs(i1, i2 []int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[F]) ([]uint64, error) {
	if len(i1) != len(i2) || len(tags1) != len(xs1) || len(tags2) != len(xs2) {
		return nil, ErrLengthMismatch
	}
	return h.pairKeys(len(i1), selectedPairsOf(i1, i2), xs1, xs2, tags1, tags2)
}

func (h *Hash[F]) pairKeys(n int, at pairSource, xs1, xs2 []geom.Xform[F], tags1, tags2 []uint8) ([]uint64, error) {
	keys := make([]uint64, n)
	err := parallel.For(n, func(lo, hi int) error {
		for k := lo; k < hi; k++ {
			i, j := at(k)
			if i < 0 || i >= len(xs1) || j < 0 || j >= len(xs2) {
				return &DomainError{Index: k, Err: ErrIndexOutOfRange}
			}

			key, err := h.Key(xs1[i].Inverse().Mul(xs2[j]))
			if err != nil {
				return &DomainError{Index: k, Err: err}
			}
			if tags1 != nil {
				if key, err = TagKey(key, tags1[i], tags2[j]); err != nil {
					return &DomainError{Index: k, Err: err}
				}
			}
			keys[k] = key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
