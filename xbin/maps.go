package xbin

import "github.com/hupe1980/posehash/geom"

// Getter is a batched key/value lookup. Missing keys yield def.
type Getter interface {
	Get(keys []uint64, def float64) []float64
}

// Setter is a batched key/value assignment.
type Setter interface {
	Set(keys []uint64, values []float64) error
}

// MapOfPairs looks up the key of every pair (see KeysOfPairs) in m.
func (h *Hash[F]) MapOfPairs(m Getter, pairs [][2]int, xs1, xs2 []geom.Xform[F], def float64) ([]float64, error) {
	keys, err := h.KeysOfPairs(pairs, xs1, xs2)
	if err != nil {
		return nil, err
	}
	return m.Get(keys, def), nil
}

// MapOfSelectedPairs looks up the key of every pair (see
// KeysOfSelectedPairs) in m.
func (h *Hash[F]) MapOfSelectedPairs(m Getter, i1, i2 []int, xs1, xs2 []geom.Xform[F], def float64) ([]float64, error) {
	keys, err := h.KeysOfSelectedPairs(i1, i2, xs1, xs2)
	if err != nil {
		return nil, err
	}
	return m.Get(keys, def), nil
}

// TaggedMapOfPairs looks up the tagged key of every pair (see
// TaggedKeysOfPairs) in m.
func (h *Hash[F]) TaggedMapOfPairs(m Getter, pairs [][2]int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[F], def float64) ([]float64, error) {
	keys, err := h.TaggedKeysOfPairs(pairs, tags1, tags2, xs1, xs2)
	if err != nil {
		return nil, err
	}
	return m.Get(keys, def), nil
}

// TaggedMapOfSelectedPairs looks up the tagged key of every pair (see
// TaggedKeysOfSelectedPairs) in m.
func (h *Hash[F]) TaggedMapOfSelectedPairs(m Getter, i1, i2 []int, tags1, tags2 []uint8, xs1, xs2 []geom.Xform[F], def float64) ([]float64, error) {
	keys, err := h.TaggedKeysOfSelectedPairs(i1, i2, tags1, tags2, xs1, xs2)
	if err != nil {
		return nil, err
	}
	return m.Get(keys, def), nil
}
