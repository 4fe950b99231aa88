package encoding

import "iter"

// Integer constrains the element types that appear in delta-coded OSMPBF
// sequences.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

// DeltaValues returns a lazy sequence of the absolute values encoded by the
// delta-coded slice deltas: output[i] = deltas[0] + ... + deltas[i], with a
// zero origin.
//
// Way refs and relation member ids are stored this way:
//
//	for ref := range encoding.DeltaValues(way.Refs) {
//	    // ref is an absolute node id
//	}
//
// There are no error cases. Each call to the returned sequence restarts the
// accumulation from zero.
func DeltaValues[T Integer](deltas []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		var acc T
		for _, delta := range deltas {
			acc += delta
			if !yield(acc) {
				return
			}
		}
	}
}
