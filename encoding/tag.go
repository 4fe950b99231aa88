package encoding

import (
	"iter"
	"unicode/utf8"

	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/pbf"
)

// Tag is one resolved key/value pair. The two sides resolve independently:
// a bad key never suppresses a valid paired value, and vice versa. Check
// KeyErr and ValueErr before using the corresponding string.
type Tag struct {
	Key   string
	Value string

	KeyErr   error
	ValueErr error
}

// Tags resolves parallel key/value index slices (as found on ways,
// relations and non-dense nodes) against the block's string table.
//
// Resolution is lazy: strings are looked up and validated only for pairs
// the caller actually consumes, and only when consumed. The sequence is as
// long as the shorter of the two index slices.
func Tags(table *pbf.StringTable, keys, vals []uint32) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for i, key := range keys {
			if i >= len(vals) {
				return
			}

			if !yield(resolvePair(table, int64(key), int64(vals[i]))) {
				return
			}
		}
	}
}

// DenseTags resolves the packed interleaved key/value index slice of a
// dense node (DenseNode.KeyValueIndices) against the block's string table.
//
// A trailing index without a partner is ignored, as protobuf parsers do
// with truncated pairs.
func DenseTags(table *pbf.StringTable, keyVals []int32) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for i := 0; i+1 < len(keyVals); i += 2 {
			if !yield(resolvePair(table, int64(keyVals[i]), int64(keyVals[i+1]))) {
				return
			}
		}
	}
}

func resolvePair(table *pbf.StringTable, keyIdx, valIdx int64) Tag {
	tag := Tag{}
	tag.Key, tag.KeyErr = resolveString(table, keyIdx)
	tag.Value, tag.ValueErr = resolveString(table, valIdx)

	return tag
}

// resolveString bounds-checks idx against the table and validates the
// referenced bytes as UTF-8. Indices are untrusted input; both failure
// modes are LogicErrors scoped to this one string.
func resolveString(table *pbf.StringTable, idx int64) (string, error) {
	if idx < 0 {
		return "", errs.Logicf("string table index %d is invalid", idx)
	}

	if idx >= int64(len(table.S)) {
		return "", errs.Logicf("string table index %d is out of bounds (%d)", idx, len(table.S))
	}

	raw := table.S[idx]
	if !utf8.Valid(raw) {
		return "", errs.Logicf("string at index %d is not valid UTF-8", idx)
	}

	return string(raw), nil
}
