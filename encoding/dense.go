package encoding

import (
	"iter"
	"math"

	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/pbf"
)

// DenseNode is one unpacked node from a DenseNodes section.
type DenseNode struct {
	ID int64

	// Lat and Lon are raw block-scaled coordinates. Use
	// osmpbf.NormalizeCoord to convert them to nanodegrees.
	Lat int64
	Lon int64

	// Info is the node's metadata, nil when the section carries no
	// DenseInfo. Timestamp, Changeset, UID and UserSid are already
	// delta-decoded to absolute values; a nil field means the
	// corresponding column is absent for this node.
	Info *pbf.Info

	// KeyValueIndices is this node's run of (key index, value index)
	// pairs into the block's string table, without the 0 terminator.
	// Empty for tagless nodes. The slice aliases the DenseNodes buffer
	// and must not outlive the decoded block.
	KeyValueIndices []int32
}

// denseAccumulators holds the running sums of the delta-coded columns.
type denseAccumulators struct {
	id        int64
	lat       int64
	lon       int64
	timestamp int64
	changeset int64
	uid       int32
	userSid   uint32
}

// DenseNodeReader unpacks the delta-coded parallel arrays of a DenseNodes
// section, yielding nodes in column order.
type DenseNodeReader struct {
	dense *pbf.DenseNodes
}

// NewDenseNodeReader creates a reader over dense.
//
// The id/lat/lon arrays must have equal lengths; a mismatch is structural
// corruption and fails the whole stream here, before any node is produced.
func NewDenseNodeReader(dense *pbf.DenseNodes) (*DenseNodeReader, error) {
	if len(dense.Lat) != len(dense.ID) || len(dense.Lon) != len(dense.ID) {
		return nil, errs.Logicf("dense node id/lat/lon counts differ: %d/%d/%d",
			len(dense.ID), len(dense.Lat), len(dense.Lon))
	}

	return &DenseNodeReader{dense: dense}, nil
}

// All returns a lazy sequence of the section's nodes.
//
// Each metadata column is independently optional: a short or absent column
// yields a nil Info field for the affected nodes, never a zero.
//
// The user_sid column is delta coded as signed but indexes the string
// table, so accumulation must stay non-negative; a violating delta fails
// only that node with a LogicError and iteration continues past it. The
// failed node consumes no key/value run, matching how a decoder must not
// trust anything else about a node it has rejected.
//
// Every call to All restarts decoding from the first node.
func (r *DenseNodeReader) All() iter.Seq2[DenseNode, error] {
	return func(yield func(DenseNode, error) bool) {
		var cur denseAccumulators
		kvCursor := 0

		info := r.dense.DenseInfo
		keysVals := r.dense.KeysVals

		for i, idDelta := range r.dense.ID {
			cur.id += idDelta
			cur.lat += r.dense.Lat[i]
			cur.lon += r.dense.Lon[i]

			var nodeInfo *pbf.Info
			if info != nil {
				var userSid *uint32
				if i < len(info.UserSid) {
					delta := info.UserSid[i]
					next := int64(cur.userSid) + int64(delta)
					if next < 0 || next > math.MaxUint32 {
						err := errs.Logicf("delta decoding user_sid results in a negative integer: %d%+d",
							cur.userSid, delta)
						if !yield(DenseNode{}, err) {
							return
						}

						continue
					}
					cur.userSid = uint32(next)
					userSid = &cur.userSid
				}

				nodeInfo = &pbf.Info{
					Version:   column(info.Version, i),
					Timestamp: deltaColumn(&cur.timestamp, info.Timestamp, i),
					Changeset: deltaColumn(&cur.changeset, info.Changeset, i),
					UID:       deltaColumn(&cur.uid, info.UID, i),
					UserSid:   userSid,
					Visible:   column(info.Visible, i),
				}
			}

			node := DenseNode{
				ID:              cur.id,
				Lat:             cur.lat,
				Lon:             cur.lon,
				Info:            nodeInfo,
				KeyValueIndices: nextKeyValueRun(keysVals, &kvCursor),
			}

			if !yield(node, nil) {
				return
			}
		}
	}
}

// column returns a copy of col[i], or nil when the column is too short.
func column[T any](col []T, i int) *T {
	if i >= len(col) {
		return nil
	}

	v := col[i]

	return &v
}

// deltaColumn advances acc by col[i] and returns the absolute value, or nil
// when the column is too short, leaving acc untouched.
func deltaColumn[T int32 | int64](acc *T, col []T, i int) *T {
	if i >= len(col) {
		return nil
	}

	*acc += col[i]
	v := *acc

	return &v
}

// nextKeyValueRun slices the next zero-terminated run of (key, value) index
// pairs out of keysVals, scanning for the sentinel at even offsets from the
// cursor and advancing past it. A run with no terminator extends to the end
// of the array.
func nextKeyValueRun(keysVals []int32, cursor *int) []int32 {
	if len(keysVals) == 0 || *cursor >= len(keysVals) {
		return nil
	}

	start := *cursor
	i := start
	for i < len(keysVals) && keysVals[i] != 0 {
		i += 2
	}

	if i >= len(keysVals) {
		*cursor = len(keysVals) + 1
		return keysVals[start:]
	}

	*cursor = i + 1

	return keysVals[start:i]
}
