// Package osmpbf decodes the OSM PBF binary interchange format as a
// forward-only stream of typed blocks.
//
// A PBF file is a sequence of framed, possibly compressed blobs. The blob
// package reads and decodes them; the encoding package unpacks the
// delta-coded sequences inside primitive blocks and resolves tags against
// the block string table; the pbf package holds the typed wire messages.
// This package adds the glue for the common sequential case plus the pure
// scaling functions that convert block-relative integers to real units.
//
// # Basic usage
//
//	file, err := os.Open("extract.osm.pbf")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	for block, err := range osmpbf.Blocks(bufio.NewReader(file)) {
//	    if err != nil {
//	        return err
//	    }
//	    primitive, ok := block.(blob.Primitive)
//	    if !ok {
//	        continue
//	    }
//	    for _, group := range primitive.Groups {
//	        if group.Dense == nil {
//	            continue
//	        }
//	        reader, err := encoding.NewDenseNodeReader(group.Dense)
//	        if err != nil {
//	            return err
//	        }
//	        for node, err := range reader.All() {
//	            if err != nil {
//	                continue // one corrupt node, stream goes on
//	            }
//	            lat, lon := osmpbf.NormalizeCoord(node.Lat, node.Lon, primitive.PrimitiveBlock)
//	            _ = lat
//	            _ = lon
//	        }
//	    }
//	}
//
// Decoded blocks borrow from the decoder's reusable buffer, so consume
// each block fully before moving to the next. For parallel decoding, drain
// a blob.Framer on one goroutine and give each worker its own
// blob.Decoder; see the blob package documentation.
//
// The library never interprets what it decodes: no spatial indexing,
// relation resolution or projection. Only typed records are surfaced.
package osmpbf

import (
	"io"
	"iter"

	"github.com/geostream/osmpbf/blob"
	"github.com/geostream/osmpbf/pbf"
)

// Blocks frames and decodes r sequentially with a single internal Decoder,
// yielding each decoded block in stream order.
//
// Iteration ends silently on clean end-of-stream. A frame-level error ends
// the sequence after being yielded; a block-level error (parse or
// decompression failure) is yielded for that block and framing continues.
// Each yielded block borrows the internal decoder's buffer and is
// invalidated when iteration advances.
func Blocks(r io.Reader, opts ...blob.Option) iter.Seq2[blob.Block, error] {
	return func(yield func(blob.Block, error) bool) {
		framer := blob.NewFramer(r)
		decoder := blob.NewDecoder(opts...)

		for raw, err := range framer.All() {
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(decoder.Decode(raw)) {
				return
			}
		}
	}
}

// NormalizeCoord converts a node's raw block-scaled coordinates to
// nanodegrees:
//
//	normalized = raw * granularity + offset
//
// applied to latitude and longitude independently.
func NormalizeCoord(lat, lon int64, block *pbf.PrimitiveBlock) (int64, int64) {
	return lat*int64(block.Granularity) + block.LatOffset,
		lon*int64(block.Granularity) + block.LonOffset
}

// NormalizeTimestamp converts a raw metadata timestamp to milliseconds
// since the epoch using the block's date granularity.
func NormalizeTimestamp(timestamp int64, block *pbf.PrimitiveBlock) int64 {
	return timestamp * int64(block.DateGranularity)
}
