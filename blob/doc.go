// Package blob implements the OSMPBF blob framing protocol and the decode
// of framed blobs into typed blocks.
//
// A PBF stream is a sequence of (4-byte big-endian length, BlobHeader,
// Blob) records. The Framer walks that sequence, yielding one opaque,
// possibly-compressed RawBlock at a time. The Decoder decompresses a
// RawBlock into its reusable buffer and decodes it into a Header,
// Primitive or Unknown block.
//
// Framer and Decoder are single-owner types with no internal locking. The
// intended parallel shape is one goroutine draining the Framer (the byte
// stream is ordered, not seekable in parallel) and a pool of workers, each
// holding its own long-lived Decoder so buffer allocations amortize:
//
//	framer := blob.NewFramer(file)
//	for raw, err := range framer.All() {
//	    if err != nil {
//	        return err
//	    }
//	    jobs <- raw // each worker owns a blob.Decoder
//	}
//
// Blocks are independent once framed; no output ordering is guaranteed
// beyond what the caller tracks. Views into a decoded block (string
// tables, dense arrays, Unknown data) stay valid only until the next
// Decode call on the same Decoder.
package blob
