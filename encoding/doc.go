// Package encoding decodes the delta-coded sequences inside OSMPBF
// primitive blocks.
//
// Three decoders live here:
//
//   - DeltaValues turns any delta-coded integer slice (way refs, relation
//     member ids) back into absolute values.
//   - DenseNodeReader unpacks the columnar DenseNodes encoding, composing
//     per-column delta accumulators with the zero-terminated key/value
//     index runs.
//   - Tags and DenseTags resolve key/value index pairs against a block's
//     string table, lazily and with each side failing independently.
//
// All decoders are lazy iter.Seq sequences: abandoning iteration costs
// nothing, and tag strings are only materialized for pairs actually
// consumed. Slices yielded by the dense reader alias the decoded block's
// buffers and are invalidated by the next decode on the same blob.Decoder.
package encoding
