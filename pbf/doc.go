// Package pbf defines the OSMPBF wire messages as plain Go structs and
// decodes them from raw bytes.
//
// The message shapes follow the versioned fileformat/osmformat schemas
// published by the OpenStreetMap project. Decoding is built directly on
// google.golang.org/protobuf/encoding/protowire instead of generated code,
// so the module carries no build-time schema compilation step.
//
// Proto2 semantics apply: unknown fields are skipped, the last occurrence
// of a scalar field wins, and repeated integer fields accept both packed
// and unpacked encodings. Optional fields whose presence is meaningful to
// callers (Blob.RawSize, the Info columns) are modeled as pointers.
//
// The unmarshalers in this package are the "generic protobuf decode"
// collaborator used by the blob package: given a byte slice they return a
// typed struct or a decode error, nothing more.
package pbf
