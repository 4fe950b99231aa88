// Package compress provides pluggable decompression for OSMPBF blob
// payloads.
//
// A blob body carries its block's bytes either raw or in exactly one
// compressed representation tagged by method. Decompressors write into an
// exact-sized output buffer: the blob envelope declares the uncompressed
// size, and producing more or fewer bytes than declared is an error.
//
// Two implementations ship with the package:
//
//   - DefaultDecompressor supports zlib only, the method every OSMPBF
//     writer is expected to produce.
//   - FullDecompressor additionally supports lz4, lzma and zstd.
//
// Embedders with other needs implement the Decompressor interface and hand
// it to blob.NewDecoder via WithDecompressor.
//
// # Zstandard backends
//
// The zstd method uses the pure Go klauspost/compress implementation by
// default. Building with the cgo_zstd tag switches to valyala/gozstd,
// which binds the reference C library.
package compress
