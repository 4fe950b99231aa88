package compress

import (
	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/pbf"
)

// Decompressor decompresses one blob payload of a declared method into an
// exact-sized output buffer.
//
// Implementations must be safe for concurrent use or document otherwise;
// both implementations in this package are stateless and safe to share.
type Decompressor interface {
	// Decompress decompresses src into dst, filling dst completely.
	//
	// dst is pre-sized to the payload's declared uncompressed size.
	// Implementations return errs.ErrUnsupportedCompression for methods
	// they do not handle, and their internal error for corrupt input or a
	// payload whose actual size differs from len(dst).
	Decompress(method pbf.Compression, src, dst []byte) error
}

// DefaultDecompressor supports only zlib, the universally-expected OSMPBF
// compression method.
type DefaultDecompressor struct{}

var _ Decompressor = DefaultDecompressor{}

// NewDefaultDecompressor creates a zlib-only decompressor.
func NewDefaultDecompressor() DefaultDecompressor {
	return DefaultDecompressor{}
}

// Decompress decompresses a zlib payload into dst. All other methods are
// rejected with errs.ErrUnsupportedCompression.
func (DefaultDecompressor) Decompress(method pbf.Compression, src, dst []byte) error {
	if method == pbf.CompressionZlib {
		return zlibDecompress(src, dst)
	}

	return errs.ErrUnsupportedCompression
}

// FullDecompressor supports every compression method the current OSMPBF
// format admits: zlib, lz4, lzma and zstd.
type FullDecompressor struct{}

var _ Decompressor = FullDecompressor{}

// NewFullDecompressor creates a decompressor covering zlib, lz4, lzma and
// zstd.
func NewFullDecompressor() FullDecompressor {
	return FullDecompressor{}
}

// Decompress decompresses src into dst using the codec for method.
func (FullDecompressor) Decompress(method pbf.Compression, src, dst []byte) error {
	switch method {
	case pbf.CompressionZlib:
		return zlibDecompress(src, dst)
	case pbf.CompressionLz4:
		return lz4Decompress(src, dst)
	case pbf.CompressionLzma:
		return lzmaDecompress(src, dst)
	case pbf.CompressionZstd:
		return zstdDecompress(src, dst)
	default:
		return errs.ErrUnsupportedCompression
	}
}
