package blob

import (
	"fmt"

	"github.com/geostream/osmpbf/compress"
	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/internal/pool"
	"github.com/geostream/osmpbf/pbf"
)

// Decoder decodes RawBlocks into typed blocks, decompressing payloads into
// an internal reusable buffer.
//
// The buffer is owned by the Decoder, not the caller: each Decode call
// fully overwrites it and invalidates every view returned by the previous
// call. A Decoder is single-threaded-use with no internal locking; workers
// decoding blocks in parallel each hold their own long-lived Decoder to
// amortize allocations.
type Decoder struct {
	buf          *pool.ByteBuffer
	decompressor compress.Decompressor
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithDecompressor replaces the default zlib-only decompressor. Use
// compress.NewFullDecompressor for streams carrying lz4, lzma or zstd
// blobs, or a custom implementation for anything else.
func WithDecompressor(d compress.Decompressor) Option {
	return func(dec *Decoder) {
		dec.decompressor = d
	}
}

// NewDecoder creates a Decoder. Without options it decompresses zlib
// payloads only, refusing other methods.
func NewDecoder(opts ...Option) *Decoder {
	dec := &Decoder{
		buf:          pool.NewByteBuffer(pool.BlockBufferDefaultSize),
		decompressor: compress.NewDefaultDecompressor(),
	}

	for _, opt := range opts {
		opt(dec)
	}

	return dec
}

// Decode decodes one RawBlock into a Header, Primitive or Unknown block.
//
// The block's body is decoded as a blob envelope, its single payload
// variant is copied or decompressed into the reusable buffer, and the
// buffer is decoded according to the RawBlock's kind. Failures are scoped
// to this block: the Decoder remains usable afterwards.
func (d *Decoder) Decode(raw *RawBlock) (Block, error) {
	envelope, err := pbf.UnmarshalBlob(raw.Data)
	if err != nil {
		return nil, &errs.ParseError{Msg: "Blob", Err: err}
	}

	if err := d.fillBuffer(envelope); err != nil {
		return nil, err
	}

	switch raw.Kind {
	case KindHeader:
		header, err := pbf.UnmarshalHeaderBlock(d.buf.Bytes())
		if err != nil {
			return nil, &errs.ParseError{Msg: "HeaderBlock", Err: err}
		}

		return Header{header}, nil

	case KindPrimitive:
		block, err := pbf.UnmarshalPrimitiveBlock(d.buf.Bytes())
		if err != nil {
			return nil, &errs.ParseError{Msg: "PrimitiveBlock", Err: err}
		}

		return Primitive{block}, nil

	default:
		return Unknown{Data: d.buf.Bytes()}, nil
	}
}

// fillBuffer replaces the buffer contents with the envelope's uncompressed
// payload. The buffer is resized, never appended to, so nothing from a
// previous block can survive.
func (d *Decoder) fillBuffer(envelope *pbf.Blob) error {
	if !envelope.HasData {
		return fmt.Errorf("%w: no payload variant set", errs.ErrInvalidBlobData)
	}

	if envelope.Compression == pbf.CompressionBzip2 {
		return fmt.Errorf("%w: obsolete bzip2 compression", errs.ErrInvalidBlobData)
	}

	if envelope.RawSize != nil {
		size := *envelope.RawSize
		if size < 0 || size >= MaxBlobDataSize {
			return fmt.Errorf("%w: declared uncompressed size %d", errs.ErrInvalidBlobData, size)
		}
	}

	if envelope.Compression == pbf.CompressionNone {
		d.buf.Set(envelope.Data)
		return nil
	}

	// Compressed payloads are decompressed into an exact-sized buffer, so
	// the declared uncompressed size is required.
	if envelope.RawSize == nil {
		return fmt.Errorf("%w: missing raw_size for %s data", errs.ErrInvalidBlobData, envelope.Compression)
	}

	d.buf.Resize(int(*envelope.RawSize))

	if err := d.decompressor.Decompress(envelope.Compression, envelope.Data, d.buf.Bytes()); err != nil {
		return &errs.DecompressionError{Method: envelope.Compression.String(), Err: err}
	}

	return nil
}
