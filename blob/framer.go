package blob

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"github.com/geostream/osmpbf/errs"
	"github.com/geostream/osmpbf/pbf"
)

// Size ceilings of the framing protocol, both exclusive. Breaching either
// is a hard error, never silent truncation.
const (
	// MaxBlobHeaderSize bounds the length-prefixed BlobHeader message.
	MaxBlobHeaderSize = 64 * 1024
	// MaxBlobDataSize bounds a blob body.
	MaxBlobDataSize = 32 * 1024 * 1024
)

// Framer reads a PBF stream one framed blob at a time.
//
// A Framer is a single-owner, forward-only reader: it cannot seek, restart
// or share its underlying stream. After any error it permanently stops —
// resuming at a misaligned offset after a corrupt length prefix or a
// truncated body would frame garbage, so resynchronization is not
// attempted.
type Framer struct {
	r      io.Reader
	err    error
	lenBuf [4]byte
}

// NewFramer creates a Framer over r. The Framer does not buffer beyond the
// current record; wrap r in a bufio.Reader when reading from a file.
func NewFramer(r io.Reader) *Framer {
	return &Framer{r: r}
}

// Next reads the next framed blob.
//
// It returns io.EOF exactly when the stream ends cleanly on a record
// boundary, that is, when the length-prefix read hits end-of-input having
// consumed zero bytes. A partial read anywhere is an I/O error, not a
// stop. Every error is sticky: once Next has failed, all later calls
// return the same error.
func (f *Framer) Next() (*RawBlock, error) {
	if f.err != nil {
		return nil, f.err
	}

	raw, err := f.next()
	if err != nil {
		f.err = err
		return nil, err
	}

	return raw, nil
}

func (f *Framer) next() (*RawBlock, error) {
	if _, err := io.ReadFull(f.r, f.lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("read blob header size: %w", err)
	}

	headerSize := int32(binary.BigEndian.Uint32(f.lenBuf[:])) //nolint:gosec
	if headerSize < 0 || headerSize >= MaxBlobHeaderSize {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBlobHeader, headerSize)
	}

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(f.r, headerBuf); err != nil {
		return nil, fmt.Errorf("read blob header: %w", err)
	}

	header, err := pbf.UnmarshalBlobHeader(headerBuf)
	if err != nil {
		return nil, &errs.ParseError{Msg: "BlobHeader", Err: err}
	}

	if header.Datasize < 0 || header.Datasize >= MaxBlobDataSize {
		return nil, fmt.Errorf("%w: declared size %d", errs.ErrInvalidBlobData, header.Datasize)
	}

	data := make([]byte, header.Datasize)
	if _, err := io.ReadFull(f.r, data); err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	return &RawBlock{Kind: kindOf(header.Type), Data: data}, nil
}

// All returns a lazy, finite, non-restartable sequence of the stream's
// framed blobs. Iteration ends silently on clean end-of-stream; any other
// condition yields the error as the final element.
//
// Abandoning iteration simply stops draining the stream; no cleanup is
// required.
func (f *Framer) All() iter.Seq2[*RawBlock, error] {
	return func(yield func(*RawBlock, error) bool) {
		for {
			raw, err := f.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(raw, nil) {
				return
			}
		}
	}
}
