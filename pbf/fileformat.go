package pbf

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// BlobHeader describes the blob that follows it in the stream: its type tag
// and the size of its body in bytes.
type BlobHeader struct {
	// Type is the block type tag, usually "OSMHeader" or "OSMData".
	Type string

	// IndexData is opaque per-blob metadata some writers emit for seeking.
	IndexData []byte

	// Datasize is the size of the following blob body in bytes.
	Datasize int32
}

// Compression identifies which payload variant a Blob carries.
type Compression uint8

const (
	// CompressionNone marks a raw, uncompressed payload.
	CompressionNone Compression = iota
	// CompressionZlib marks a zlib/deflate compressed payload.
	CompressionZlib
	// CompressionLzma marks an LZMA compressed payload.
	CompressionLzma
	// CompressionBzip2 marks the obsolete bzip2 payload variant. It was
	// removed from the format in 2010 and is rejected by the block decoder.
	CompressionBzip2
	// CompressionLz4 marks an LZ4 block compressed payload.
	CompressionLz4
	// CompressionZstd marks a Zstandard compressed payload.
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLzma:
		return "lzma"
	case CompressionBzip2:
		return "bzip2"
	case CompressionLz4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Blob is one framed unit carrying exactly one block's bytes, either raw or
// in exactly one compressed representation.
//
// The schema models the payload as a oneof; here it is flattened into the
// (Compression, Data) pair of the variant present in the message. HasData
// distinguishes an absent payload from an empty one.
type Blob struct {
	// RawSize is the declared uncompressed payload size. Nil when the
	// writer did not declare one.
	RawSize *int32

	// Compression tags which payload variant Data holds.
	Compression Compression

	// Data is the payload bytes of the variant that was present.
	Data []byte

	// HasData reports whether any payload variant was present.
	HasData bool
}

func (blob *Blob) setData(c Compression, data []byte) {
	blob.Compression = c
	blob.Data = data
	blob.HasData = true
}

// UnmarshalBlobHeader decodes a BlobHeader message.
func UnmarshalBlobHeader(b []byte) (*BlobHeader, error) {
	header := &BlobHeader{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.Type = string(v)
			b = b[n:]

		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.IndexData = v
			b = b[n:]

		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			header.Datasize = asInt32(v)
			b = b[n:]

		default:
			var err error
			if b, err = skipField(b, num, typ); err != nil {
				return nil, err
			}
		}
	}

	return header, nil
}

// UnmarshalBlob decodes a Blob message.
//
// When a message carries more than one payload variant, the last one wins,
// matching protobuf oneof merge semantics. The returned Data aliases b.
func UnmarshalBlob(b []byte) (*Blob, error) {
	blob := &Blob{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		if num == 2 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			size := asInt32(v)
			blob.RawSize = &size
			b = b[n:]

			continue
		}

		if typ == protowire.BytesType {
			var c Compression
			switch num {
			case 1:
				c = CompressionNone
			case 3:
				c = CompressionZlib
			case 4:
				c = CompressionLzma
			case 5:
				c = CompressionBzip2
			case 6:
				c = CompressionLz4
			case 7:
				c = CompressionZstd
			default:
				var err error
				if b, err = skipField(b, num, typ); err != nil {
					return nil, err
				}

				continue
			}

			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			blob.setData(c, v)
			b = b[n:]

			continue
		}

		var err error
		if b, err = skipField(b, num, typ); err != nil {
			return nil, err
		}
	}

	return blob, nil
}
