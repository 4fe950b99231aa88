package blob

import (
	"github.com/geostream/osmpbf/pbf"
)

// Kind classifies a framed block by its header type tag.
type Kind uint8

const (
	// KindUnknown marks a block whose type tag matches no known value.
	// Unknown blocks are passed through undecoded; the format requires
	// readers to skip block types they do not understand.
	KindUnknown Kind = iota
	// KindHeader marks an "OSMHeader" block.
	KindHeader
	// KindPrimitive marks an "OSMData" block.
	KindPrimitive
)

// Block type tags defined by the format. Any other tag is KindUnknown.
const (
	TypeHeader    = "OSMHeader"
	TypePrimitive = "OSMData"
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return TypeHeader
	case KindPrimitive:
		return TypePrimitive
	default:
		return "Unknown"
	}
}

func kindOf(typeTag string) Kind {
	switch typeTag {
	case TypeHeader:
		return KindHeader
	case TypePrimitive:
		return KindPrimitive
	default:
		return KindUnknown
	}
}

// RawBlock is one framed, possibly compressed block. It is produced once by
// a Framer and consumed once by a Decoder; Data is owned by the RawBlock
// and independent of the source stream.
type RawBlock struct {
	Kind Kind
	Data []byte
}

// Block is a decoded block: a Header, Primitive or Unknown.
type Block interface {
	isBlock()
}

// Header is a decoded "OSMHeader" block.
type Header struct {
	*pbf.HeaderBlock
}

// Primitive is a decoded "OSMData" block.
type Primitive struct {
	*pbf.PrimitiveBlock
}

// Unknown is a block of an unrecognized type, passed through undecoded.
// Data aliases the decoder's reusable buffer and is invalidated by the
// next Decode call on the same Decoder.
type Unknown struct {
	Data []byte
}

func (Header) isBlock()    {}
func (Primitive) isBlock() {}
func (Unknown) isBlock()   {}
