package pbf

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireError converts a negative protowire result into its error.
func wireError(n int) error {
	return protowire.ParseError(n)
}

// skipField consumes an unknown or unexpected field and returns the rest of
// the buffer.
func skipField(b []byte, num protowire.Number, typ protowire.Type) ([]byte, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return nil, wireError(n)
	}

	return b[n:], nil
}

// appendVarints decodes a repeated varint-backed field into dst using conv
// for the scalar conversion. Both the packed encoding (a length-delimited
// run of varints) and the unpacked encoding (one varint per field
// occurrence) are accepted, as proto2 parsers must.
//
// Returns the extended slice and the remaining buffer.
func appendVarints[T any](dst []T, b []byte, typ protowire.Type, conv func(uint64) T) ([]T, []byte, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return dst, nil, wireError(n)
		}

		return append(dst, conv(v)), b[n:], nil

	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return dst, nil, wireError(n)
		}

		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return dst, nil, wireError(m)
			}
			dst = append(dst, conv(v))
			packed = packed[m:]
		}

		return dst, b[n:], nil

	default:
		return dst, nil, fmt.Errorf("unexpected wire type %d for repeated varint field", typ)
	}
}

func asSint64(v uint64) int64 {
	return protowire.DecodeZigZag(v)
}

func asSint32(v uint64) int32 {
	return int32(protowire.DecodeZigZag(v)) //nolint:gosec
}

func asInt32(v uint64) int32 {
	return int32(v) //nolint:gosec
}

func asUint32(v uint64) uint32 {
	return uint32(v) //nolint:gosec
}

func asBool(v uint64) bool {
	return v != 0
}
