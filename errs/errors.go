// Package errs defines the error taxonomy shared by the osmpbf packages.
//
// Sentinel errors classify structural violations of the blob envelope and
// are matched with errors.Is. Typed errors (ParseError, DecompressionError,
// LogicError) carry the failure context and wrap their cause where one
// exists.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBlobHeader reports a blob header with an invalid size
	// (negative or >= 64 KiB).
	ErrInvalidBlobHeader = errors.New("invalid blob header size")

	// ErrInvalidBlobData reports blob data with an invalid size (negative or
	// >= 32 MiB), a missing or obsolete payload variant, or a compressed
	// payload without a declared uncompressed size.
	ErrInvalidBlobData = errors.New("invalid blob data")

	// ErrUnsupportedCompression is returned by Decompressor implementations
	// that do not support the requested compression method.
	ErrUnsupportedCompression = errors.New("unsupported compression method")
)

// ParseError reports a malformed protobuf message.
//
// It is fatal to the current block only, except when the blob header itself
// fails to decode, in which case the framer halts.
type ParseError struct {
	// Msg names the message type that failed to decode.
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecompressionError reports a failed blob payload decompression.
//
// Err is either ErrUnsupportedCompression or the codec's internal error.
type DecompressionError struct {
	// Method is the string form of the compression method that failed.
	Method string
	Err    error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompress %s blob data: %v", e.Method, e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// LogicError reports a violated data invariant, such as mismatched dense
// array lengths, an out-of-bounds string table index, invalid UTF-8, or a
// negative delta accumulation.
//
// Logic errors are scoped as narrowly as possible: a single tag side or a
// single dense node fails without aborting the surrounding iteration.
type LogicError struct {
	msg string
}

func (e *LogicError) Error() string {
	return e.msg
}

// Logicf creates a LogicError with a formatted message.
func Logicf(format string, args ...any) *LogicError {
	return &LogicError{msg: fmt.Sprintf(format, args...)}
}
