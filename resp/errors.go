package resp

import (
	"errors"
	"fmt"
)

// ErrIncomplete means the buffer holds a partial frame: the caller should
// keep the bytes it has, read more, and call Parse again. No bytes are
// considered consumed.
var ErrIncomplete = errors.New("resp: incomplete frame")

// ErrEndOfBytes means Parse was called with an empty buffer.
var ErrEndOfBytes = errors.New("resp: end of bytes")

// ErrEmpty is returned by Consumer once its wrapped value has no more
// fields to extract.
var ErrEmpty = errors.New("resp: consumer exhausted")

// InvalidMarker means the first byte of a frame wasn't one of
// '+', '-', ':', '$', '*'.
type InvalidMarker struct {
	Byte byte
}

func (e *InvalidMarker) Error() string {
	return fmt.Sprintf("resp: invalid marker %q", e.Byte)
}

// InvalidByteLength means a declared BulkString or Array length was less
// than -1.
type InvalidByteLength struct {
	N int
}

func (e *InvalidByteLength) Error() string {
	return fmt.Sprintf("resp: invalid length %d", e.N)
}

// InvalidEncoding means a length or integer field wasn't valid decimal
// text, or a length-prefixed payload wasn't followed by the expected CRLF.
type InvalidEncoding struct {
	Reason string
}

func (e *InvalidEncoding) Error() string {
	return "resp: invalid encoding: " + e.Reason
}

// ConversionFailed means a Consumer couldn't convert a frame of Kind From
// into the requested field type To.
type ConversionFailed struct {
	From Kind
	To   string
}

func (e *ConversionFailed) Error() string {
	return fmt.Sprintf("resp: cannot convert %s to %s", e.From, e.To)
}
