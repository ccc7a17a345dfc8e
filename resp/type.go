/*
Package resp implements the Redis Serialization Protocol: a tagged-sum
wire value (Type), a resumable byte-stream parser, a total serializer, and
a single-consumption typed field reader (Consumer) used by the command
package to decode requests.

RESP is line-oriented and CRLF-terminated. Each value is prefixed with one
of five marker bytes:

  - `+<text>\r\n`            SimpleString
  - `-<text>\r\n`            Error
  - `:<signed-int>\r\n`      Integer
  - `$<n>\r\n<n bytes>\r\n`  BulkString (n == -1 means Null)
  - `*<m>\r\n<m values>`     Array (m == -1 means Null)
*/
package resp

import "bytes"

// Kind identifies which field of a Type holds the value.
type Kind int

const (
	SimpleString Kind = iota
	Error
	Integer
	BulkString
	Null
	Array
)

func (k Kind) String() string {
	switch k {
	case SimpleString:
		return "SimpleString"
	case Error:
		return "Error"
	case Integer:
		return "Integer"
	case BulkString:
		return "BulkString"
	case Null:
		return "Null"
	case Array:
		return "Array"
	default:
		return "Unknown"
	}
}

// maxBulkLength is the largest length prefix a BulkString may declare.
const maxBulkLength = 512 * 1024 * 1024

// Type is a single RESP frame. Kind determines which other field is
// meaningful: Str for SimpleString/Error, Int for Integer, Bulk for
// BulkString, Elems for Array. Null carries no payload.
type Type struct {
	Kind  Kind
	Str   string
	Int   int64
	Bulk  []byte
	Elems []Type
}

// NewSimpleString returns a SimpleString, rejecting embedded CR/LF per the
// wire format's single-line invariant.
func NewSimpleString(s string) (Type, error) {
	if containsCRLF(s) {
		return Type{}, &InvalidEncoding{Reason: "simple string contains CR or LF"}
	}
	return Type{Kind: SimpleString, Str: s}, nil
}

// MustSimpleString is NewSimpleString for call sites constructing literal,
// known-clean text (e.g. "Ok" replies); it panics on CR/LF.
func MustSimpleString(s string) Type {
	t, err := NewSimpleString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// SanitizedSimpleString builds a SimpleString from arbitrary stored bytes,
// stripping any embedded CR/LF instead of failing. Used on the reply path
// when a binary-safe stored String is echoed back as a SimpleString (see
// store.Value.ToType and SPEC_FULL.md's "BulkString->SimpleString coercion"
// decision) so that a "total" database read never errors on stored content
// the client itself is responsible for never having sent uncleanly.
func SanitizedSimpleString(s string) Type {
	if !containsCRLF(s) {
		return Type{Kind: SimpleString, Str: s}
	}
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			continue
		}
		clean = append(clean, s[i])
	}
	return Type{Kind: SimpleString, Str: string(clean)}
}

// NewError returns an Error frame, subject to the same CR/LF restriction
// as SimpleString.
func NewError(s string) (Type, error) {
	if containsCRLF(s) {
		return Type{}, &InvalidEncoding{Reason: "error text contains CR or LF"}
	}
	return Type{Kind: Error, Str: s}, nil
}

// NewInteger returns an Integer frame.
func NewInteger(i int64) Type {
	return Type{Kind: Integer, Int: i}
}

// NewNull returns the RESP null value.
func NewNull() Type {
	return Type{Kind: Null}
}

// NewBulkString returns a BulkString frame, rejecting payloads over the
// 512MiB wire limit.
func NewBulkString(b []byte) (Type, error) {
	if len(b) > maxBulkLength {
		return Type{}, &InvalidEncoding{Reason: "bulk string exceeds 512MiB"}
	}
	return Type{Kind: BulkString, Bulk: b}, nil
}

// MustBulkString is NewBulkString for call sites with payloads already
// known to be within bounds.
func MustBulkString(b []byte) Type {
	t, err := NewBulkString(b)
	if err != nil {
		panic(err)
	}
	return t
}

// NewArray returns an Array frame wrapping the given elements in order.
func NewArray(items ...Type) Type {
	return Type{Kind: Array, Elems: items}
}

// Equal reports structural equality, per §3 invariant (c).
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case SimpleString, Error:
		return t.Str == o.Str
	case Integer:
		return t.Int == o.Int
	case BulkString:
		return bytes.Equal(t.Bulk, o.Bulk)
	case Null:
		return true
	case Array:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsCRLF(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			return true
		}
	}
	return false
}
