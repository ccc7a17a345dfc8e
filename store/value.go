package store

import "github.com/kvlink/redkit/resp"

// Kind distinguishes the two shapes a stored Value can take.
type Kind int

const (
	KindString Kind = iota
	KindList
)

// Value is what the database stores under a key: either a String (from
// SET) or a List (from PUSH). Nested lists are representable but never
// produced by the supported commands (SPEC_FULL.md §3).
type Value struct {
	Kind Kind
	Str  []byte
	List []Value
}

// NewString wraps raw bytes as a stored String, copying so later mutation
// of the caller's slice can't corrupt the database.
func NewString(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Kind: KindString, Str: cp}
}

// ToType converts a stored Value to its RESP reply representation. String
// values become SimpleString (not BulkString — this is the deliberate,
// spec-mandated coercion SPEC_FULL.md's Open Question 6 keeps); List
// values become an Array of SimpleString, silently dropping any non-string
// children, since only flat lists of strings are ever constructed here.
func (v Value) ToType() resp.Type {
	switch v.Kind {
	case KindString:
		return resp.SanitizedSimpleString(string(v.Str))
	case KindList:
		items := make([]resp.Type, 0, len(v.List))
		for _, child := range v.List {
			if child.Kind != KindString {
				continue
			}
			items = append(items, resp.SanitizedSimpleString(string(child.Str)))
		}
		return resp.NewArray(items...)
	default:
		return resp.NewNull()
	}
}
