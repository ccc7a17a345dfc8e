package resp

import (
	"bytes"
	"strconv"
)

// Serialize is the total inverse of Parse: every Type, regardless of how
// it was constructed, has exactly one wire encoding.
func Serialize(t Type) []byte {
	var buf bytes.Buffer
	buf.Grow(32)
	writeType(&buf, t)
	return buf.Bytes()
}

func writeType(buf *bytes.Buffer, t Type) {
	switch t.Kind {
	case SimpleString:
		buf.WriteByte('+')
		buf.WriteString(t.Str)
		buf.WriteString("\r\n")
	case Error:
		buf.WriteByte('-')
		buf.WriteString(t.Str)
		buf.WriteString("\r\n")
	case Integer:
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(t.Int, 10))
		buf.WriteString("\r\n")
	case Null:
		buf.WriteString("$-1\r\n")
	case BulkString:
		buf.WriteByte('$')
		buf.WriteString(strconv.Itoa(len(t.Bulk)))
		buf.WriteString("\r\n")
		buf.Write(t.Bulk)
		buf.WriteString("\r\n")
	case Array:
		buf.WriteByte('*')
		buf.WriteString(strconv.Itoa(len(t.Elems)))
		buf.WriteString("\r\n")
		for _, item := range t.Elems {
			writeType(buf, item)
		}
	}
}
