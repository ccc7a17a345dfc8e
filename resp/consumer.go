package resp

import "strconv"

// Consumer extracts successive typed fields from a single Type. If the
// wrapped value is an Array, each call pops its next element; if it's a
// scalar, the first call consumes it and every later call reports
// ErrEmpty. This is how command.New walks a request frame without caring
// whether the caller sent "GET key" as two bulk strings or, degenerately,
// a lone scalar.
type Consumer struct {
	value    Type
	index    int
	consumed bool
}

// NewConsumer wraps t for field-by-field extraction.
func NewConsumer(t Type) *Consumer {
	return &Consumer{value: t}
}

func (c *Consumer) nextRaw() (Type, error) {
	if c.value.Kind == Array {
		if c.index >= len(c.value.Elems) {
			return Type{}, ErrEmpty
		}
		v := c.value.Elems[c.index]
		c.index++
		return v, nil
	}
	if c.consumed {
		return Type{}, ErrEmpty
	}
	c.consumed = true
	return c.value, nil
}

// NextType returns the next field verbatim, performing no conversion.
func (c *Consumer) NextType() (Type, error) {
	return c.nextRaw()
}

// NextString returns the next field converted to a string.
func (c *Consumer) NextString() (string, error) {
	v, err := c.nextRaw()
	if err != nil {
		return "", err
	}
	return toString(v)
}

// NextInteger returns the next field converted to an int64.
func (c *Consumer) NextInteger() (int64, error) {
	v, err := c.nextRaw()
	if err != nil {
		return 0, err
	}
	return toInteger(v)
}

// NextBytes returns the next field converted to a byte slice.
func (c *Consumer) NextBytes() ([]byte, error) {
	v, err := c.nextRaw()
	if err != nil {
		return nil, err
	}
	return toBytes(v)
}

func toString(t Type) (string, error) {
	switch t.Kind {
	case SimpleString, Error:
		return t.Str, nil
	case BulkString:
		return string(t.Bulk), nil
	case Integer:
		return strconv.FormatInt(t.Int, 10), nil
	case Array:
		if len(t.Elems) == 0 {
			return "", &ConversionFailed{From: Array, To: "String"}
		}
		return toString(t.Elems[0])
	default:
		return "", &ConversionFailed{From: t.Kind, To: "String"}
	}
}

func toInteger(t Type) (int64, error) {
	switch t.Kind {
	case Integer:
		return t.Int, nil
	case SimpleString:
		i, err := strconv.ParseInt(t.Str, 10, 64)
		if err != nil {
			return 0, &ConversionFailed{From: t.Kind, To: "Integer"}
		}
		return i, nil
	case BulkString:
		i, err := strconv.ParseInt(string(t.Bulk), 10, 64)
		if err != nil {
			return 0, &ConversionFailed{From: t.Kind, To: "Integer"}
		}
		return i, nil
	case Array:
		if len(t.Elems) == 0 {
			return 0, &ConversionFailed{From: Array, To: "Integer"}
		}
		return toInteger(t.Elems[0])
	default:
		return 0, &ConversionFailed{From: t.Kind, To: "Integer"}
	}
}

func toBytes(t Type) ([]byte, error) {
	switch t.Kind {
	case BulkString:
		return t.Bulk, nil
	case SimpleString, Error:
		return []byte(t.Str), nil
	case Array:
		if len(t.Elems) == 0 {
			return nil, &ConversionFailed{From: Array, To: "Bytes"}
		}
		return toBytes(t.Elems[0])
	default:
		return nil, &ConversionFailed{From: t.Kind, To: "Bytes"}
	}
}
