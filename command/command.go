/*
Package command defines the typed representation of the four operations
the engine supports — GET, SET, PUSH, WATCH — and the isomorphism between
that representation and a RESP frame (resp.Type).

New decodes a request frame (via a resp.Consumer) into a Command; Encode
does the reverse for a client issuing requests. Every supported Command
round-trips: New(resp.NewConsumer(Encode(c))) == c.
*/
package command

import (
	"strings"

	"github.com/kvlink/redkit/resp"
)

// Command is the tagged sum of supported operations.
type Command interface {
	isCommand()
}

// Get retrieves the value stored at Key.
type Get struct {
	Key string
}

// Set stores Value at Key, replacing any prior value.
type Set struct {
	Key   string
	Value string
}

// Push appends Values to the list stored at ListName, creating it if
// absent.
type Push struct {
	ListName string
	Values   []string
}

// Watch registers interest in future mutations of Key, filtered by
// Operation (the filter is accepted but not yet enforced — see
// SPEC_FULL.md §9 item 2).
type Watch struct {
	Key       string
	Operation Operation
}

func (Get) isCommand()   {}
func (Set) isCommand()   {}
func (Push) isCommand()  {}
func (Watch) isCommand() {}

// Name is a supported command's uppercase wire name.
type Name string

const (
	NameGet   Name = "GET"
	NameSet   Name = "SET"
	NamePush  Name = "PUSH"
	NameWatch Name = "WATCH"
)

// New decodes a Command from a frame's fields, drawing the command name
// from the first field and the remaining fields per the table in
// SPEC_FULL.md §4.3.
func New(c *resp.Consumer) (Command, error) {
	name, err := c.NextString()
	if err != nil {
		return nil, &MissingField{Field: "command"}
	}

	switch Name(strings.ToUpper(name)) {
	case NameGet:
		key, err := nextStringField(c, "key")
		if err != nil {
			return nil, err
		}
		return Get{Key: key}, nil

	case NameSet:
		key, err := nextStringField(c, "key")
		if err != nil {
			return nil, err
		}
		value, err := nextStringField(c, "value")
		if err != nil {
			return nil, err
		}
		return Set{Key: key, Value: value}, nil

	case NamePush:
		listName, err := nextStringField(c, "list_name")
		if err != nil {
			return nil, err
		}
		var values []string
		for {
			v, err := c.NextString()
			if err == resp.ErrEmpty {
				break
			}
			if err != nil {
				return nil, &InvalidFrame{Cause: err, Field: "value"}
			}
			values = append(values, v)
		}
		return Push{ListName: listName, Values: values}, nil

	case NameWatch:
		key, err := nextStringField(c, "key")
		if err != nil {
			return nil, err
		}
		opInt, err := c.NextInteger()
		if err == resp.ErrEmpty {
			return nil, &MissingField{Field: "operation"}
		}
		if err != nil {
			return nil, &InvalidFrame{Cause: err, Field: "operation"}
		}
		return Watch{Key: key, Operation: ParseOperation(opInt)}, nil

	default:
		return nil, &UnSupportedCommand{Name: name}
	}
}

func nextStringField(c *resp.Consumer, field string) (string, error) {
	v, err := c.NextString()
	if err == resp.ErrEmpty {
		return "", &MissingField{Field: field}
	}
	if err != nil {
		return "", &InvalidFrame{Cause: err, Field: field}
	}
	return v, nil
}

// Encode builds the RESP request frame for c: an Array of BulkStrings
// whose first element is the uppercase command name. WATCH is the one
// exception: its operation is encoded as an Integer element.
func Encode(c Command) resp.Type {
	switch v := c.(type) {
	case Get:
		return bulkArray(string(NameGet), v.Key)
	case Set:
		return bulkArray(string(NameSet), v.Key, v.Value)
	case Push:
		fields := append([]string{string(NamePush), v.ListName}, v.Values...)
		return bulkArray(fields...)
	case Watch:
		return resp.NewArray(
			resp.MustBulkString([]byte(NameWatch)),
			resp.MustBulkString([]byte(v.Key)),
			resp.NewInteger(int64(v.Operation)),
		)
	default:
		return resp.NewNull()
	}
}

func bulkArray(fields ...string) resp.Type {
	items := make([]resp.Type, len(fields))
	for i, f := range fields {
		items[i] = resp.MustBulkString([]byte(f))
	}
	return resp.NewArray(items...)
}
