package command

import (
	"testing"

	"github.com/kvlink/redkit/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, frame resp.Type) Command {
	t.Helper()
	cmd, err := New(resp.NewConsumer(frame))
	require.NoError(t, err)
	return cmd
}

func TestCommandRoundTrip(t *testing.T) {
	cases := []Command{
		Get{Key: "foo"},
		Set{Key: "foo", Value: "bar"},
		Push{ListName: "l", Values: []string{"a", "b", "c"}},
		Push{ListName: "l", Values: nil},
		Watch{Key: "k", Operation: All},
		Watch{Key: "k", Operation: Update},
	}
	for _, want := range cases {
		frame := Encode(want)
		got := decode(t, frame)
		assert.Equal(t, want, got)
	}
}

func TestNewUnknownCommand(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("NOPE")))
	_, err := New(resp.NewConsumer(frame))
	var want *UnSupportedCommand
	require.ErrorAs(t, err, &want)
	assert.Equal(t, "NOPE", want.Name)
}

func TestNewIsCaseInsensitive(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("get")), resp.MustBulkString([]byte("foo")))
	cmd := decode(t, frame)
	assert.Equal(t, Get{Key: "foo"}, cmd)
}

func TestNewGetMissingKey(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("GET")))
	_, err := New(resp.NewConsumer(frame))
	var want *MissingField
	require.ErrorAs(t, err, &want)
	assert.Equal(t, "key", want.Field)
}

func TestNewSetMissingValue(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("SET")), resp.MustBulkString([]byte("foo")))
	_, err := New(resp.NewConsumer(frame))
	var want *MissingField
	require.ErrorAs(t, err, &want)
	assert.Equal(t, "value", want.Field)
}

func TestNewWatchMissingOperation(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("WATCH")), resp.MustBulkString([]byte("k")))
	_, err := New(resp.NewConsumer(frame))
	var want *MissingField
	require.ErrorAs(t, err, &want)
	assert.Equal(t, "operation", want.Field)
}

func TestNewWatchInvalidOperationType(t *testing.T) {
	frame := resp.NewArray(
		resp.MustBulkString([]byte("WATCH")),
		resp.MustBulkString([]byte("k")),
		resp.NewNull(),
	)
	_, err := New(resp.NewConsumer(frame))
	var want *InvalidFrame
	require.ErrorAs(t, err, &want)
	assert.Equal(t, "operation", want.Field)
}

func TestParseOperationUnknownCodeIsAll(t *testing.T) {
	assert.Equal(t, All, ParseOperation(0))
	assert.Equal(t, All, ParseOperation(99))
	assert.Equal(t, Update, ParseOperation(2))
}

func TestPushAllowsEmptyValues(t *testing.T) {
	frame := resp.NewArray(resp.MustBulkString([]byte("PUSH")), resp.MustBulkString([]byte("l")))
	cmd := decode(t, frame)
	assert.Equal(t, Push{ListName: "l", Values: nil}, cmd)
}

func TestEncodeUsesUppercaseNameAndBulkStrings(t *testing.T) {
	frame := Encode(Get{Key: "foo"})
	require.Equal(t, resp.Array, frame.Kind)
	require.Len(t, frame.Elems, 2)
	assert.Equal(t, resp.BulkString, frame.Elems[0].Kind)
	assert.Equal(t, "GET", string(frame.Elems[0].Bulk))
}
