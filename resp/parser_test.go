package resp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleString(t *testing.T) {
	v, n, err := Parse([]byte("+OK\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, v.Equal(MustSimpleString("OK")))
}

func TestParseError(t *testing.T) {
	v, n, err := Parse([]byte("-ERR bad\r\nTRAILING"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	want, _ := NewError("ERR bad")
	assert.True(t, v.Equal(want))
}

func TestParseInteger(t *testing.T) {
	v, n, err := Parse([]byte(":-42\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, v.Equal(NewInteger(-42)))
}

func TestParseBulkString(t *testing.T) {
	v, n, err := Parse([]byte("$5\r\nhello\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.True(t, v.Equal(MustBulkString([]byte("hello"))))
}

func TestParseBulkStringEmpty(t *testing.T) {
	v, n, err := Parse([]byte("$0\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, v.Equal(MustBulkString([]byte(""))))
}

func TestParseNullBulkString(t *testing.T) {
	v, n, err := Parse([]byte("$-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, Null, v.Kind)
}

func TestParseNullArray(t *testing.T) {
	v, n, err := Parse([]byte("*-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, Null, v.Kind)
}

func TestParseInvalidBulkLength(t *testing.T) {
	_, _, err := Parse([]byte("$-2\r\n"))
	var want *InvalidByteLength
	require.ErrorAs(t, err, &want)
	assert.Equal(t, -2, want.N)
}

func TestParseInvalidMarker(t *testing.T) {
	_, _, err := Parse([]byte("#foo\r\n"))
	var want *InvalidMarker
	require.ErrorAs(t, err, &want)
	assert.Equal(t, byte('#'), want.Byte)
}

func TestParseInvalidEncodingBadInteger(t *testing.T) {
	_, _, err := Parse([]byte(":abc\r\n"))
	var want *InvalidEncoding
	require.ErrorAs(t, err, &want)
}

func TestParseBulkStringBadTrailer(t *testing.T) {
	_, _, err := Parse([]byte("$3\r\nabcXX"))
	var want *InvalidEncoding
	require.ErrorAs(t, err, &want)
}

func TestParseArray(t *testing.T) {
	v, n, err := Parse([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 22, n)
	require.Equal(t, Array, v.Kind)
	require.Len(t, v.Elems, 2)
	assert.True(t, v.Elems[0].Equal(MustBulkString([]byte("GET"))))
	assert.True(t, v.Elems[1].Equal(MustBulkString([]byte("foo"))))
}

func TestParseNestedArray(t *testing.T) {
	v, n, err := Parse([]byte("*1\r\n*1\r\n+x\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	require.Equal(t, Array, v.Kind)
	require.Len(t, v.Elems, 1)
	assert.Equal(t, Array, v.Elems[0].Kind)
}

func TestParseEmptyBufferIsEndOfBytes(t *testing.T) {
	_, _, err := Parse(nil)
	assert.ErrorIs(t, err, ErrEndOfBytes)
}

func TestParseIncompleteLine(t *testing.T) {
	_, n, err := Parse([]byte("+OK"))
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 0, n)
}

func TestParseIncompleteBulkPayload(t *testing.T) {
	_, _, err := Parse([]byte("$5\r\nhel"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestParseIncompleteBulkTrailer(t *testing.T) {
	// Payload present in full, but the trailing CRLF hasn't arrived yet:
	// this must stay Incomplete, not InvalidEncoding (§9 item 5).
	_, _, err := Parse([]byte("$5\r\nhello"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestParseIncompleteArrayElement(t *testing.T) {
	// Sub-frame Incomplete/EndOfBytes collapses to Incomplete for the array.
	_, _, err := Parse([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfo"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestParseArrayPropagatesNonIncompleteSubError(t *testing.T) {
	_, _, err := Parse([]byte("*1\r\n#bad\r\n"))
	var want *InvalidMarker
	assert.ErrorAs(t, err, &want)
}

func TestIncompleteMonotonicity(t *testing.T) {
	full := []byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	for cut := 1; cut < len(full); cut++ {
		prefix := full[:cut]
		_, _, err := Parse(prefix)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrIncomplete) && !errors.Is(err, ErrEndOfBytes) {
			t.Fatalf("prefix of length %d produced non-incomplete error: %v", cut, err)
		}
	}
	v, n, err := Parse(full)
	require.NoError(t, err)
	assert.Equal(t, len(full), n)
	assert.Equal(t, Array, v.Kind)
}

func TestParseDeterminism(t *testing.T) {
	buf := []byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n")
	v1, n1, err1 := Parse(buf)
	v2, n2, err2 := Parse(buf)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, n1, n2)
	assert.True(t, v1.Equal(v2))
}
