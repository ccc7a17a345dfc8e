/*
Package conn splits a net.Conn into an independent ReadHalf and WriteHalf,
so a reader goroutine and a writer goroutine can each own one half without
sharing mutable state (SPEC_FULL.md §4.2).

ReadHalf is the resumable half of the design: a single net.Conn.Read call
returns at most one OS buffer's worth of bytes, which may contain an
incomplete RESP frame, several frames, or a frame split mid-array across
two reads. ReadHalf.Recv retains whatever resp.Parse couldn't use and
folds it into the next read, so frames of any size and any read-boundary
alignment still assemble (SPEC_FULL.md's resolution of §9 item 1).
*/
package conn

import (
	"io"
	"net"

	"github.com/kvlink/redkit/resp"
)

// readChunkSize is how many bytes ReadHalf asks the kernel for per Read.
const readChunkSize = 512

// Conn owns a TCP (or TLS) socket until Split hands its two halves to
// independent callers.
type Conn struct {
	raw net.Conn
}

// New wraps an already-accepted or already-dialed connection.
func New(raw net.Conn) *Conn {
	return &Conn{raw: raw}
}

// Split returns a ReadHalf and WriteHalf that share the underlying socket
// but no buffer or other mutable state, so they're safe to drive from two
// different goroutines concurrently.
func (c *Conn) Split() (*ReadHalf, *WriteHalf) {
	return &ReadHalf{raw: c.raw}, &WriteHalf{raw: c.raw}
}

// Raw returns the underlying net.Conn, for deadline and address access
// that doesn't belong to either half specifically.
func (c *Conn) Raw() net.Conn {
	return c.raw
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// ReadHalf reads and decodes frames from the socket. Not safe for
// concurrent use by more than one goroutine.
type ReadHalf struct {
	raw     net.Conn
	pending []byte
}

// Recv returns the next fully-parsed frame, reading as many 512-byte
// chunks as necessary. It returns io.EOF (or the underlying error) once
// the peer has closed the connection with no further frame to deliver.
func (r *ReadHalf) Recv() (resp.Type, error) {
	for {
		if len(r.pending) > 0 {
			t, n, err := resp.Parse(r.pending)
			if err == nil {
				r.pending = r.pending[n:]
				return t, nil
			}
			if err != resp.ErrIncomplete && err != resp.ErrEndOfBytes {
				return resp.Type{}, err
			}
		}

		chunk := make([]byte, readChunkSize)
		n, err := r.raw.Read(chunk)
		if n > 0 {
			r.pending = append(r.pending, chunk[:n]...)
		}
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return resp.Type{}, err
		}
		if err != nil && err != io.EOF {
			return resp.Type{}, err
		}
	}
}

// WriteHalf serializes and writes frames to the socket. Not safe for
// concurrent use by more than one goroutine.
type WriteHalf struct {
	raw net.Conn
}

// Send serializes t and writes it to the socket in a single Write call,
// returning the number of bytes written.
func (w *WriteHalf) Send(t resp.Type) (int, error) {
	return w.raw.Write(resp.Serialize(t))
}
