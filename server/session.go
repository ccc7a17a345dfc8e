package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/kvlink/redkit/command"
	"github.com/kvlink/redkit/conn"
	"github.com/kvlink/redkit/resp"
	"github.com/kvlink/redkit/store"
)

// outboundQueueCapacity bounds the per-connection channel both the reader
// goroutine's replies and any store.Subscription forwarding goroutines
// feed into (SPEC_FULL.md §4.5).
const outboundQueueCapacity = 32

// session owns one accepted connection: a reader goroutine that decodes
// and dispatches requests, and a writer goroutine that drains a shared
// outbound channel. The two communicate only through out and done — no
// other mutable state crosses between them.
type session struct {
	raw net.Conn
	rh  *conn.ReadHalf
	wh  *conn.WriteHalf
	db  *store.DB
	srv *Server

	out  chan resp.Type
	done chan struct{}
	once sync.Once
}

func newSession(raw net.Conn, db *store.DB, srv *Server) *session {
	c := conn.New(raw)
	rh, wh := c.Split()
	return &session{
		raw:  raw,
		rh:   rh,
		wh:   wh,
		db:   db,
		srv:  srv,
		out:  make(chan resp.Type, outboundQueueCapacity),
		done: make(chan struct{}),
	}
}

// close stops the session's writer goroutine and subscription forwarders
// and closes the socket. Safe to call more than once or concurrently.
func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.raw.Close()
	})
}

// run drives the session until the peer disconnects, a protocol error
// ends the read loop, or ctx is cancelled (server shutdown).
func (s *session) run(ctx context.Context) {
	defer s.close()

	go s.writeLoop()

	go func() {
		select {
		case <-ctx.Done():
			s.close()
		case <-s.done:
		}
	}()

	for {
		if s.srv.ReadTimeout > 0 {
			if err := s.raw.SetReadDeadline(time.Now().Add(s.srv.ReadTimeout)); err != nil {
				return
			}
		}

		frame, err := s.rh.Recv()
		if err != nil {
			return
		}

		reply := s.dispatch(frame)

		select {
		case s.out <- reply:
		case <-s.done:
			return
		}
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case t := <-s.out:
			if s.srv.WriteTimeout > 0 {
				s.raw.SetWriteDeadline(time.Now().Add(s.srv.WriteTimeout))
			}
			if _, err := s.wh.Send(t); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// dispatch decodes frame into a Command and executes it against the
// database, recovering from a panicking handler the way a single bad
// request shouldn't take the whole connection down.
func (s *session) dispatch(frame resp.Type) (reply resp.Type) {
	defer func() {
		if r := recover(); r != nil {
			s.srv.ErrorLog.Printf("panic handling command: %v", r)
			reply, _ = resp.NewError(fmt.Sprintf("ERR internal error: %v", r))
		}
	}()

	cmd, err := command.New(resp.NewConsumer(frame))
	if err != nil {
		errType, _ := resp.NewError(fmt.Sprintf("ERR %v", err))
		return errType
	}

	switch c := cmd.(type) {
	case command.Get:
		return s.db.Get(c.Key)
	case command.Set:
		return s.db.Set(c.Key, []byte(c.Value))
	case command.Push:
		return s.db.Push(c.ListName, c.Values)
	case command.Watch:
		return s.db.Watch(c.Key, c.Operation, s.out, s.done)
	default:
		errType, _ := resp.NewError(fmt.Sprintf("ERR unsupported command %T", cmd))
		return errType
	}
}
