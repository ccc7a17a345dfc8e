/*
Package server runs the database engine over TCP (or TLS): it accepts
connections, splits each one into a reader and a writer goroutine, and
dispatches decoded commands against a shared store.DB (SPEC_FULL.md §4.5).
*/
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvlink/redkit/store"
)

// Server holds network configuration and runtime state for accepting and
// serving connections. The zero value is not usable; construct with New.
type Server struct {
	Address   string
	TLSConfig *tls.Config

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxConnections int

	ErrorLog      *log.Logger
	ConnStateHook func(net.Conn, ConnState)

	db *store.DB

	listener    net.Listener
	activeConns map[*session]struct{}
	connCount   atomic.Int64
	inShutdown  atomic.Bool
	mu          sync.RWMutex
	onShutdown  []func()
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// ConnState tracks a connection's lifecycle for ConnStateHook notification.
type ConnState int

const (
	StateNew ConnState = iota
	StateActive
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// New returns a Server bound to address with production defaults, backed
// by a fresh, empty database.
func New(address string) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		Address:        address,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxConnections: 1000,
		ErrorLog:       log.New(log.Writer(), "[redkit] ", log.LstdFlags),
		db:             store.New(),
		activeConns:    make(map[*session]struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Listen opens the network listener. Serve calls it automatically if
// it hasn't been called yet; exposed separately so callers can bind the
// port before blocking in Serve.
func (s *Server) Listen() error {
	var err error
	if s.TLSConfig != nil {
		s.listener, err = tls.Listen("tcp", s.Address, s.TLSConfig)
	} else {
		s.listener, err = net.Listen("tcp", s.Address)
	}
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	s.ErrorLog.Printf("listening on %s", s.Address)
	return nil
}

// Serve accepts connections until the listener closes or Shutdown is
// called. Each connection runs in its own goroutine.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	defer s.listener.Close()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.inShutdown.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.ErrorLog.Printf("accept error: %v", err)
			continue
		}

		s.wg.Add(1)
		go func(netConn net.Conn) {
			defer s.wg.Done()

			n := s.connCount.Add(1)
			defer s.connCount.Add(-1)
			if s.MaxConnections > 0 && n > int64(s.MaxConnections) {
				netConn.Close()
				s.ErrorLog.Printf("connection limit reached, rejecting %s", netConn.RemoteAddr())
				return
			}

			s.serveConn(netConn)
		}(conn)
	}
}

func (s *Server) serveConn(netConn net.Conn) {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	sess := newSession(netConn, s.db, s)

	s.mu.Lock()
	s.activeConns[sess] = struct{}{}
	s.mu.Unlock()

	defer func() {
		sess.close()
		s.mu.Lock()
		delete(s.activeConns, sess)
		s.mu.Unlock()
	}()

	if s.ConnStateHook != nil {
		s.ConnStateHook(netConn, StateNew)
		s.ConnStateHook(netConn, StateActive)
	}

	sess.run(ctx)

	if s.ConnStateHook != nil {
		s.ConnStateHook(netConn, StateClosed)
	}
}

// Shutdown stops accepting new connections, closes every active
// connection, runs registered shutdown hooks, and waits (up to ctx's
// deadline) for all connection goroutines to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.cancel()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return err
		}
	}

	s.mu.RLock()
	for sess := range s.activeConns {
		sess.close()
	}
	s.mu.RUnlock()

	s.mu.Lock()
	for _, fn := range s.onShutdown {
		fn()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// OnShutdown registers f to run once during Shutdown, before connections
// finish draining.
func (s *Server) OnShutdown(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShutdown = append(s.onShutdown, f)
}

// GetActiveConnections reports the number of connections currently being
// served.
func (s *Server) GetActiveConnections() int64 {
	return s.connCount.Load()
}

// IsShutdown reports whether Shutdown has been called.
func (s *Server) IsShutdown() bool {
	return s.inShutdown.Load()
}
