package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const writeTimeout = 5 * time.Second

// Session wraps one accepted TCP connection. Reads happen on the connection's
// own goroutine; Send may be called from the game loop concurrently with
// reads, so writes take a mutex and a deadline.
type Session struct {
	id   string
	conn net.Conn

	mu     sync.Mutex
	closed atomic.Bool
}

func NewSession(conn net.Conn) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) RemoteAddr() string { return s.conn.RemoteAddr().String() }

// Send writes one complete frame. A slow or dead peer fails the write rather
// than stalling the caller.
func (s *Session) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return net.ErrClosed
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := s.conn.Write(frame)
	return err
}

// Close is idempotent; the read goroutine unblocks with an error.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

func (s *Session) Closed() bool { return s.closed.Load() }
