// Package server is the TCP transport: it accepts connections, frames the
// byte stream and hands decoded messages to the service layer.
package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/conf"
	"github.com/bgschiller/network-blackjack/internal/protocol"
	"github.com/bgschiller/network-blackjack/internal/service"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewTCPServer)

// TCPServer implements transport.Server; the kratos app drives Start/Stop.
type TCPServer struct {
	c   *conf.Server
	svc *service.Service

	mu       sync.Mutex
	lis      net.Listener
	wg       sync.WaitGroup
	sessions sync.Map // *Session -> struct{}
	conns    atomic.Int32
	shutdown atomic.Bool
}

func NewTCPServer(c *conf.Server, svc *service.Service, logger log.Logger) *TCPServer {
	return &TCPServer{c: c, svc: svc}
}

// Start listens and serves until Stop closes the listener.
func (s *TCPServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.c.TCP.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()
	log.Infof("[TCP] server listening on: %s", s.c.TCP.Addr)

	for {
		conn, err := lis.Accept()
		if err != nil {
			if s.shutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Errorf("[TCP] accept: %v", err)
			continue
		}
		if max := s.c.TCP.MaxConns; max > 0 && s.conns.Load() >= max {
			log.Warnf("[TCP] connection cap %d reached, refusing %s", max, conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		s.conns.Add(1)
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// Addr reports the bound listener address, nil before Start.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// Stop closes the listener and every live connection, then waits for the
// per-connection goroutines.
func (s *TCPServer) Stop(ctx context.Context) error {
	s.shutdown.Store(true)
	s.mu.Lock()
	if s.lis != nil {
		_ = s.lis.Close()
	}
	s.mu.Unlock()
	s.sessions.Range(func(key, _ any) bool {
		_ = key.(*Session).Close()
		return true
	})
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	log.Info("[TCP] server stopped")
	return nil
}

// serveConn owns one connection's read side: raw chunks go through the frame
// reader, decoded frames go to the service. Any read or framing failure ends
// the connection; the game side hears about it once, via OnDisconnect.
func (s *TCPServer) serveConn(conn net.Conn) {
	defer xgo.RecoverFromError(func(e any) {
		log.Errorf("[TCP] conn panic: %v", e)
	})
	defer s.wg.Done()
	defer s.conns.Add(-1)

	sess := NewSession(conn)
	s.sessions.Store(sess, struct{}{})
	s.svc.OnConnect(sess)
	defer func() {
		s.sessions.Delete(sess)
		_ = sess.Close()
		s.svc.OnDisconnect(sess)
	}()

	reader := &protocol.Reader{}
	buf := make([]byte, protocol.ReadSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		if err := reader.Push(buf[:n]); err != nil {
			log.Warnf("[TCP] %s: %v", sess.RemoteAddr(), err)
			return
		}
		for {
			f, ok := reader.Next()
			if !ok {
				break
			}
			s.svc.OnMessage(sess, f)
		}
	}
}
