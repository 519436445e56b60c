package server

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz"
	"github.com/bgschiller/network-blackjack/internal/conf"
	"github.com/bgschiller/network-blackjack/internal/service"
)

type memAccounts struct{ balances map[string]int64 }

func (a *memAccounts) Load(id string) (int64, bool) { cash, ok := a.balances[id]; return cash, ok }
func (a *memAccounts) Set(id string, cash int64) { a.balances[id] = cash }
func (a *memAccounts) Flush() error { return nil }

// newTestServer stands up the whole stack on a loopback port.
func newTestServer(t *testing.T, maxConns int32) *TCPServer {
	t.Helper()
	bc := conf.Default()
	bc.Server.TCP.Addr = "127.0.0.1:0"
	bc.Server.TCP.MaxConns = maxConns
	bc.Room.LogCache.Open = false

	uc, cleanup, err := biz.NewUsecase(bc, &memAccounts{balances: make(map[string]int64)}, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	srv := NewTCPServer(bc.Server, service.NewService(uc, log.DefaultLogger), log.DefaultLogger)
	go func() { _ = srv.Start(context.Background()) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	return srv
}

func dialServer(t *testing.T, srv *TCPServer) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readFrame blocks until one complete bracketed frame arrives on the socket.
func readFrame(t *testing.T, conn net.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got strings.Builder
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
		s := got.String()
		if i := strings.IndexByte(s, ']'); i >= 0 {
			return s[:i+1]
		}
	}
}

func TestServeConnJoinRoundTrip(t *testing.T) {
	srv := newTestServer(t, 0)
	conn := dialServer(t, srv)

	_, err := fmt.Fprintf(conn, "[join|%-12s]", "Wire")
	require.NoError(t, err)

	frame := readFrame(t, conn)
	require.True(t, strings.HasPrefix(frame, "[join|Wire"), "got %q", frame)
	require.Contains(t, frame, "0000001000")
}

func TestSplitWritesAssembleOneFrame(t *testing.T) {
	srv := newTestServer(t, 0)
	conn := dialServer(t, srv)

	for _, chunk := range []string{"[jo", "in|Wire", "        ]"} {
		_, err := conn.Write([]byte(chunk))
		require.NoError(t, err)
	}
	require.True(t, strings.HasPrefix(readFrame(t, conn), "[join|Wire"))
}

func TestMaxConnsRefusesExtraDials(t *testing.T) {
	srv := newTestServer(t, 1)
	first := dialServer(t, srv)
	_, err := fmt.Fprintf(first, "[join|%-12s]", "Wire")
	require.NoError(t, err)
	readFrame(t, first) // the capacity holder is fully served

	extra := dialServer(t, srv)
	require.NoError(t, extra.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = extra.Read(make([]byte, 1))
	require.Error(t, err) // refused: closed without a byte
}

func TestStopClosesLiveConnections(t *testing.T) {
	srv := newTestServer(t, 0)
	conn := dialServer(t, srv)
	_, err := fmt.Fprintf(conn, "[join|%-12s]", "Wire")
	require.NoError(t, err)
	readFrame(t, conn)

	require.NoError(t, srv.Stop(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, err := conn.Read(make([]byte, 64)); err != nil {
			return
		}
	}
}
