package table

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yola1107/kratos/v2/library/work"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/conf"
)

/*
	fakes
*/

// fakeScheduler records the armed callback so tests fire deadlines by hand.
type fakeScheduler struct {
	nextID int64
	task   func()
	taskID int64
}

func (s *fakeScheduler) Once(_ time.Duration, f func()) int64 {
	s.nextID++
	s.task = f
	s.taskID = s.nextID
	return s.nextID
}

func (s *fakeScheduler) Cancel(taskID int64) {
	if taskID != 0 && taskID == s.taskID {
		s.task = nil
		s.taskID = 0
	}
}

func (s *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	require.NotNil(t, s.task, "no armed deadline to fire")
	task := s.task
	s.task = nil
	s.taskID = 0
	task()
}

func (s *fakeScheduler) armed() bool { return s.task != nil }

func (s *fakeScheduler) Len() int { return 0 }
func (s *fakeScheduler) Running() int32 { return 0 }
func (s *fakeScheduler) Monitor() work.Monitor { return work.Monitor{} }
func (s *fakeScheduler) Forever(time.Duration, func()) int64 { return 0 }
func (s *fakeScheduler) ForeverNow(time.Duration, func()) int64 { return 0 }
func (s *fakeScheduler) CancelAll() {}
func (s *fakeScheduler) Stop() {}

type fakeSession struct {
	id     string
	frames []string
	closed atomic.Bool
}

func (s *fakeSession) ID() string { return s.id }
func (s *fakeSession) RemoteAddr() string { return "test:0" }
func (s *fakeSession) Close() error { s.closed.Store(true); return nil }

func (s *fakeSession) Send(frame []byte) error {
	s.frames = append(s.frames, string(frame))
	return nil
}

// fakeRepo stands in for the usecase: it broadcasts into a flat frame log and
// mimics the registry's drop path.
type fakeRepo struct {
	c      *conf.Room
	timer  *fakeScheduler
	table  *Table
	frames []string
	drops  []string
	saved  map[string]int64
}

func (r *fakeRepo) GetTimer() work.Scheduler { return r.timer }
func (r *fakeRepo) GetRoomConfig() *conf.Room { return r.c }
func (r *fakeRepo) Broadcast(frame []byte) { r.frames = append(r.frames, string(frame)) }

func (r *fakeRepo) Drop(p *player.Player, reason string) {
	if !p.MarkDropped() {
		return
	}
	r.drops = append(r.drops, p.ID())
	r.table.Remove(p)
}

func (r *fakeRepo) SaveAccount(p *player.Player) {
	r.saved[p.ID()] = p.Cash()
}

func (r *fakeRepo) lastFrame(t *testing.T, msg string) string {
	t.Helper()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if strings.HasPrefix(r.frames[i], "["+msg) {
			return r.frames[i]
		}
	}
	t.Fatalf("no %q frame broadcast, got %v", msg, r.frames)
	return ""
}

func (r *fakeRepo) countFrames(msg string) (n int) {
	for _, f := range r.frames {
		if strings.HasPrefix(f, "["+msg) {
			n++
		}
	}
	return n
}

func newTestTable(t *testing.T) (*Table, *fakeRepo) {
	t.Helper()
	c := conf.Default().Room
	c.LogCache.Open = false // keep the journal off the test filesystem
	repo := &fakeRepo{
		c:     c,
		timer: &fakeScheduler{},
		saved: make(map[string]int64),
	}
	tb := NewTable(c, repo)
	repo.table = tb
	return tb, repo
}

var seq int

func addPlayer(t *testing.T, tb *Table, name string, cash int64) *player.Player {
	t.Helper()
	seq++
	p := player.New(&fakeSession{id: fmt.Sprintf("sess-%d", seq)})
	p.SetID(fmt.Sprintf("%-12s", name))
	p.SetCash(cash)
	tb.Admit(p)
	return p
}

/*
	seating
*/

func TestAdmitSeatsInOrderUntilFull(t *testing.T) {
	tb, _ := newTestTable(t)

	var players []*player.Player
	for i := 0; i < 7; i++ {
		players = append(players, addPlayer(t, tb, fmt.Sprintf("Player%d", i), 1000))
	}

	for i := 0; i < 6; i++ {
		require.Equal(t, int32(i+1), players[i].Seat())
		require.True(t, players[i].IsSeated())
	}
	require.True(t, tb.IsFull())
	require.Equal(t, int32(0), players[6].Seat())
	require.Equal(t, player.StLobby, players[6].Status())
}

func TestAdmitBrokePlayerWaitsInLobby(t *testing.T) {
	tb, _ := newTestTable(t)

	p := addPlayer(t, tb, "Poor", 2) // below the minimum bet
	require.Equal(t, int32(0), p.Seat())
	require.Equal(t, player.StLobby, p.Status())
	require.True(t, tb.Empty())
}

func TestLobbyWindowElapsesIntoAnte(t *testing.T) {
	tb, repo := newTestTable(t)

	addPlayer(t, tb, "Alice", 1000)
	require.Equal(t, StLobby, tb.Stage())
	require.True(t, repo.timer.armed())

	repo.timer.fire(t)
	require.Equal(t, StAnte, tb.Stage())
	require.Equal(t, "[ante|0000000004]", repo.lastFrame(t, "ante"))
}

func TestFullTableStartsImmediately(t *testing.T) {
	tb, repo := newTestTable(t)

	for i := 0; i < 6; i++ {
		addPlayer(t, tb, fmt.Sprintf("Player%d", i), 1000)
	}
	require.Equal(t, StAnte, tb.Stage())
	require.Equal(t, 1, repo.countFrames("ante"))
}

func TestJoinDuringRoundGoesToLobby(t *testing.T) {
	tb, repo := newTestTable(t)

	addPlayer(t, tb, "Alice", 1000)
	repo.timer.fire(t) // ante begins, seating closes

	late := addPlayer(t, tb, "Late", 1000)
	require.Equal(t, int32(0), late.Seat())
	require.Equal(t, player.StLobby, late.Status())
}

func TestRoundAbandonedWhenLastSeatLeaves(t *testing.T) {
	tb, repo := newTestTable(t)

	p := addPlayer(t, tb, "Alice", 1000)
	repo.timer.fire(t)
	require.Equal(t, StAnte, tb.Stage())

	repo.Drop(p, "test")
	require.Equal(t, StLobby, tb.Stage())
	require.True(t, tb.Empty())
}
