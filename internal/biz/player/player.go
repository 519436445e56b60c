// Package player models one connected client: its session, identity, bankroll
// and per-round blackjack state.
package player

import (
	"fmt"
)

// Session is the transport-side handle for a connection. The server package
// implements it; game code only ever pushes bytes or closes.
type Session interface {
	ID() string
	RemoteAddr() string
	Send(frame []byte) error
	Close() error
}

type Status int32

const (
	StFree   Status = iota // connected, not joined or unseated spectator
	StLobby                // joined, waiting for a seat
	StSit                  // seated at the table
	StGaming               // seated with a live bet in the current round
)

func (s Status) String() string {
	switch s {
	case StFree:
		return "Free"
	case StLobby:
		return "Lobby"
	case StSit:
		return "Sit"
	case StGaming:
		return "Gaming"
	default:
		return fmt.Sprintf("%d", s)
	}
}

type Player struct {
	session Session
	id      string // 12-char padded wire id; empty until a valid join
	cash    int64
	strikes int32
	dropped bool

	gameData
}

func New(session Session) *Player {
	return &Player{session: session, gameData: gameData{seat: 0}}
}

func (p *Player) Session() Session { return p.session }

func (p *Player) ID() string { return p.id }
func (p *Player) Joined() bool { return p.id != "" }
func (p *Player) SetID(id string) { p.id = id }

func (p *Player) Cash() int64 { return p.cash }

func (p *Player) SetCash(cash int64) { p.cash = cash }

// UseCash debits a voluntary bet; it refuses to overdraw.
func (p *Player) UseCash(n int64) bool {
	if n < 0 || n > p.cash {
		return false
	}
	p.cash -= n
	return true
}

func (p *Player) AddCash(n int64) {
	p.cash += n
}

func (p *Player) AddStrike() int32 {
	p.strikes++
	return p.strikes
}

func (p *Player) Strikes() int32 { return p.strikes }
func (p *Player) ClearStrikes() { p.strikes = 0 }

func (p *Player) MarkDropped() bool {
	if p.dropped {
		return false
	}
	p.dropped = true
	return true
}

func (p *Player) Desc() string {
	return fmt.Sprintf("(%q seat:%d cash:%d bet:%d st:%v strikes:%d)",
		p.id, p.seat, p.cash, p.bet, p.status, p.strikes)
}
