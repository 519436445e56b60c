package table

import (
	"fmt"

	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/conf"
)

// Table is the single blackjack table: seats, lobby queue, shoe and the round
// state machine. All methods run on the owning task loop; nothing here locks.
type Table struct {
	repo   Repo
	maxCnt int32

	stage  *Stage
	mLog   *Log
	deck   *Deck
	seats  []*player.Player // index = seat-1
	lobby  []*player.Player // FIFO waiting queue
	sitCnt int32

	dealer        []string // dealer hand; dealer[1] stays hidden until auto-play
	dealerNatural bool     // hole card made a two-card 21
	active        int32    // seat number whose turn it is, 0 = none
	shuffled      bool
}

func NewTable(c *conf.Room, repo Repo) *Table {
	t := &Table{
		repo:   repo,
		maxCnt: c.Game.MaxPlayers,
		stage:  &Stage{},
		deck:   NewDeck(),
		seats:  make([]*player.Player, c.Game.MaxPlayers),
		mLog:   NewTableLog(c.LogCache),
	}
	return t
}

func (t *Table) Desc() string {
	return fmt.Sprintf("(sit:%d lobby:%d st:%v active:%d)",
		t.sitCnt, len(t.lobby), t.stage.GetState(), t.active)
}

func (t *Table) Stage() StageID { return t.stage.GetState() }

func (t *Table) Empty() bool { return t.sitCnt <= 0 }

func (t *Table) IsFull() bool { return t.sitCnt >= t.maxCnt }

func (t *Table) SitCnt() int32 { return t.sitCnt }

// InRound reports whether a round is in flight (seating is closed).
func (t *Table) InRound() bool {
	return t.stage.GetState() != StLobby
}

// Admit places a joined player: a seat when the table is open and they can
// cover the minimum bet, otherwise the lobby queue.
func (t *Table) Admit(p *player.Player) {
	if !t.InRound() && !t.IsFull() && p.Cash() >= t.repo.GetRoomConfig().Game.MinBet {
		t.throwInto(p)
	} else {
		p.SetStatus(player.StLobby)
		t.lobby = append(t.lobby, p)
	}
	t.broadcastJoin(p)
	t.mLog.userEnter(p, t.sitCnt)
	log.Infof("admit. p:%v table:%v", p.Desc(), t.Desc())

	t.checkCanStart()
}

// throwInto seats a player at the lowest open seat.
func (t *Table) throwInto(p *player.Player) bool {
	for k, v := range t.seats {
		if v != nil {
			continue
		}
		t.seats[k] = p
		t.sitCnt++
		p.SetSeat(int32(k) + 1)
		p.SetStatus(player.StSit)
		return true
	}
	return false
}

// throwOff frees the player's seat. The caller owns any stage advancement.
func (t *Table) throwOff(p *player.Player) {
	seat := p.Seat()
	if seat < 1 || seat > t.maxCnt || t.seats[seat-1] != p {
		return
	}
	t.seats[seat-1] = nil
	t.sitCnt--
}

// Remove takes a player out of the table entirely (seat or lobby) and keeps
// the round coherent: an active player forfeits their turn, and a round with
// nobody left is abandoned.
func (t *Table) Remove(p *player.Player) {
	wasActive := t.InRound() && p.IsGaming() && p.Seat() == t.active
	t.throwOff(p)
	t.lobbyRemove(p)
	t.mLog.userExit(p, t.sitCnt)
	p.ExitReset()

	if !t.InRound() {
		return
	}
	if t.sitCnt == 0 {
		log.Warnf("round abandoned, no seated players left. %v", t.Desc())
		t.resetToLobby()
		return
	}
	// The departed player may have been the one the stage was waiting on.
	switch t.stage.GetState() {
	case StAnte:
		t.checkAnteDone()
	case StInsurance:
		t.checkInsuranceDone()
	case StTurn:
		if wasActive {
			t.advanceTurn()
		}
	}
}

func (t *Table) lobbyRemove(p *player.Player) {
	for i, v := range t.lobby {
		if v == p {
			t.lobby = append(t.lobby[:i], t.lobby[i+1:]...)
			return
		}
	}
}

// SeatedInOrder returns seated players by increasing seat number.
func (t *Table) SeatedInOrder() []*player.Player {
	var out []*player.Player
	for _, p := range t.seats {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) playerAtSeat(seat int32) *player.Player {
	if seat < 1 || seat > t.maxCnt {
		return nil
	}
	return t.seats[seat-1]
}

// ActivePlayer returns the seated player whose turn it is, if any.
func (t *Table) ActivePlayer() *player.Player {
	return t.playerAtSeat(t.active)
}

// Close cancels the stage timer; called on server shutdown.
func (t *Table) Close() {
	t.repo.GetTimer().Cancel(t.stage.GetTimerID())
	_ = t.mLog.Close()
}
