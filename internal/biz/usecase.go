package biz

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yola1107/kratos/v2/library/work"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/biz/table"
	"github.com/bgschiller/network-blackjack/internal/conf"
	"github.com/bgschiller/network-blackjack/internal/protocol"
)

// idPattern: exactly 12 characters, a letter first, alphanumeric right-padded
// with spaces.
var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]* *$`)

// Usecase is the connection registry and the single authority over game
// state. The transport posts every event onto its task loop; handlers run to
// completion one at a time.
type Usecase struct {
	c        *conf.Room
	accounts AccountRepo

	loop  work.Loop
	timer work.Scheduler
	table *table.Table

	sessions map[string]*player.Player // session key -> player, joined or not
	names    map[string]*player.Player // wire id -> joined player
	order    []*player.Player          // registration order, for broadcasts
}

func NewUsecase(bc *conf.Bootstrap, accounts AccountRepo, logger log.Logger) (*Usecase, func(), error) {
	loop := work.NewLoop(work.WithSize(1))
	if err := loop.Start(); err != nil {
		return nil, nil, err
	}
	u := &Usecase{
		c:        bc.Room,
		accounts: accounts,
		loop:     loop,
		timer:    work.NewScheduler(work.WithExecutor(loop)),
		sessions: make(map[string]*player.Player),
		names:    make(map[string]*player.Player),
	}
	u.table = table.NewTable(bc.Room, u)

	cleanup := func() {
		log.Info("closing the usecase resources")
		u.timer.Stop()
		u.table.Close()
		if err := u.accounts.Flush(); err != nil {
			log.Errorf("account flush on shutdown: %v", err)
		}
		u.loop.Stop()
	}
	return u, cleanup, nil
}

// Post serializes a job onto the owning task loop.
func (u *Usecase) Post(job func()) { u.loop.Post(job) }

/*
	table.Repo
*/

func (u *Usecase) GetTimer() work.Scheduler { return u.timer }

func (u *Usecase) GetRoomConfig() *conf.Room { return u.c }

// Broadcast delivers one frame to every live connection in registration
// order. A failed send drops that connection only, after the sweep, so the
// iteration never observes a mutating registry.
func (u *Usecase) Broadcast(frame []byte) {
	var failed []*player.Player
	for _, p := range u.order {
		if err := p.Session().Send(frame); err != nil {
			failed = append(failed, p)
		}
	}
	for _, p := range failed {
		u.Drop(p, "send failed")
	}
}

// SaveAccount persists the player's balance and flushes the store, so a
// crash after payout cannot lose settled money.
func (u *Usecase) SaveAccount(p *player.Player) {
	u.accounts.Set(p.ID(), p.Cash())
	if err := u.accounts.Flush(); err != nil {
		log.Errorf("account flush: %v", err)
	}
}

/*
	session lifecycle
*/

// OnSessionOpen registers a freshly accepted connection in unjoined state.
func (u *Usecase) OnSessionOpen(s player.Session) {
	p := player.New(s)
	u.sessions[s.ID()] = p
	u.order = append(u.order, p)
	log.Infof("session open. key:%s addr:%s total:%d", s.ID(), s.RemoteAddr(), len(u.sessions))
}

// OnSessionClose handles the transport noticing a dead peer.
func (u *Usecase) OnSessionClose(s player.Session) {
	if p, ok := u.sessions[s.ID()]; ok {
		u.Drop(p, "connection lost")
	}
}

// Drop removes a player everywhere: registry, name table, seat or lobby, and
// the socket itself. Safe to call twice.
func (u *Usecase) Drop(p *player.Player, reason string) {
	if !p.MarkDropped() {
		return
	}
	delete(u.sessions, p.Session().ID())
	for i, v := range u.order {
		if v == p {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
	_ = p.Session().Close()
	log.Infof("drop. p:%v reason:%q", p.Desc(), reason)

	if !p.Joined() {
		return
	}
	// Stakes debited this round are forfeited; persist the balance now so a
	// rejoin cannot undo them.
	u.SaveAccount(p)
	delete(u.names, p.ID())
	name := strings.TrimRight(p.ID(), " ")
	u.table.Remove(p)
	u.table.BroadcastChat(fmt.Sprintf("%s has left the table.", name))
}

// Scold answers a protocol violation with an errr frame and a strike. The
// third strike, or a fatal violation, drops the connection.
func (u *Usecase) Scold(p *player.Player, reason string, fatal bool) {
	n := p.AddStrike()
	frame := protocol.Encode(protocol.MsgErrr,
		strconv.FormatInt(int64(n), 10), protocol.Sanitize(reason))
	_ = p.Session().Send(frame)
	log.Infof("scold. p:%v strikes:%d fatal:%v reason:%q", p.Desc(), n, fatal, reason)

	if fatal || n >= u.c.Game.MaxStrikes {
		u.Drop(p, reason)
	}
}

/*
	dispatch
*/

// Dispatch routes one decoded frame. Anything outside the current phase's
// whitelist earns a scold, not a drop; accepted messages clear the strike
// counter.
func (u *Usecase) Dispatch(s player.Session, f protocol.Frame) {
	p, ok := u.sessions[s.ID()]
	if !ok {
		return
	}
	if !p.Joined() && f.Type != protocol.MsgJoin {
		u.Scold(p, "You must send a JOIN before you can do anything else", false)
		return
	}

	var err error
	switch f.Type {
	case protocol.MsgJoin:
		u.onJoin(p, f.Args)
		return
	case protocol.MsgExit:
		u.Drop(p, "voluntary exit")
		return
	case protocol.MsgChat:
		err = u.onChat(p, f.Args)
	case protocol.MsgAnte:
		err = u.requireStage(table.StAnte, func() error { return u.table.OnAnte(p, f.Args) })
	case protocol.MsgInsu:
		err = u.requireStage(table.StInsurance, func() error { return u.table.OnInsurance(p, f.Args) })
	case protocol.MsgTurn:
		err = u.requireStage(table.StTurn, func() error { return u.table.OnTurn(p, f.Args) })
	default:
		err = fmt.Errorf("I don't understand %q", protocol.Sanitize(f.Raw))
	}

	if err != nil {
		u.Scold(p, err.Error(), false)
		return
	}
	p.ClearStrikes()
}

func (u *Usecase) requireStage(want table.StageID, h func() error) error {
	if u.table.Stage() != want {
		return errors.New("You can't do that right now.")
	}
	return h()
}

// onJoin validates the wire id. Malformed, reserved and duplicate ids are
// fatal: one errr, then the connection is dropped.
func (u *Usecase) onJoin(p *player.Player, args []string) {
	if p.Joined() {
		u.Scold(p, "You've already joined.", false)
		return
	}
	if len(args) < 1 || len(args[0]) != protocol.IDLen || !idPattern.MatchString(args[0]) {
		u.Scold(p, "Your id must be 12 characters, alphanumeric, starting with a letter.", true)
		return
	}
	id := args[0]
	if id == protocol.ServerID {
		u.Scold(p, "That id is reserved.", true)
		return
	}
	if _, taken := u.names[id]; taken {
		u.Scold(p, "That id is already at the table.", true)
		return
	}

	cash, ok := u.accounts.Load(id)
	if !ok {
		cash = u.c.Game.DefaultCash
		u.accounts.Set(id, cash)
	}
	p.SetID(id)
	p.SetCash(cash)
	u.names[id] = p
	p.ClearStrikes()
	log.Infof("join. p:%v", p.Desc())

	u.table.Admit(p)
}

func (u *Usecase) onChat(p *player.Player, args []string) error {
	if len(args) < 1 {
		return errors.New("Chat needs a message.")
	}
	text := args[0]
	if int32(len(text)) > u.c.Game.ChatLimit {
		return fmt.Errorf("Chat message too long. Must be %d characters or less.", u.c.Game.ChatLimit)
	}
	u.Broadcast(protocol.Encode(protocol.MsgChat,
		protocol.FormatID(p.ID()), protocol.Sanitize(text)))
	return nil
}
