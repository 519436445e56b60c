package table

import (
	"strconv"
	"strings"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/protocol"
)

// Wire flags.
const (
	flagShuffleYes = "shufy"
	flagShuffleNo  = "shufn"
	flagBustYes    = "busty"
	flagBustNo     = "bustn"
)

func bustFlag(bust bool) string {
	if bust {
		return flagBustYes
	}
	return flagBustNo
}

// broadcastJoin announces a join or a seat promotion: id, action timeout,
// balance and seat (0 while in the lobby).
func (t *Table) broadcastJoin(p *player.Player) {
	t.repo.Broadcast(protocol.Encode(protocol.MsgJoin,
		protocol.FormatID(p.ID()),
		strconv.FormatInt(int64(t.repo.GetRoomConfig().Game.ActionSecs), 10),
		protocol.FormatCash(p.Cash()),
		strconv.FormatInt(int64(p.Seat()), 10),
	))
}

// BroadcastChat emits a system chat line under the reserved dealer identity.
func (t *Table) BroadcastChat(text string) {
	t.repo.Broadcast(protocol.Encode(protocol.MsgChat,
		protocol.ServerID, protocol.Sanitize(text)))
}

func (t *Table) broadcastAnte(minBet int64) {
	t.repo.Broadcast(protocol.Encode(protocol.MsgAnte, protocol.FormatCash(minBet)))
}

// broadcastDeal carries the dealer's up-card, the shuffle flag and one field
// per seat 1..MaxPlayers: "id,balance,card1,card2", or empty for an open seat
// so clients can index fields by seat number.
func (t *Table) broadcastDeal() {
	shuffle := flagShuffleNo
	if t.shuffled {
		shuffle = flagShuffleYes
	}
	args := []string{t.dealer[0], shuffle}
	for seat := int32(1); seat <= t.maxCnt; seat++ {
		p := t.playerAtSeat(seat)
		if p == nil || !p.IsGaming() {
			args = append(args, "")
			continue
		}
		hand := p.Hand()
		args = append(args, strings.Join([]string{
			protocol.FormatID(p.ID()),
			protocol.FormatCash(p.Cash()),
			hand[0],
			hand[1],
		}, ","))
	}
	t.repo.Broadcast(protocol.Encode(protocol.MsgDeal, args...))
}

func (t *Table) broadcastTurn(id string) {
	t.repo.Broadcast(protocol.Encode(protocol.MsgTurn, protocol.FormatID(id)))
}

// broadcastStat reports one resolved action: who, what, the card drawn (or
// "xx" when no card changed hands), bust flag and the current stake.
func (t *Table) broadcastStat(id, action, card string, bust bool, bet int64) {
	t.repo.Broadcast(protocol.Encode(protocol.MsgStat,
		protocol.FormatID(id), action, card, bustFlag(bust), protocol.FormatCash(bet)))
}

// broadcastEndg carries the round summary, one field per seat:
// "id,result,balance" or empty.
func (t *Table) broadcastEndg() {
	var args []string
	for seat := int32(1); seat <= t.maxCnt; seat++ {
		p := t.playerAtSeat(seat)
		if p == nil || !p.IsGaming() {
			args = append(args, "")
			continue
		}
		args = append(args, strings.Join([]string{
			protocol.FormatID(p.ID()),
			resultLabel(p),
			protocol.FormatCash(p.Cash()),
		}, ","))
	}
	t.repo.Broadcast(protocol.Encode(protocol.MsgEndg, args...))
}
