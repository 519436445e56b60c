package table

import (
	"time"

	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/protocol"
)

// OnTimer fires when the current wait stage's deadline expires. Synchronous
// stages (deal, dealer auto-play, payout) never arm a timer.
func (t *Table) OnTimer() {
	state := t.stage.GetState()
	log.Infof("stage timeout. st:%v table:%v", state, t.Desc())

	switch state {
	case StLobby:
		t.lobbyTimeout()
	case StAnte:
		t.anteTimeout()
	case StInsurance:
		t.insuranceTimeout()
	case StTurn:
		t.turnTimeout()
	default:
		log.Errorf("unexpected timer in stage %v. %v", state, t.Desc())
	}
}

// updateStage cancels the previous stage timer and arms a new one when the
// stage carries a deadline (duration > 0).
func (t *Table) updateStage(state StageID, duration time.Duration) {
	t.repo.GetTimer().Cancel(t.stage.GetTimerID())
	var timerID int64
	if duration > 0 {
		timerID = t.repo.GetTimer().Once(duration, t.OnTimer)
	}
	t.stage.Set(state, duration, timerID)
	t.mLog.stage(t.stage.Desc())
}

func (t *Table) actionTimeout() time.Duration {
	return time.Duration(t.repo.GetRoomConfig().Game.ActionSecs) * time.Second
}

func (t *Table) joinTimeout() time.Duration {
	return time.Duration(t.repo.GetRoomConfig().Game.JoinSecs) * time.Second
}

/*
	lobby
*/

// checkCanStart arms the join-wait window when the first player sits down and
// starts immediately once the table fills.
func (t *Table) checkCanStart() {
	if t.InRound() || t.Empty() {
		return
	}
	if t.IsFull() {
		t.startAnte()
		return
	}
	if t.stage.GetTimerID() == 0 {
		t.updateStage(StLobby, t.joinTimeout())
	}
}

func (t *Table) lobbyTimeout() {
	if t.Empty() {
		t.updateStage(StLobby, 0)
		return
	}
	t.startAnte()
}

/*
	ante
*/

func (t *Table) startAnte() {
	minBet := t.repo.GetRoomConfig().Game.MinBet
	t.mLog.begin(t.SitCnt())
	t.updateStage(StAnte, t.actionTimeout())
	t.broadcastAnte(minBet)
}

// checkAnteDone deals as soon as every seated player has anted.
func (t *Table) checkAnteDone() {
	for _, p := range t.SeatedInOrder() {
		if !p.HasBet() {
			return
		}
	}
	t.deal(true)
}

// anteTimeout drops the seats that never anted and deals for the rest.
func (t *Table) anteTimeout() {
	for _, p := range t.SeatedInOrder() {
		if !p.HasBet() {
			t.repo.Drop(p, "no ante before the deadline")
		}
	}
	// Drop may have abandoned the round when nobody was left.
	if t.stage.GetState() != StAnte {
		return
	}
	t.deal(true)
}

/*
	deal
*/

// deal shuffles (when asked), deals two cards to the dealer and to every
// seated player in seat order, and broadcasts the table picture.
func (t *Table) deal(shuffle bool) {
	if shuffle {
		t.deck.Shuffle()
	}
	t.shuffled = shuffle
	t.dealerNatural = false

	t.dealer = t.deck.Deal(2)
	for _, p := range t.SeatedInOrder() {
		p.DealHand(t.deck.Deal(2))
		t.mLog.deal(p, p.Hand())
	}
	t.mLog.deal(nil, t.dealer)
	t.broadcastDeal()

	if IsAce(t.dealer[0]) {
		t.updateStage(StInsurance, t.actionTimeout())
		return
	}
	t.beginTurns()
}

/*
	insurance
*/

// checkInsuranceDone resolves as soon as every seated player has answered
// the offer, a zero answer included.
func (t *Table) checkInsuranceDone() {
	for _, p := range t.SeatedInOrder() {
		if !p.InsuranceDecided() {
			return
		}
	}
	t.resolveInsurance()
}

func (t *Table) insuranceTimeout() {
	for _, p := range t.SeatedInOrder() {
		if !p.InsuranceDecided() {
			t.repo.Drop(p, "no insurance answer before the deadline")
		}
	}
	if t.stage.GetState() != StInsurance {
		return
	}
	t.resolveInsurance()
}

// resolveInsurance peeks at the hole card: a dealer natural short-circuits the
// round (insurance pays 3x, main hands lose unless they push on a natural),
// anything else plays out normally with the side bets forfeited.
func (t *Table) resolveInsurance() {
	if HandValue(t.dealer) == 21 {
		t.dealerNatural = true
		for _, p := range t.SeatedInOrder() {
			if n := p.Insurance(); n > 0 {
				p.AddResult(3 * n)
			}
		}
		t.dealerReveal()
		t.payout()
		return
	}
	t.beginTurns()
}

/*
	player turns
*/

func (t *Table) beginTurns() {
	t.active = 0
	t.updateStage(StTurn, 0)
	t.advanceTurn()
}

// advanceTurn hands the turn to the next seated player past the current one,
// skipping hands that already stand at 21 or better, and moves to dealer
// auto-play once every seat is resolved.
func (t *Table) advanceTurn() {
	for seat := t.active + 1; seat <= t.maxCnt; seat++ {
		p := t.playerAtSeat(seat)
		if p == nil || !p.IsGaming() {
			continue
		}
		if HandValue(p.Hand()) >= 21 {
			continue
		}
		t.active = seat
		t.broadcastTurn(p.ID())
		t.updateStage(StTurn, t.actionTimeout())
		return
	}
	t.active = 0
	t.dealerPlay()
}

func (t *Table) turnTimeout() {
	p := t.ActivePlayer()
	if p == nil {
		log.Errorf("turn timeout with no active player. %v", t.Desc())
		t.advanceTurn()
		return
	}
	t.repo.Drop(p, "no turn action before the deadline")
}

// endHand closes the active hand. A pending split hand reactivates a second
// sub-turn for the same seat before the turn moves on.
func (t *Table) endHand(p *player.Player) {
	if p.SplitPending() {
		drawn := t.deck.DealOne()
		p.ActivateSplitHand(drawn)
		t.mLog.action(p, "split-hand", drawn)
		t.broadcastStat(p.ID(), ActionHit, drawn, HandValue(p.Hand()) > 21, p.Bet())
		if HandValue(p.Hand()) >= 21 {
			t.endHand(p)
			return
		}
		t.broadcastTurn(p.ID())
		t.updateStage(StTurn, t.actionTimeout())
		return
	}
	t.advanceTurn()
}

/*
	dealer auto-play
*/

// dealerReveal discloses the hole card, held back until the players are done.
func (t *Table) dealerReveal() {
	t.broadcastTurn(protocol.ServerID)
	t.broadcastStat(protocol.ServerID, ActionHit, t.dealer[1], HandValue(t.dealer) > 21, 0)
}

// dealerPlay is strictly mechanical: reveal, then draw while the hand totals
// 16 or less, or 17 with an ace (soft-17 hits). Every card is broadcast.
func (t *Table) dealerPlay() {
	t.updateStage(StDealer, 0)
	t.dealerReveal()

	for {
		v := HandValue(t.dealer)
		if v > 21 {
			break
		}
		if v > 16 && !(HasAce(t.dealer) && v <= 17) {
			t.broadcastStat(protocol.ServerID, ActionStay, HiddenCard, false, 0)
			break
		}
		card := t.deck.DealOne()
		t.dealer = append(t.dealer, card)
		t.mLog.action(nil, ActionHit, card)
		t.broadcastStat(protocol.ServerID, ActionHit, card, HandValue(t.dealer) > 21, 0)
	}
	t.payout()
}

/*
	payout and teardown
*/

// settleHand returns the net credit for one finished hand against the final
// dealer hand. The stake was debited at ante time, so a push credits 1x and a
// loss credits nothing.
func (t *Table) settleHand(hand []string, stake int64, split bool) int64 {
	hv := HandValue(hand)
	if hv > 21 {
		return 0
	}
	if t.dealerNatural {
		if !split && IsNatural(hand) {
			return stake
		}
		return 0
	}
	dv := HandValue(t.dealer)
	switch {
	case dv > 21 || hv > dv:
		if !split && IsNatural(hand) {
			return stake*2 + stake/2
		}
		return stake * 2
	case hv == dv:
		return stake
	default:
		return 0
	}
}

// payout credits insurance first, then each hand, flushes balances and
// broadcasts the endg summary before tearing the round down.
func (t *Table) payout() {
	t.updateStage(StPayout, 0)

	for _, p := range t.SeatedInOrder() {
		staked := int64(0)
		for _, hand := range p.Hands() {
			p.AddResult(t.settleHand(hand, p.Bet(), p.DidSplit()))
			staked += p.Bet()
		}
		credit := p.Result()
		p.AddCash(credit)
		t.repo.SaveAccount(p)
		t.mLog.settle(p, staked, credit)
	}
	t.broadcastEndg()
	t.teardown()
}

// resultLabel compares what a seat got back against what it put in, the
// insurance side bet included.
func resultLabel(p *player.Player) string {
	staked := p.Bet()*int64(len(p.Hands())) + p.Insurance()
	switch credit := p.Result(); {
	case credit > staked:
		return "WON"
	case credit == staked:
		return "TIE"
	default:
		return "LOS"
	}
}

// teardown resets the round, unseats players who can no longer cover the
// minimum bet, refills seats from the lobby queue in FIFO order and rolls
// straight into the next ante when anyone is still seated.
func (t *Table) teardown() {
	t.clearRound()

	minBet := t.repo.GetRoomConfig().Game.MinBet
	for _, p := range t.SeatedInOrder() {
		if p.Cash() >= minBet {
			continue
		}
		t.throwOff(p)
		p.ExitReset()
		p.SetStatus(player.StLobby)
		t.lobby = append(t.lobby, p)
		t.BroadcastChat("It's been a pleasure, " + p.ID() + "! Come back when you have more cash.")
		t.mLog.userExit(p, t.sitCnt)
	}
	t.refillSeats()

	if t.Empty() {
		t.updateStage(StLobby, 0)
		t.checkCanStart()
		return
	}
	t.startAnte()
}

func (t *Table) clearRound() {
	t.dealer = nil
	t.dealerNatural = false
	t.active = 0
	t.shuffled = false
	for _, p := range t.SeatedInOrder() {
		p.Reset()
	}
}

// refillSeats promotes lobby players who can cover the minimum bet, oldest
// first, broadcasting a seat update for each.
func (t *Table) refillSeats() {
	minBet := t.repo.GetRoomConfig().Game.MinBet
	var rest []*player.Player
	for i, p := range t.lobby {
		if t.IsFull() {
			rest = append(rest, t.lobby[i:]...)
			break
		}
		if p.Cash() < minBet {
			rest = append(rest, p)
			continue
		}
		t.throwInto(p)
		t.broadcastJoin(p)
		t.mLog.userEnter(p, t.sitCnt)
	}
	t.lobby = rest
}

// resetToLobby abandons an in-flight round with no payout. Lobby players are
// promoted as if a round had just ended.
func (t *Table) resetToLobby() {
	t.clearRound()
	t.updateStage(StLobby, 0)
	t.refillSeats()
	t.checkCanStart()
}
