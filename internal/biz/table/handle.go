package table

import (
	"errors"
	"strconv"

	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
)

// Turn actions on the wire.
const (
	ActionHit   = "hitt"
	ActionStay  = "stay"
	ActionDown  = "down"
	ActionSplit = "splt"
)

// Handler errors become errr frames upstream; the text is what the client sees.
var (
	errNotYourTurn = errors.New("It's not your turn!")
)

func parseAmount(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("Missing amount.")
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("That's not an amount of cash I understand.")
	}
	return n, nil
}

// OnAnte validates and debits an ante. The stake is taken up front; winnings
// and pushes credit it back at payout.
func (t *Table) OnAnte(p *player.Player, args []string) error {
	if !p.IsSeated() {
		return errors.New("You don't have a seat at the table.")
	}
	if p.HasBet() {
		return errors.New("You've already anted this round.")
	}
	amount, err := parseAmount(args)
	if err != nil {
		return err
	}
	minBet := t.repo.GetRoomConfig().Game.MinBet
	if amount < minBet {
		return errors.New("Your ante must be at least the minimum bet.")
	}
	if !p.UseCash(amount) {
		return errors.New("You don't have enough cash for that ante.")
	}
	p.SetBet(amount)
	p.SetStatus(player.StGaming)
	t.mLog.action(p, "ante", args[0])
	log.Infof("ante accepted. p:%v amount:%d", p.Desc(), amount)

	t.checkAnteDone()
	return nil
}

// OnInsurance accepts a side bet of at most half the ante. Zero is a valid
// answer and just declines the offer.
func (t *Table) OnInsurance(p *player.Player, args []string) error {
	if !p.IsGaming() {
		return errors.New("You're not playing this round.")
	}
	if p.InsuranceDecided() {
		return errors.New("You've already answered the insurance offer.")
	}
	amount, err := parseAmount(args)
	if err != nil {
		return err
	}
	if amount > p.Bet()/2 {
		return errors.New("Insurance can be at most half your bet.")
	}
	if !p.UseCash(amount) {
		return errors.New("You don't have enough cash for that insurance.")
	}
	p.SetInsurance(amount)
	p.SetInsuranceDecided()
	t.mLog.action(p, "insurance", args[0])

	t.checkInsuranceDone()
	return nil
}

// OnTurn resolves one action for the active player. Illegal actions are
// rejected without touching the hand.
func (t *Table) OnTurn(p *player.Player, args []string) error {
	if p != t.ActivePlayer() {
		return errNotYourTurn
	}
	if len(args) < 1 {
		return errors.New("Missing action.")
	}
	switch action := args[0]; action {
	case ActionHit:
		t.doHit(p)
	case ActionStay:
		t.doStay(p)
	case ActionDown:
		return t.doDouble(p)
	case ActionSplit:
		return t.doSplit(p)
	default:
		return errors.New("I don't know that move. Try hitt, stay, down or splt.")
	}
	return nil
}

func (t *Table) doHit(p *player.Player) {
	card := t.deck.DealOne()
	p.AddCard(card)
	bust := HandValue(p.Hand()) > 21
	t.mLog.action(p, ActionHit, card)
	t.broadcastStat(p.ID(), ActionHit, card, bust, p.Bet())

	if HandValue(p.Hand()) >= 21 {
		t.endHand(p)
		return
	}
	// Same hand keeps the turn; re-arm the clock.
	t.updateStage(StTurn, t.actionTimeout())
}

func (t *Table) doStay(p *player.Player) {
	t.mLog.action(p, ActionStay, "")
	t.broadcastStat(p.ID(), ActionStay, HiddenCard, false, p.Bet())
	t.endHand(p)
}

// doDouble doubles the stake for exactly one more card. Only legal as the
// first action on an un-split hand.
func (t *Table) doDouble(p *player.Player) error {
	if !p.FirstAction() || p.DidSplit() {
		return errors.New("You can only double down as your first move.")
	}
	if !p.UseCash(p.Bet()) {
		return errors.New("You don't have enough cash to double down.")
	}
	p.SetBet(p.Bet() * 2)
	card := t.deck.DealOne()
	p.AddCard(card)
	bust := HandValue(p.Hand()) > 21
	t.mLog.action(p, ActionDown, card)
	t.broadcastStat(p.ID(), ActionDown, card, bust, p.Bet())
	t.endHand(p)
	return nil
}

// doSplit sets the second card aside, replaces it with a fresh draw and
// debits a second stake. The stored card opens a second sub-turn for the
// same seat once the first hand resolves.
func (t *Table) doSplit(p *player.Player) error {
	if !p.FirstAction() || p.DidSplit() {
		return errors.New("You can only split as your first move.")
	}
	hand := p.Hand()
	if Rank(hand[0]) != Rank(hand[1]) {
		return errors.New("You can only split cards of equal rank.")
	}
	if !p.UseCash(p.Bet()) {
		return errors.New("You don't have enough cash to split.")
	}
	replacement := t.deck.DealOne()
	p.Split(replacement)
	t.mLog.action(p, ActionSplit, replacement)
	t.broadcastStat(p.ID(), ActionSplit, replacement, false, p.Bet())

	if HandValue(p.Hand()) >= 21 {
		t.endHand(p)
		return nil
	}
	t.updateStage(StTurn, t.actionTimeout())
	return nil
}
