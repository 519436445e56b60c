package player

// gameData is the per-round state. Everything here resets at teardown.
type gameData struct {
	status Status
	seat   int32 // 1..MaxPlayers, 0 = unseated

	bet              int64
	insurance        int64
	insuranceDecided bool
	hands            [][]string // one hand, or two after a split
	activeHand       int
	splitStore       string // the set-aside card of a pending split
	splitDone        bool
	acted            bool  // an action was taken on the current hand
	result           int64 // running credit ledger, resolved at payout
}

func (p *Player) Reset() {
	seat := p.seat
	status := p.status
	p.gameData = gameData{seat: seat, status: status}
	if status == StGaming {
		p.status = StSit
	}
}

// ExitReset clears everything including the seat, for players leaving the table.
func (p *Player) ExitReset() {
	p.gameData = gameData{seat: 0, status: StFree}
}

func (p *Player) Seat() int32 { return p.seat }

func (p *Player) SetSeat(seat int32) { p.seat = seat }

func (p *Player) Status() Status { return p.status }

func (p *Player) SetStatus(s Status) { p.status = s }

func (p *Player) IsSeated() bool { return p.status == StSit || p.status == StGaming }

func (p *Player) IsGaming() bool { return p.status == StGaming }

func (p *Player) Bet() int64 { return p.bet }

func (p *Player) SetBet(bet int64) { p.bet = bet }

func (p *Player) HasBet() bool { return p.bet > 0 }

func (p *Player) Insurance() int64 { return p.insurance }

func (p *Player) SetInsurance(n int64) { p.insurance = n }

// InsuranceDecided reports whether the player answered the insurance offer,
// including an explicit zero.
func (p *Player) InsuranceDecided() bool { return p.insuranceDecided }

func (p *Player) SetInsuranceDecided() { p.insuranceDecided = true }

// Hands

func (p *Player) DealHand(cards []string) {
	p.hands = [][]string{cards}
	p.activeHand = 0
	p.splitDone = false
	p.acted = false
}

func (p *Player) Hand() []string {
	if len(p.hands) == 0 {
		return nil
	}
	return p.hands[p.activeHand]
}

func (p *Player) Hands() [][]string { return p.hands }

func (p *Player) AddCard(card string) {
	p.hands[p.activeHand] = append(p.hands[p.activeHand], card)
	p.acted = true
}

func (p *Player) Acted() bool { return p.acted }

// FirstAction reports whether double/split are still legal on the active hand.
func (p *Player) FirstAction() bool {
	return !p.acted && len(p.Hand()) == 2
}

func (p *Player) DidSplit() bool { return p.splitDone }

// Split stores the second card aside, replaces it with a fresh draw, and
// remembers that this seat already split.
func (p *Player) Split(replacement string) (stored string) {
	hand := p.hands[p.activeHand]
	stored = hand[1]
	hand[1] = replacement
	p.hands[p.activeHand] = hand
	p.splitStore = stored
	p.splitDone = true
	p.acted = true
	return stored
}

// ActivateSplitHand opens the stored card as hand two and makes it active.
// Returns false when there is no split hand waiting.
func (p *Player) ActivateSplitHand(drawn string) bool {
	if p.splitStore == "" || len(p.hands) != 1 {
		return false
	}
	p.hands = append(p.hands, []string{p.splitStore, drawn})
	p.splitStore = ""
	p.activeHand = 1
	p.acted = false
	return true
}

// SplitPending reports whether a stored split card still awaits its own turn.
func (p *Player) SplitPending() bool { return p.splitStore != "" }

func (p *Player) AddResult(credit int64) { p.result += credit }

func (p *Player) Result() int64 { return p.result }
