package table

import (
	"strings"

	"github.com/yola1107/kratos/v2/library/xgo"
)

// Cards are 2-character rank+suit tokens. Rank "1" is the ace; "T","J","Q","K"
// count ten. Suits are H/S/C/D.

var ranks = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K"}
var suits = []string{"H", "S", "C", "D"}

const numDecks = 2

// HiddenCard is the wire placeholder for a card not being disclosed.
const HiddenCard = "xx"

// Deck is a shoe of two 52-card decks. Shuffle rebuilds the full shoe; a round
// never exhausts 104 cards so there is no mid-round replenishment.
type Deck struct {
	cards []string
}

func NewDeck() *Deck {
	d := &Deck{}
	d.Shuffle()
	return d
}

// Shuffle rebuilds and uniformly permutes the shoe.
func (d *Deck) Shuffle() {
	d.cards = d.cards[:0]
	for n := 0; n < numDecks; n++ {
		for _, r := range ranks {
			for _, s := range suits {
				d.cards = append(d.cards, r+s)
			}
		}
	}
	xgo.SliceShuffle(d.cards)
}

// Deal pops n cards off the front of the shoe.
func (d *Deck) Deal(n int) []string {
	out := d.cards[:n:n]
	d.cards = d.cards[n:]
	return out
}

func (d *Deck) DealOne() string {
	return d.Deal(1)[0]
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Rank returns the rank character of a card token.
func Rank(card string) string {
	return card[:1]
}

func IsAce(card string) bool {
	return Rank(card) == "1"
}

// HandValue scores a blackjack hand: faces count ten, and a single ace
// upgrades from 1 to 11 when that does not bust the hand.
func HandValue(cards []string) int {
	val := 0
	ace := false
	for _, c := range cards {
		switch r := Rank(c); r {
		case "T", "J", "Q", "K":
			val += 10
		case "1":
			ace = true
			val++
		default:
			val += int(r[0] - '0')
		}
	}
	if ace && val+10 <= 21 {
		val += 10
	}
	return val
}

func HasAce(cards []string) bool {
	for _, c := range cards {
		if IsAce(c) {
			return true
		}
	}
	return false
}

// IsNatural reports a two-card 21.
func IsNatural(cards []string) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

func handDesc(cards []string) string {
	return strings.Join(cards, " ")
}
