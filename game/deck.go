package game

import (
	"errors"

	"golang.org/x/exp/rand"
)

// ErrEmptyDeck reports a draw from an exhausted deck. The deck is never
// reshuffled mid-game; callers decide how to end the turn.
var ErrEmptyDeck = errors.New("draw from empty deck")

// Deck is an ordered pile of cards consumed from the front.
type Deck struct {
	cards []Card
}

// NewDeck builds the full 94-card deck in a fixed order:
//   - number cards: one 0, one 1, then n copies of each n from 2 through 12
//   - modifier cards: one each of +2 through +10
//   - action cards: two Freeze, two Flip Three, one Second Chance
//   - one x2 multiplier
func NewDeck() *Deck {
	cards := make([]Card, 0, 94)
	cards = append(cards, NumberCard(0), NumberCard(1))
	for value := 2; value <= 12; value++ {
		for i := 0; i < value; i++ {
			cards = append(cards, NumberCard(value))
		}
	}
	for bonus := 2; bonus <= 10; bonus++ {
		cards = append(cards, ModifierCard(bonus))
	}
	cards = append(cards,
		ActionCard(Freeze), ActionCard(Freeze),
		ActionCard(FlipThree), ActionCard(FlipThree),
		ActionCard(SecondChance),
		MultiplierCard(),
	)
	return &Deck{cards: cards}
}

// DeckOf builds a deck holding exactly the given cards in the given order.
// Used to stage known draw sequences.
func DeckOf(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle rearranges the remaining cards using the given source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

func (d *Deck) Remaining() int { return len(d.cards) }

func (d *Deck) Clone() *Deck {
	return DeckOf(d.cards...)
}
