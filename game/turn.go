package game

import (
	"math/bits"
	"strconv"
	"strings"
)

const (
	// MaxUniqueNumbers is the flip-7 target: banking a seventh unique number
	// card ends the turn with a bonus.
	MaxUniqueNumbers = 7
	Flip7Bonus       = 15
)

// NumberSet tracks which face values a line holds, one bit per value 0..12.
type NumberSet uint16

func (s NumberSet) Has(value int) bool      { return s&(1<<value) != 0 }
func (s NumberSet) Add(value int) NumberSet { return s | 1<<value }
func (s NumberSet) Len() int                { return bits.OnesCount16(uint16(s)) }

// Sum adds up every face value in the set.
func (s NumberSet) Sum() int {
	sum := 0
	for value := 0; value <= 12; value++ {
		if s.Has(value) {
			sum += value
		}
	}
	return sum
}

// Values lists the face values in ascending order.
func (s NumberSet) Values() []int {
	values := make([]int, 0, s.Len())
	for value := 0; value <= 12; value++ {
		if s.Has(value) {
			values = append(values, value)
		}
	}
	return values
}

type TurnStatus int

const (
	Active TurnStatus = iota
	Stayed
	Frozen
	Busted
)

func (s TurnStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Stayed:
		return "stayed"
	case Frozen:
		return "frozen"
	default:
		return "busted"
	}
}

// Effect asks the caller to finish resolving a card whose consequences reach
// beyond the current line.
type Effect int

const (
	EffectNone Effect = iota
	// EffectFlipThree requests three forced draws for the same line.
	EffectFlipThree
)

// TurnState is one player's line within a single turn. The zero value is a
// fresh, empty, active line. All transitions are value semantics: methods
// return the successor state and never mutate the receiver's underlying data,
// so states can be copied and replayed freely.
type TurnState struct {
	Numbers       NumberSet
	ModifierSum   int
	Doubled       bool
	SecondChances int
	Status        TurnStatus
}

// Terminal reports whether the line can accept no further cards or actions.
func (t TurnState) Terminal() bool { return t.Status != Active }

// Flip7 reports whether the line banked seven unique number cards.
func (t TurnState) Flip7() bool { return t.Numbers.Len() == MaxUniqueNumbers }

// LegalActions lists the player decisions available on this line.
func (t TurnState) LegalActions() []Action {
	if t.Terminal() {
		return nil
	}
	return []Action{Hit, Stay}
}

// Stay voluntarily ends the turn, keeping the accumulated line.
func (t TurnState) Stay() TurnState {
	t.Status = Stayed
	return t
}

// ApplyCard deals one card onto the line and returns the successor state.
// Terminal lines ignore cards. A duplicate number consumes a Second Chance if
// one is held, otherwise busts the line. The seventh unique number ends the
// turn immediately. Flip Three is not resolved here: the returned effect asks
// the caller to perform the forced draws.
func (t TurnState) ApplyCard(card Card) (TurnState, Effect) {
	if t.Terminal() {
		return t, EffectNone
	}
	switch card.Kind {
	case KindNumber:
		if t.Numbers.Has(card.Value) {
			if t.SecondChances > 0 {
				// Duplicate and Second Chance discard each other.
				t.SecondChances--
				return t, EffectNone
			}
			t.Status = Busted
			return t, EffectNone
		}
		t.Numbers = t.Numbers.Add(card.Value)
		if t.Flip7() {
			t.Status = Stayed
		}
		return t, EffectNone
	case KindModifier:
		t.ModifierSum += card.Value
		return t, EffectNone
	case KindMultiplier:
		t.Doubled = true
		return t, EffectNone
	default:
		switch card.Action {
		case Freeze:
			t.Status = Frozen
			return t, EffectNone
		case FlipThree:
			return t, EffectFlipThree
		default: // SecondChance, held until a duplicate lands
			t.SecondChances++
			return t, EffectNone
		}
	}
}

// Score values the line as it stands: number sum, doubled by a held x2,
// plus modifiers, plus the flip-7 bonus when earned. Bust forfeiture is the
// caller's concern; see Payout.
func (t TurnState) Score() int {
	score := t.Numbers.Sum()
	if t.Doubled {
		score *= 2
	}
	score += t.ModifierSum
	if t.Flip7() {
		score += Flip7Bonus
	}
	return score
}

// Payout is the amount the line banks when the turn ends. A busted line
// forfeits everything.
func (t TurnState) Payout() int {
	if t.Status == Busted {
		return 0
	}
	return t.Score()
}

func (t TurnState) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, value := range t.Numbers.Values() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(NumberCard(value).String())
	}
	b.WriteString("]")
	if t.Doubled {
		b.WriteString(" x2")
	}
	if t.ModifierSum > 0 {
		b.WriteString(" +")
		b.WriteString(strconv.Itoa(t.ModifierSum))
	}
	if t.SecondChances > 0 {
		b.WriteString(" sc:")
		b.WriteString(strconv.Itoa(t.SecondChances))
	}
	b.WriteString(" (")
	b.WriteString(t.Status.String())
	b.WriteString(")")
	return b.String()
}
