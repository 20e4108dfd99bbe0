package game

import "fmt"

type CardKind int

const (
	KindNumber CardKind = iota
	KindModifier
	KindAction
	KindMultiplier
)

type CardAction int

const (
	Freeze CardAction = iota
	FlipThree
	SecondChance
)

// Card is an immutable deck card. Value carries the face value for number
// cards and the bonus for modifier cards; Action names the effect for action
// cards and is meaningless otherwise.
type Card struct {
	Kind   CardKind
	Value  int
	Action CardAction
}

func NumberCard(value int) Card   { return Card{Kind: KindNumber, Value: value} }
func ModifierCard(value int) Card { return Card{Kind: KindModifier, Value: value} }
func ActionCard(action CardAction) Card {
	return Card{Kind: KindAction, Action: action}
}
func MultiplierCard() Card { return Card{Kind: KindMultiplier} }

func (c Card) String() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("N%d", c.Value)
	case KindModifier:
		return fmt.Sprintf("+%d", c.Value)
	case KindMultiplier:
		return "x2"
	default:
		switch c.Action {
		case Freeze:
			return "Freeze"
		case FlipThree:
			return "FlipThree"
		default:
			return "SecondChance"
		}
	}
}

// Action is a player decision within a turn.
type Action int

const (
	Hit Action = iota
	Stay
)

func (a Action) String() string {
	if a == Hit {
		return "hit"
	}
	return "stay"
}
