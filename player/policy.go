// Package player holds the decision policies a seat can play: baselines for
// comparison and the shared plumbing to run a turn to completion.
package player

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/game"
)

// DefaultThreshold is the banking target the threshold baseline uses: stay
// once the line is worth this much.
const DefaultThreshold = 15

// Policy picks an action for the seat to act. Implementations must treat the
// state as read-only.
type Policy interface {
	Decide(state *game.GameState) game.Action
}

// Random hits or stays uniformly at random.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (p *Random) Decide(state *game.GameState) game.Action {
	actions := state.LegalActions()
	if len(actions) == 0 {
		return game.Stay
	}
	return actions[p.rng.Intn(len(actions))]
}

// Threshold hits until the current line is worth Target points, then stays.
type Threshold struct {
	Target int
}

func NewThreshold(target int) *Threshold {
	if target <= 0 {
		target = DefaultThreshold
	}
	return &Threshold{Target: target}
}

func (p *Threshold) Decide(state *game.GameState) game.Action {
	if len(state.LegalActions()) == 0 {
		return game.Stay
	}
	if state.LineScore(state.Current) >= p.Target {
		return game.Stay
	}
	return game.Hit
}

// ByName builds a baseline policy from its configuration name.
func ByName(name string, rng *rand.Rand) (Policy, error) {
	switch name {
	case "random":
		return NewRandom(rng), nil
	case "threshold":
		return NewThreshold(DefaultThreshold), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// Playout drives the given seat's current turn to completion under the
// policy. When the deck runs out mid-hit the accumulated line is banked as
// final; the return reports whether that happened.
func Playout(state *game.GameState, seat int, policy Policy) bool {
	for !state.TurnOver(seat) {
		err := state.Apply(policy.Decide(state))
		if err == nil {
			continue
		}
		if errors.Is(err, game.ErrEmptyDeck) {
			_ = state.Apply(game.Stay)
			return true
		}
		return false
	}
	return false
}
