package game

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// WinningTotal is the banked score a player must reach to win. The win is
// only awarded at a round boundary, after every player has taken a turn.
const WinningTotal = 200

// ErrInvalidAction reports an action that is not legal in the current state.
var ErrInvalidAction = errors.New("invalid action")

// GameState holds the full observable game: one banked total and one current
// line per seat, the shared deck, and whose turn it is. Drawn cards are
// public, so the deck's remaining cards are the only hidden information.
type GameState struct {
	Players []string    // seat order, fixed for the whole game
	Totals  []int       // banked scores, indexed by seat
	Turns   []TurnState // current-turn lines, indexed by seat
	Deck    *Deck
	Current int    // seat to act
	Round   int    // completed rounds
	Won     string // winner's name, empty while undecided
}

// NewGame deals a fresh game: full shuffled deck, zero totals, seat 0 to act.
func NewGame(players []string, rng *rand.Rand) *GameState {
	if len(players) < 2 {
		panic("game needs at least two players")
	}
	deck := NewDeck()
	deck.Shuffle(rng)
	return &GameState{
		Players: players,
		Totals:  make([]int, len(players)),
		Turns:   make([]TurnState, len(players)),
		Deck:    deck,
		Current: 0,
	}
}

// Terminal reports whether a winner has been decided.
func (gs *GameState) Terminal() bool { return gs.Won != "" }

// Winner returns the winning player's name, or "" while the game is live.
func (gs *GameState) Winner() string { return gs.Won }

// LegalActions lists the actions open to the seat to act. A decided game has
// none.
func (gs *GameState) LegalActions() []Action {
	if gs.Terminal() {
		return nil
	}
	return gs.Turns[gs.Current].LegalActions()
}

// Apply commits one action for the seat to act and advances the game: cards
// are drawn and resolved (including forced Flip Three draws), finished turns
// bank their payout, play rotates, and the win is checked at each round
// boundary.
//
// A hit on an empty deck returns ErrEmptyDeck and leaves the state untouched;
// the caller chooses how to end the turn. Any action not in LegalActions
// returns ErrInvalidAction.
func (gs *GameState) Apply(action Action) error {
	legal := false
	for _, a := range gs.LegalActions() {
		if a == action {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%s for %s: %w", action, gs.Players[gs.Current], ErrInvalidAction)
	}

	switch action {
	case Stay:
		gs.Turns[gs.Current] = gs.Turns[gs.Current].Stay()
	case Hit:
		card, err := gs.Deck.Draw()
		if err != nil {
			return fmt.Errorf("hit for %s: %w", gs.Players[gs.Current], err)
		}
		gs.resolve(card)
	}

	if gs.Turns[gs.Current].Terminal() {
		gs.endTurn()
	}
	return nil
}

// resolve deals one drawn card onto the current line and carries out any
// effect it triggers.
func (gs *GameState) resolve(card Card) {
	next, effect := gs.Turns[gs.Current].ApplyCard(card)
	gs.Turns[gs.Current] = next
	if effect == EffectFlipThree {
		gs.flipThree()
	}
}

// flipThree performs the three forced draws. The sequence stops early when
// the line ends (bust, freeze, or flip 7) or the deck runs out; a nested
// Flip Three resolves its own three draws before the sequence continues.
func (gs *GameState) flipThree() {
	for i := 0; i < 3; i++ {
		if gs.Turns[gs.Current].Terminal() {
			return
		}
		card, err := gs.Deck.Draw()
		if err != nil {
			return // out of cards: the line stands as dealt
		}
		gs.resolve(card)
	}
}

// endTurn banks the finished line and passes play to the next seat. When the
// last seat finishes, the round closes and the win condition is checked
// before the next round starts.
func (gs *GameState) endTurn() {
	gs.Totals[gs.Current] += gs.Turns[gs.Current].Payout()
	if gs.Current == len(gs.Players)-1 {
		gs.Round++
		gs.scoreRound()
	}
	if gs.Terminal() {
		return
	}
	gs.Current = (gs.Current + 1) % len(gs.Players)
	gs.Turns[gs.Current] = TurnState{}
}

// scoreRound awards the win to the highest total at or above WinningTotal.
// Ties go to the earliest seat.
func (gs *GameState) scoreRound() {
	best := -1
	for seat, total := range gs.Totals {
		if total >= WinningTotal && (best == -1 || total > gs.Totals[best]) {
			best = seat
		}
	}
	if best >= 0 {
		gs.Won = gs.Players[best]
	}
}

// TurnOver reports whether the given seat's current turn has ended. It stays
// true until play rotates back and deals the seat a fresh line.
func (gs *GameState) TurnOver(seat int) bool {
	return gs.Terminal() || gs.Turns[seat].Terminal()
}

// LineScore values the given seat's current line as it stands.
func (gs *GameState) LineScore(seat int) int { return gs.Turns[seat].Score() }

// Clone deep-copies the state so simulations can play ahead freely.
func (gs *GameState) Clone() *GameState {
	totals := make([]int, len(gs.Totals))
	copy(totals, gs.Totals)
	turns := make([]TurnState, len(gs.Turns))
	copy(turns, gs.Turns)
	return &GameState{
		Players: gs.Players, // seat names never change, safe to share
		Totals:  totals,
		Turns:   turns,
		Deck:    gs.Deck.Clone(),
		Current: gs.Current,
		Round:   gs.Round,
		Won:     gs.Won,
	}
}

// Determinize rearranges the unseen remainder of the deck. Every card drawn
// so far is public, so shuffling the remaining pile samples one possible
// world consistent with the acting player's knowledge.
func (gs *GameState) Determinize(rng *rand.Rand) {
	gs.Deck.Shuffle(rng)
}

func (gs *GameState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "round %d, deck %d", gs.Round, gs.Deck.Remaining())
	for seat, name := range gs.Players {
		fmt.Fprintf(&b, " | %s %d %s", name, gs.Totals[seat], gs.Turns[seat])
		if seat == gs.Current && !gs.Terminal() {
			b.WriteString(" *")
		}
	}
	if gs.Terminal() {
		fmt.Fprintf(&b, " | winner %s", gs.Won)
	}
	return b.String()
}
