package player

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/game"
)

func twoSeatGame(t *testing.T, deck *game.Deck) *game.GameState {
	t.Helper()
	gs := game.NewGame([]string{"alice", "bob"}, rand.New(rand.NewSource(1)))
	gs.Deck = deck
	return gs
}

func TestRandom(t *testing.T) {
	t.Run("only plays legal actions", func(t *testing.T) {
		policy := NewRandom(rand.New(rand.NewSource(9)))
		gs := twoSeatGame(t, game.NewDeck())
		for i := 0; i < 50; i++ {
			action := policy.Decide(gs)
			require.Contains(t, gs.LegalActions(), action)
		}
	})

	t.Run("stays on a decided game", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf())
		gs.Won = "alice"
		policy := NewRandom(rand.New(rand.NewSource(9)))
		require.Equal(t, game.Stay, policy.Decide(gs))
	})

	t.Run("same seed gives the same decisions", func(t *testing.T) {
		gs := twoSeatGame(t, game.NewDeck())
		a := NewRandom(rand.New(rand.NewSource(4)))
		b := NewRandom(rand.New(rand.NewSource(4)))
		for i := 0; i < 20; i++ {
			require.Equal(t, a.Decide(gs), b.Decide(gs))
		}
	})
}

func TestThreshold(t *testing.T) {
	t.Run("hits below the target", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf(game.NumberCard(9)))
		policy := NewThreshold(15)
		require.Equal(t, game.Hit, policy.Decide(gs), "an empty line is worth 0")

		require.NoError(t, gs.Apply(game.Hit))
		require.Equal(t, game.Hit, policy.Decide(gs), "9 is still below 15")
	})

	t.Run("stays at the target", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf(
			game.NumberCard(2), game.NumberCard(4),
			game.MultiplierCard(), game.ModifierCard(5),
		))
		policy := NewThreshold(15)
		for i := 0; i < 4; i++ {
			require.NoError(t, gs.Apply(game.Hit))
		}
		require.Equal(t, 17, gs.LineScore(0), "(2+4)*2 + 5")
		require.Equal(t, game.Stay, policy.Decide(gs))
	})

	t.Run("zero target falls back to the default", func(t *testing.T) {
		require.Equal(t, DefaultThreshold, NewThreshold(0).Target)
	})
}

func TestByName(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	policy, err := ByName("random", rng)
	require.NoError(t, err)
	require.IsType(t, &Random{}, policy)

	policy, err = ByName("threshold", rng)
	require.NoError(t, err)
	require.IsType(t, &Threshold{}, policy)

	_, err = ByName("psychic", rng)
	require.Error(t, err)
	require.Contains(t, err.Error(), "psychic")
}

// alwaysHit drives a line until something stops it.
type alwaysHit struct{}

func (alwaysHit) Decide(*game.GameState) game.Action { return game.Hit }

func TestPlayout(t *testing.T) {
	t.Run("plays the turn to completion", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf(
			game.NumberCard(3), game.NumberCard(8), game.NumberCard(3),
		))
		require.False(t, Playout(gs, 0, alwaysHit{}))
		require.True(t, gs.TurnOver(0))
		require.Equal(t, game.Busted, gs.Turns[0].Status)
	})

	t.Run("banks the line when the deck runs out", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf(game.NumberCard(5), game.NumberCard(7)))
		require.True(t, Playout(gs, 0, alwaysHit{}), "the empty deck forced the bank")
		require.True(t, gs.TurnOver(0))
		require.Equal(t, game.Stayed, gs.Turns[0].Status)
		require.Equal(t, 12, gs.Totals[0], "the accumulated line counts as final")
	})

	t.Run("stops as soon as the policy banks", func(t *testing.T) {
		gs := twoSeatGame(t, game.DeckOf(game.NumberCard(6), game.NumberCard(9)))
		require.False(t, Playout(gs, 0, NewThreshold(5)))
		require.Equal(t, game.Stayed, gs.Turns[0].Status)
		require.Equal(t, 6, gs.Totals[0], "one draw reaches the target")
		require.Equal(t, 1, gs.Deck.Remaining())
	})
}
