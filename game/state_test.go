package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// testGame builds a two-player game with a staged deck.
func testGame(t *testing.T, deck *Deck) *GameState {
	t.Helper()
	gs := NewGame([]string{"alice", "bob"}, rand.New(rand.NewSource(1)))
	gs.Deck = deck
	return gs
}

func TestNewGame(t *testing.T) {
	t.Run("fresh game", func(t *testing.T) {
		gs := NewGame([]string{"alice", "bob", "carol"}, rand.New(rand.NewSource(3)))
		require.Equal(t, []int{0, 0, 0}, gs.Totals)
		require.Equal(t, 0, gs.Current)
		require.Equal(t, 94, gs.Deck.Remaining())
		require.False(t, gs.Terminal())
		require.Equal(t, []Action{Hit, Stay}, gs.LegalActions())
	})

	t.Run("needs two players", func(t *testing.T) {
		require.Panics(t, func() {
			NewGame([]string{"alone"}, rand.New(rand.NewSource(3)))
		})
	})
}

func TestApplyStay(t *testing.T) {
	gs := testGame(t, DeckOf(NumberCard(7), NumberCard(2)))
	require.NoError(t, gs.Apply(Hit))
	require.NoError(t, gs.Apply(Stay))

	require.Equal(t, 7, gs.Totals[0], "staying banks the line")
	require.Equal(t, 1, gs.Current, "play rotates to the next seat")
	require.Equal(t, TurnState{}, gs.Turns[1], "the next seat starts a fresh line")
	require.Equal(t, Stayed, gs.Turns[0].Status, "the finished line stays visible until the next round")
}

func TestApplyBust(t *testing.T) {
	gs := testGame(t, DeckOf(NumberCard(3), NumberCard(5), NumberCard(3)))
	require.NoError(t, gs.Apply(Hit))
	require.NoError(t, gs.Apply(Hit))
	require.NoError(t, gs.Apply(Hit))

	require.Equal(t, Busted, gs.Turns[0].Status)
	require.Equal(t, 0, gs.Totals[0], "a bust banks nothing")
	require.Equal(t, 1, gs.Current, "a bust still ends the turn and rotates")
}

func TestApplyFlipSeven(t *testing.T) {
	gs := testGame(t, DeckOf(
		NumberCard(0), NumberCard(1), NumberCard(2), NumberCard(3),
		NumberCard(4), NumberCard(5), NumberCard(6),
	))
	for i := 0; i < 7; i++ {
		require.NoError(t, gs.Apply(Hit))
	}
	require.Equal(t, 36, gs.Totals[0], "flip 7 banks sum plus bonus without an explicit stay")
	require.Equal(t, 1, gs.Current)
}

func TestApplyFlipThree(t *testing.T) {
	t.Run("three forced draws on one hit", func(t *testing.T) {
		gs := testGame(t, DeckOf(
			ActionCard(FlipThree), NumberCard(1), NumberCard(2), NumberCard(3), NumberCard(9),
		))
		require.NoError(t, gs.Apply(Hit))
		require.Equal(t, Active, gs.Turns[0].Status)
		require.Equal(t, []int{1, 2, 3}, gs.Turns[0].Numbers.Values())
		require.Equal(t, 1, gs.Deck.Remaining(), "exactly four cards consumed")
	})

	t.Run("bust stops the sequence", func(t *testing.T) {
		gs := testGame(t, DeckOf(
			ActionCard(FlipThree), NumberCard(1), NumberCard(1), NumberCard(5),
		))
		require.NoError(t, gs.Apply(Hit))
		require.Equal(t, Busted, gs.Turns[0].Status)
		require.Equal(t, 1, gs.Deck.Remaining(), "the third forced draw never happens")
		require.Equal(t, 0, gs.Totals[0])
		require.Equal(t, 1, gs.Current)
	})

	t.Run("freeze stops the sequence and banks", func(t *testing.T) {
		gs := testGame(t, DeckOf(
			ActionCard(FlipThree), NumberCard(4), ActionCard(Freeze), NumberCard(9),
		))
		require.NoError(t, gs.Apply(Hit))
		require.Equal(t, Frozen, gs.Turns[0].Status)
		require.Equal(t, 4, gs.Totals[0])
		require.Equal(t, 1, gs.Deck.Remaining())
	})

	t.Run("nested flip three queues three more draws", func(t *testing.T) {
		gs := testGame(t, DeckOf(
			ActionCard(FlipThree), NumberCard(1), ActionCard(FlipThree),
			NumberCard(2), NumberCard(3), NumberCard(4), NumberCard(5), NumberCard(6),
		))
		require.NoError(t, gs.Apply(Hit))
		require.Equal(t, []int{1, 2, 3, 4, 5}, gs.Turns[0].Numbers.Values())
		require.Equal(t, 1, gs.Deck.Remaining(), "seven cards consumed, one left")
		require.Equal(t, Active, gs.Turns[0].Status)
	})

	t.Run("an empty deck ends the draws quietly", func(t *testing.T) {
		gs := testGame(t, DeckOf(ActionCard(FlipThree), NumberCard(8)))
		require.NoError(t, gs.Apply(Hit))
		require.Equal(t, Active, gs.Turns[0].Status, "the line stands as dealt")
		require.Equal(t, []int{8}, gs.Turns[0].Numbers.Values())
		require.Equal(t, 0, gs.Deck.Remaining())
	})
}

func TestApplyErrors(t *testing.T) {
	t.Run("hit on an empty deck leaves the state untouched", func(t *testing.T) {
		gs := testGame(t, DeckOf())
		err := gs.Apply(Hit)
		require.ErrorIs(t, err, ErrEmptyDeck)
		require.Equal(t, Active, gs.Turns[0].Status)
		require.Equal(t, 0, gs.Current)

		require.NoError(t, gs.Apply(Stay), "staying is still possible afterwards")
	})

	t.Run("a decided game accepts no actions", func(t *testing.T) {
		gs := testGame(t, DeckOf(NumberCard(1)))
		gs.Won = "alice"
		require.ErrorIs(t, gs.Apply(Hit), ErrInvalidAction)
		require.Empty(t, gs.LegalActions())
	})
}

func TestRoundBoundaryWin(t *testing.T) {
	t.Run("reaching the target mid-round does not end the game", func(t *testing.T) {
		gs := testGame(t, DeckOf(NumberCard(12), NumberCard(2)))
		gs.Totals[0] = 195
		require.NoError(t, gs.Apply(Hit))
		require.NoError(t, gs.Apply(Stay))

		require.Equal(t, 207, gs.Totals[0])
		require.False(t, gs.Terminal(), "bob still gets his turn")

		require.NoError(t, gs.Apply(Stay))
		require.True(t, gs.Terminal())
		require.Equal(t, "alice", gs.Winner())
		require.Equal(t, 1, gs.Round)
	})

	t.Run("highest total past the target wins", func(t *testing.T) {
		gs := testGame(t, DeckOf(NumberCard(12)))
		gs.Totals[0] = 201
		gs.Totals[1] = 198
		require.NoError(t, gs.Apply(Stay))
		require.NoError(t, gs.Apply(Hit))
		require.NoError(t, gs.Apply(Stay))

		require.Equal(t, 210, gs.Totals[1])
		require.Equal(t, "bob", gs.Winner())
	})

	t.Run("ties go to the earliest seat", func(t *testing.T) {
		gs := testGame(t, DeckOf())
		gs.Totals[0] = 203
		gs.Totals[1] = 203
		require.NoError(t, gs.Apply(Stay))
		require.NoError(t, gs.Apply(Stay))
		require.Equal(t, "alice", gs.Winner())
	})

	t.Run("no winner below the target", func(t *testing.T) {
		gs := testGame(t, DeckOf())
		gs.Totals[0] = 199
		gs.Totals[1] = 150
		require.NoError(t, gs.Apply(Stay))
		require.NoError(t, gs.Apply(Stay))
		require.False(t, gs.Terminal())
		require.Equal(t, 0, gs.Current, "play wraps back to the first seat")
		require.Equal(t, TurnState{}, gs.Turns[0], "the first seat starts a fresh line")
	})
}

func TestTurnOver(t *testing.T) {
	gs := testGame(t, DeckOf(NumberCard(4)))
	require.False(t, gs.TurnOver(0))
	require.NoError(t, gs.Apply(Hit))
	require.NoError(t, gs.Apply(Stay))
	require.True(t, gs.TurnOver(0), "stays true after rotation so simulations can read the result")
	require.False(t, gs.TurnOver(1))
}

func TestClone(t *testing.T) {
	gs := testGame(t, DeckOf(NumberCard(3), NumberCard(8), NumberCard(9)))
	require.NoError(t, gs.Apply(Hit))

	clone := gs.Clone()
	require.NoError(t, clone.Apply(Hit))
	require.NoError(t, clone.Apply(Stay))

	require.Equal(t, []int{3}, gs.Turns[0].Numbers.Values(), "the original line is untouched")
	require.Equal(t, 0, gs.Totals[0])
	require.Equal(t, 2, gs.Deck.Remaining())
	require.Equal(t, 11, clone.Totals[0])
}

func TestDeterminize(t *testing.T) {
	gs := NewGame([]string{"alice", "bob"}, rand.New(rand.NewSource(5)))
	require.NoError(t, gs.Apply(Hit))
	drawn := 94 - gs.Deck.Remaining()

	before := gs.Deck.Clone()
	gs.Determinize(rand.New(rand.NewSource(11)))
	require.Equal(t, before.Remaining(), gs.Deck.Remaining(), "determinizing draws nothing")
	require.ElementsMatch(t, before.cards, gs.Deck.cards, "determinizing only rearranges")
	require.GreaterOrEqual(t, drawn, 1, "the hit consumed at least one card")

	again := before.Clone()
	again.Shuffle(rand.New(rand.NewSource(11)))
	require.Equal(t, again.cards, gs.Deck.cards, "the same seed samples the same world")
}
