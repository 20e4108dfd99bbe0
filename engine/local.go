package engine

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/experiments/metrics"
	"github.com/JobCorpz/flip-seven-ai/game"
	"github.com/JobCorpz/flip-seven-ai/player"
)

// MaxDecisions caps a single game as a safety net against seats that never
// let their turn end.
const MaxDecisions = 10000

// Engine drives one real game between seated policies.
type Engine struct {
	State *game.GameState
	Seats []player.Policy

	// Collector times each decision; nil skips timing.
	Collector metrics.Collector
}

// Local seats the given policies around a fresh game.
func Local(players []string, seats []player.Policy, rng *rand.Rand) *Engine {
	if len(players) != len(seats) {
		panic("number of players does not match number of seats")
	}
	return &Engine{
		State: game.NewGame(players, rng),
		Seats: seats,
	}
}

// Run executes the game loop until a winner is decided and returns the
// winner plus one record per decision taken. When the deck runs out first,
// the game is called for the highest banked total, earliest seat on ties.
func (e *Engine) Run() (string, []metrics.DecisionRecord) {
	collector := e.Collector
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}

	log.Debug().Msgf("game starting: %s", e.State)

	var records []metrics.DecisionRecord
	for step := 1; !e.State.Terminal() && step <= MaxDecisions; step++ {
		seat := e.State.Current

		collector.Start()
		action := e.Seats[seat].Decide(e.State)
		elapsed := collector.Complete().Duration

		err := e.State.Apply(action)
		records = append(records, metrics.DecisionRecord{
			Step:     step,
			Seat:     seat,
			Player:   e.State.Players[seat],
			Action:   action.String(),
			Duration: elapsed,
		})
		if err != nil {
			if errors.Is(err, game.ErrEmptyDeck) {
				// Bank the accumulated line as final, then call the game.
				log.Debug().Msg("deck exhausted, calling the game")
				_ = e.State.Apply(game.Stay)
				break
			}
			// A seat played an illegal action: end its turn and move on.
			log.Warn().Err(err).Msgf("forcing a stay for seat %d", seat)
			if err := e.State.Apply(game.Stay); err != nil {
				break
			}
		}

		log.Debug().Msgf("%s by %s: %s", action, records[len(records)-1].Player, e.State)
	}

	winner := e.State.Winner()
	if winner == "" {
		winner = leader(e.State)
		log.Debug().Msgf("no winner on points, %s leads", winner)
	}
	return winner, records
}

// leader is the seat with the highest banked total, earliest seat on ties.
func leader(state *game.GameState) string {
	best := 0
	for seat, total := range state.Totals {
		if total > state.Totals[best] {
			best = seat
		}
	}
	return state.Players[best]
}
