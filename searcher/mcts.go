package searcher

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/experiments/metrics"
	"github.com/JobCorpz/flip-seven-ai/game"
	"github.com/JobCorpz/flip-seven-ai/player"
)

type Option func(m *MCTS)

// MCTS decides hit or stay by determinized Monte Carlo tree search. Each
// episode shuffles the unseen deck into one concrete future, walks the tree
// over it, and scores how the acting player's turn ends; averaging over
// episodes averages over the player's actual uncertainty.
type MCTS struct {
	episodes    int
	flip7Weight float64
	policy      player.Policy
	rng         *rand.Rand
	collector   metrics.Collector
}

// WithFlip7Weight adds a reward bonus to episodes whose turn ends in a
// flip 7, steering the search toward seven-card lines.
func WithFlip7Weight(weight float64) Option {
	return func(m *MCTS) {
		m.flip7Weight = weight
	}
}

// WithRollout replaces the default random rollout policy.
func WithRollout(policy player.Policy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.policy = policy
		}
	}
}

// WithRand fixes the search's randomness for reproducible decisions.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithSeed is WithRand from a plain seed.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCollector counts search effort through the given collector.
func WithCollector(collector metrics.Collector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.collector = collector
		}
	}
}

func New(episodes int, options ...Option) *MCTS {
	if episodes <= 0 {
		panic("must specify a positive number of search episodes")
	}
	m := &MCTS{
		episodes:  episodes,
		collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if m.policy == nil {
		m.policy = player.NewRandom(rand.New(rand.NewSource(m.rng.Uint64())))
	}
	return m
}

// Decide searches the acting player's turn and returns the most visited root
// action. The tree is rebuilt from scratch on every call; the given state is
// never mutated.
func (m *MCTS) Decide(state *game.GameState) game.Action {
	legal := state.LegalActions()
	if len(legal) == 0 {
		return game.Stay
	}
	seat := state.Current
	banked := state.Totals[seat]

	t := newTree(legal)
	m.collector.Start()
	for episode := 0; episode < m.episodes; episode++ {
		m.simulate(t, state, seat, banked)
		m.collector.AddEpisode()
	}
	return t.bestAction()
}

// simulate runs one episode: sample a deck arrangement, walk the tree over
// it, finish the turn with the rollout policy, and record the outcome.
func (m *MCTS) simulate(t *tree, state *game.GameState, seat int, banked int) {
	sim := state.Clone()
	sim.Determinize(m.rng)
	id := m.selectThenExpand(t, sim, seat)
	reward := m.rollout(sim, seat, banked)
	t.backup(id, reward)
}

// selectThenExpand walks the tree over this episode's future, applying each
// step's action to the simulation, and grows the tree by at most one node.
// Walking stops early when this episode's cards end the turn at a node that
// stayed open under other arrangements.
func (m *MCTS) selectThenExpand(t *tree, sim *game.GameState, seat int) int {
	id := 0
	for !sim.TurnOver(seat) {
		if len(t.nodes[id].untried) > 0 {
			action := t.popUntried(id)
			m.play(sim, action)
			var untried []game.Action
			if !sim.TurnOver(seat) {
				untried = sim.LegalActions()
			}
			return t.addChild(id, action, untried)
		}

		child := t.bestChild(id)
		if child == noNode {
			return id
		}
		m.play(sim, t.nodes[child].action)
		id = child
	}
	return id
}

// rollout finishes the turn with the rollout policy and scores the episode:
// the points the turn banked, plus the flip-7 bonus weight when earned.
func (m *MCTS) rollout(sim *game.GameState, seat int, banked int) float64 {
	if player.Playout(sim, seat, m.policy) {
		m.collector.AddForcedStay()
	}
	reward := float64(sim.Totals[seat] - banked)
	if sim.Turns[seat].Flip7() {
		reward += m.flip7Weight
	}
	return reward
}

// play applies one action to a simulation, banking the accumulated line when
// the deck runs dry mid-hit.
func (m *MCTS) play(sim *game.GameState, action game.Action) {
	err := sim.Apply(action)
	if err == nil {
		return
	}
	if errors.Is(err, game.ErrEmptyDeck) {
		m.collector.AddForcedStay()
		err = sim.Apply(game.Stay)
	}
	if err != nil {
		log.Warn().Err(err).Msg("simulation step failed")
	}
}
