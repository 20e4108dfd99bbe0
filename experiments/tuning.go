package experiments

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/experiments/metrics"
	"github.com/JobCorpz/flip-seven-ai/game"
	"github.com/JobCorpz/flip-seven-ai/player"
)

// EstimateHitStay samples both root actions from the same state: each sample
// determinizes the deck, forces hit or stay, finishes the turn with a random
// rollout, and scores it the way the search would. The spread between the
// two means shows how a flip-7 weight tilts the root decision.
func EstimateHitStay(state *game.GameState, samples int, weight float64, rng *rand.Rand) metrics.TuningRecord {
	if samples <= 0 {
		panic("must specify a positive number of samples")
	}
	seat := state.Current
	banked := state.Totals[seat]
	rollout := player.NewRandom(rand.New(rand.NewSource(rng.Uint64())))

	var hitSum, staySum float64
	busts := 0
	for i := 0; i < samples; i++ {
		hit := state.Clone()
		hit.Determinize(rng)
		if err := hit.Apply(game.Hit); err != nil {
			// Empty deck: the forced hit banks the line as it stands
			_ = hit.Apply(game.Stay)
		} else {
			if hit.Turns[seat].Status == game.Busted {
				busts++
			}
			player.Playout(hit, seat, rollout)
		}
		hitSum += sampleReward(hit, seat, banked, weight)

		stay := state.Clone()
		stay.Determinize(rng)
		_ = stay.Apply(game.Stay)
		staySum += sampleReward(stay, seat, banked, weight)
	}

	record := metrics.TuningRecord{
		Weight:         weight,
		Samples:        samples,
		HitBustRate:    float64(busts) / float64(samples),
		HitMeanReward:  hitSum / float64(samples),
		StayMeanReward: staySum / float64(samples),
	}
	log.Debug().Msgf("weight %v over %d samples: hit %.2f, stay %.2f, bust rate %.2f",
		weight, samples, record.HitMeanReward, record.StayMeanReward, record.HitBustRate)
	return record
}

// sampleReward scores one finished sample: banked delta plus the flip-7
// weight when the turn earned it.
func sampleReward(sim *game.GameState, seat int, banked int, weight float64) float64 {
	reward := float64(sim.Totals[seat] - banked)
	if sim.Turns[seat].Flip7() {
		reward += weight
	}
	return reward
}
