package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/JobCorpz/flip-seven-ai/engine"
	"github.com/JobCorpz/flip-seven-ai/experiments/metrics"
	"github.com/JobCorpz/flip-seven-ai/player"
	"github.com/JobCorpz/flip-seven-ai/searcher"
)

// AgentName is the seat name the searched player plays under in every
// recorded game.
const AgentName = "mcts"

// cell is one grid point of the comparison.
type cell struct {
	episodes int
	weight   float64
	opponent string
}

// job is one game of one cell, with its own pre-derived seed.
type job struct {
	id   int // 1-based game ID across the whole run
	cell cell
	seed uint64
}

// Runner plays every cell of a comparison grid: the searched agent in seat
// one against a baseline in seat two.
type Runner struct {
	config Config
}

func NewRunner(config Config) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	return &Runner{config: config}, nil
}

// Run plays the whole grid, Games games per cell, spread over Workers
// goroutines. Per-game seeds are all derived from the master seed before any
// game starts, so results do not depend on scheduling.
func (r *Runner) Run(ctx context.Context) ([]metrics.GameRecord, []metrics.CellSummary, error) {
	cells := r.grid()
	jobs := r.jobs(cells)
	records := make([]metrics.GameRecord, len(jobs))

	log.Info().Msgf("starting comparison: %d cells, %d games each, %d workers...",
		len(cells), r.config.Games, r.config.Workers)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.config.Workers)
	for _, j := range jobs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := r.playGame(j)
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			records[j.id-1] = record
			log.Debug().Msgf("completed game %d of %d with winner %s", j.id, len(jobs), record.Winner)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	log.Info().Msg("completed comparison")
	return records, r.summarize(cells, records), nil
}

// grid expands the config into cells, episodes-major.
func (r *Runner) grid() []cell {
	var cells []cell
	for _, episodes := range r.config.Episodes {
		for _, weight := range r.config.Weights {
			for _, opponent := range r.config.Opponents {
				cells = append(cells, cell{episodes: episodes, weight: weight, opponent: opponent})
			}
		}
	}
	return cells
}

// jobs assigns every game of every cell its ID and seed.
func (r *Runner) jobs(cells []cell) []job {
	master := rand.New(rand.NewSource(r.config.Seed))
	jobs := make([]job, 0, len(cells)*r.config.Games)
	for _, c := range cells {
		for i := 0; i < r.config.Games; i++ {
			jobs = append(jobs, job{id: len(jobs) + 1, cell: c, seed: master.Uint64()})
		}
	}
	return jobs
}

// playGame runs one seeded game of a cell: the searched agent against the
// cell's baseline opponent.
func (r *Runner) playGame(j job) (metrics.GameRecord, error) {
	rng := rand.New(rand.NewSource(j.seed))
	searchRng := rand.New(rand.NewSource(rng.Uint64()))
	opponentRng := rand.New(rand.NewSource(rng.Uint64()))
	dealRng := rand.New(rand.NewSource(rng.Uint64()))

	opponent, err := player.ByName(j.cell.opponent, opponentRng)
	if err != nil {
		return metrics.GameRecord{}, err
	}
	agent := searcher.New(j.cell.episodes,
		searcher.WithFlip7Weight(j.cell.weight),
		searcher.WithRand(searchRng),
	)

	e := engine.Local(
		[]string{AgentName, j.cell.opponent},
		[]player.Policy{agent, opponent},
		dealRng,
	)

	start := time.Now()
	winner, decisions := e.Run()

	return metrics.GameRecord{
		ID:            j.id,
		Episodes:      j.cell.episodes,
		Weight:        j.cell.weight,
		Opponent:      j.cell.opponent,
		Seed:          j.seed,
		Winner:        winner,
		AgentTotal:    e.State.Totals[0],
		OpponentTotal: e.State.Totals[1],
		Rounds:        e.State.Round,
		Decisions:     len(decisions),
		Duration:      time.Since(start),
	}, nil
}

// summarize folds game records into one row per cell. Jobs are laid out
// cell-major, so record i belongs to cell i/Games.
func (r *Runner) summarize(cells []cell, records []metrics.GameRecord) []metrics.CellSummary {
	summaries := make([]metrics.CellSummary, len(cells))
	for i, c := range cells {
		summaries[i] = metrics.CellSummary{
			Episodes: c.episodes,
			Weight:   c.weight,
			Opponent: c.opponent,
		}
	}
	for i, record := range records {
		s := &summaries[i/r.config.Games]
		s.Games++
		if record.Winner == AgentName {
			s.AgentWins++
		}
		s.MeanAgentTotal += float64(record.AgentTotal)
	}
	for i := range summaries {
		if summaries[i].Games > 0 {
			summaries[i].MeanAgentTotal /= float64(summaries[i].Games)
		}
	}
	return summaries
}
