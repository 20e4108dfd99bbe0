package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/engine"
	"github.com/JobCorpz/flip-seven-ai/experiments"
	"github.com/JobCorpz/flip-seven-ai/experiments/metrics"
	"github.com/JobCorpz/flip-seven-ai/game"
	"github.com/JobCorpz/flip-seven-ai/player"
	"github.com/JobCorpz/flip-seven-ai/searcher"
)

type CLI struct {
	Play       PlayCmd       `cmd:"" help:"Play one full game, search agent versus a fixed opponent"`
	Experiment ExperimentCmd `cmd:"" help:"Run the experiment grid from a config file"`
	Tune       TuneCmd       `cmd:"" help:"Estimate hit and stay values across flip-7 weights"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("flipseven"),
		kong.Description("Monte Carlo tree search agent for the Flip 7 card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// setupLogging installs a global zerolog logger with pretty console output.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func seedOrNow(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return uint64(time.Now().UnixNano())
}

// PlayCmd contains the single-game configuration.
type PlayCmd struct {
	Episodes int     `kong:"default='1000',help='Search episodes per decision'"`
	Weight   float64 `kong:"default='50',help='Bonus reward for completing a flip 7'"`
	Opponent string  `kong:"default='threshold',help='Opponent policy (random or threshold)'"`
	Seed     *uint64 `kong:"help='Deterministic RNG seed (optional)'"`
	Out      string  `kong:"type='path',help='Directory to write decision records to (optional)'"`
	Debug    bool    `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	setupLogging(c.Debug)

	seed := seedOrNow(c.Seed)
	log.Info().Uint64("seed", seed).Msg("Starting game")
	rng := rand.New(rand.NewSource(seed))

	opponent, err := player.ByName(c.Opponent, rand.New(rand.NewSource(rng.Uint64())))
	if err != nil {
		return err
	}
	searchEffort := metrics.NewCollector(nil)
	agent := searcher.New(c.Episodes,
		searcher.WithFlip7Weight(c.Weight),
		searcher.WithRand(rand.New(rand.NewSource(rng.Uint64()))),
		searcher.WithCollector(searchEffort),
	)

	e := engine.Local(
		[]string{experiments.AgentName, c.Opponent},
		[]player.Policy{agent, opponent},
		rng,
	)
	e.Collector = metrics.NewCollector(nil)
	winner, decisions := e.Run()

	effort := searchEffort.Complete()
	log.Info().
		Int("episodes", effort.Episodes).
		Int("forced_stays", effort.ForcedStays).
		Msg("Search effort over the game")
	printGame(e.State, winner, len(decisions))

	if c.Out == "" {
		return nil
	}
	writer, err := metrics.NewWriter(c.Out)
	if err != nil {
		return err
	}
	for i := range decisions {
		decisions[i].Game = 1
	}
	if err := writer.WriteDecisionRecords(decisions); err != nil {
		return err
	}
	log.Info().Msgf("Wrote %d decision records to %s", len(decisions), writer.BaseDir())
	return nil
}

// ExperimentCmd sweeps the search budget, flip-7 weight, and opponent grid.
type ExperimentCmd struct {
	Config string `kong:"type='path',default='experiment.hcl',help='Path to the experiment config'"`
	Out    string `kong:"type='path',default='results',help='Directory to write result CSVs to'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ExperimentCmd) Run() error {
	setupLogging(c.Debug)

	config, err := experiments.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	runner, err := experiments.NewRunner(config)
	if err != nil {
		return err
	}
	records, summaries, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	writer, err := metrics.NewWriter(c.Out)
	if err != nil {
		return err
	}
	if err := writer.WriteGameRecords(records); err != nil {
		return err
	}
	if err := writer.WriteCellSummaries(summaries); err != nil {
		return err
	}
	log.Info().Msgf("Wrote %d game records to %s", len(records), writer.BaseDir())

	printSummaries(summaries)
	return nil
}

// TuneCmd estimates hit and stay values from one warmed-up opening line.
type TuneCmd struct {
	Samples []int     `kong:"default='10,100,1000',help='Rollout sample counts to sweep'"`
	Weights []float64 `kong:"default='0,10,25,50,100',help='Flip-7 weights to sweep'"`
	Hits    int       `kong:"default='3',help='Warm-up hits before measuring'"`
	Seed    uint64    `kong:"default='1',help='Deterministic RNG seed'"`
	Out     string    `kong:"type='path',default='results',help='Directory to write result CSVs to'"`
	Debug   bool      `kong:"help='Enable debug logging'"`
}

func (c *TuneCmd) Run() error {
	setupLogging(c.Debug)

	rng := rand.New(rand.NewSource(c.Seed))
	state, err := openingState(c.Hits, rand.New(rand.NewSource(rng.Uint64())))
	if err != nil {
		return err
	}
	log.Info().Msgf("Measuring from: %s", state)

	records := make([]metrics.TuningRecord, 0, len(c.Weights)*len(c.Samples))
	for _, weight := range c.Weights {
		for _, samples := range c.Samples {
			record := experiments.EstimateHitStay(state, samples, weight, rand.New(rand.NewSource(rng.Uint64())))
			records = append(records, record)
		}
	}

	writer, err := metrics.NewWriter(c.Out)
	if err != nil {
		return err
	}
	if err := writer.WriteTuningRecords(records); err != nil {
		return err
	}
	log.Info().Msgf("Wrote %d tuning records to %s", len(records), writer.BaseDir())
	return nil
}

// openingState deals a fresh game and plays the given number of hits so the
// measured decision sits mid-line, where hit and stay genuinely compete.
// Lines that bust or finish during the warm-up are redealt.
func openingState(hits int, rng *rand.Rand) (*game.GameState, error) {
	for attempt := 0; attempt < 100; attempt++ {
		state := game.NewGame([]string{experiments.AgentName, "dealer"}, rand.New(rand.NewSource(rng.Uint64())))
		alive := true
		for i := 0; i < hits && alive; i++ {
			if err := state.Apply(game.Hit); err != nil || state.TurnOver(0) {
				alive = false
			}
		}
		if alive {
			return state, nil
		}
	}
	return nil, fmt.Errorf("no opening line survived %d hits", hits)
}

func printGame(state *game.GameState, winner string, decisions int) {
	out := termenv.NewOutput(os.Stdout)
	fmt.Printf("%d rounds, %d decisions\n", state.Round, decisions)
	for seat, name := range state.Players {
		line := fmt.Sprintf("  %-12s %4d", name, state.Totals[seat])
		if name == winner {
			fmt.Println(out.String(line + "  winner").Foreground(out.Color("10")))
			continue
		}
		fmt.Println(line)
	}
}

func printSummaries(summaries []metrics.CellSummary) {
	out := termenv.NewOutput(os.Stdout)
	fmt.Printf("%-10s %-8s %-12s %-7s %s\n", "episodes", "weight", "opponent", "games", "win rate")
	for _, s := range summaries {
		rate := out.String(fmt.Sprintf("%.2f", s.WinRate()))
		switch {
		case s.WinRate() >= 0.5:
			rate = rate.Foreground(out.Color("10"))
		case s.WinRate() >= 0.25:
			rate = rate.Foreground(out.Color("11"))
		default:
			rate = rate.Foreground(out.Color("9"))
		}
		fmt.Printf("%-10d %-8.0f %-12s %-7d %s\n", s.Episodes, s.Weight, s.Opponent, s.Games, rate)
	}
}
