package experiments

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/exp/rand"

	"github.com/JobCorpz/flip-seven-ai/player"
)

// Config describes one comparison grid: every combination of search budget,
// flip-7 weight, and opponent plays Games games.
type Config struct {
	Episodes  []int     `hcl:"episodes,optional"`
	Weights   []float64 `hcl:"weights,optional"`
	Opponents []string  `hcl:"opponents,optional"`
	Games     int       `hcl:"games,optional"`
	Seed      uint64    `hcl:"seed,optional"`
	Workers   int       `hcl:"workers,optional"`
}

// DefaultConfig is the grid used when no file is given.
func DefaultConfig() Config {
	return Config{
		Episodes:  []int{10, 100, 1000},
		Weights:   []float64{0, 10, 25, 50, 100},
		Opponents: []string{"random", "threshold"},
		Games:     20,
		Seed:      1,
		Workers:   runtime.NumCPU(),
	}
}

// LoadConfig loads a grid description from an HCL file. A missing file means
// the default grid; fields left out of the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if len(config.Episodes) == 0 {
		config.Episodes = defaults.Episodes
	}
	if len(config.Weights) == 0 {
		config.Weights = defaults.Weights
	}
	if len(config.Opponents) == 0 {
		config.Opponents = defaults.Opponents
	}
	if config.Games == 0 {
		config.Games = defaults.Games
	}
	if config.Seed == 0 {
		config.Seed = defaults.Seed
	}
	if config.Workers == 0 {
		config.Workers = defaults.Workers
	}

	return config, nil
}

// Validate rejects grids that cannot run.
func (c Config) Validate() error {
	if len(c.Episodes) == 0 {
		return fmt.Errorf("no episode budgets given")
	}
	for _, episodes := range c.Episodes {
		if episodes <= 0 {
			return fmt.Errorf("episode budgets must be positive, got %d", episodes)
		}
	}
	if len(c.Weights) == 0 {
		return fmt.Errorf("no flip-7 weights given")
	}
	if len(c.Opponents) == 0 {
		return fmt.Errorf("no opponents given")
	}
	for _, name := range c.Opponents {
		if _, err := player.ByName(name, rand.New(rand.NewSource(1))); err != nil {
			return err
		}
	}
	if c.Games <= 0 {
		return fmt.Errorf("games per cell must be positive, got %d", c.Games)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
