package metrics

import (
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
)

// DecisionRecord describes one real decision taken during a game.
type DecisionRecord struct {
	Game     int // game ID, assigned by the harness
	Step     int
	Seat     int
	Player   string
	Action   string
	Duration time.Duration
}

// GameRecord describes one finished game of a comparison grid.
type GameRecord struct {
	ID            int
	Episodes      int     // search budget of the MCTS seat
	Weight        float64 // flip-7 reward weight of the MCTS seat
	Opponent      string
	Seed          uint64
	Winner        string
	AgentTotal    int
	OpponentTotal int
	Rounds        int
	Decisions     int
	Duration      time.Duration
}

// TuningRecord describes the sampled outcome of forcing hit or stay once
// from the same state under a flip-7 weight.
type TuningRecord struct {
	Weight         float64
	Samples        int
	HitBustRate    float64
	HitMeanReward  float64
	StayMeanReward float64
}

// CellSummary aggregates every game of one grid cell.
type CellSummary struct {
	Episodes       int
	Weight         float64
	Opponent       string
	Games          int
	AgentWins      int
	MeanAgentTotal float64
}

func (s CellSummary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.AgentWins) / float64(s.Games)
}

// SearchMetric describes measured effort: the wall time of the last timed
// span plus counters that accumulate for the collector's lifetime.
type SearchMetric struct {
	Duration    time.Duration
	Episodes    int
	ForcedStays int // episodes cut short by an exhausted deck
}

// Collector times individual decisions and counts search effort.
type Collector interface {
	Start()
	AddEpisode()
	AddForcedStay()
	Complete() SearchMetric
}

type collector struct {
	clock       quartz.Clock
	started     time.Time
	episodes    atomic.Int32
	forcedStays atomic.Int32
}

// NewCollector builds a collector on the given clock, or the real clock when
// nil. Tests inject a mock to make durations exact.
func NewCollector(clock quartz.Clock) Collector {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &collector{clock: clock}
}

func (c *collector) Start() {
	c.started = c.clock.Now()
}

func (c *collector) AddEpisode() {
	c.episodes.Add(1)
}

func (c *collector) AddForcedStay() {
	c.forcedStays.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:    c.clock.Since(c.started),
		Episodes:    int(c.episodes.Load()),
		ForcedStays: int(c.forcedStays.Load()),
	}
}

type dummyCollector struct{}

// NewDummyCollector builds a collector that measures nothing.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (dummyCollector) Start()                 {}
func (dummyCollector) AddEpisode()            {}
func (dummyCollector) AddForcedStay()         {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
