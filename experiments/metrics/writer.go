package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer exports experiment records as CSV files under a timestamped run
// directory.
type Writer struct {
	baseDir string
}

func NewWriter(dir string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// BaseDir is the run directory the files land in.
func (w *Writer) BaseDir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{
		"id", "episodes", "weight", "opponent", "seed", "winner",
		"agent_total", "opponent_total", "rounds", "decisions", "duration",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Episodes),
			strconv.FormatFloat(record.Weight, 'f', -1, 64),
			record.Opponent,
			strconv.FormatUint(record.Seed, 10),
			record.Winner,
			strconv.Itoa(record.AgentTotal),
			strconv.Itoa(record.OpponentTotal),
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Decisions),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "decision_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create decision records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"game", "step", "seat", "player", "action", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write decision records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Seat),
			record.Player,
			record.Action,
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write decision record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteCellSummaries(summaries []CellSummary) error {
	// Create a file
	path := filepath.Join(w.baseDir, "cell_summaries.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cell summaries file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{
		"episodes", "weight", "opponent", "games", "agent_wins", "win_rate", "mean_agent_total",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write cell summaries header: %w", err)
	}

	// Write each row
	for _, summary := range summaries {
		row := []string{
			strconv.Itoa(summary.Episodes),
			strconv.FormatFloat(summary.Weight, 'f', -1, 64),
			summary.Opponent,
			strconv.Itoa(summary.Games),
			strconv.Itoa(summary.AgentWins),
			strconv.FormatFloat(summary.WinRate(), 'f', 4, 64),
			strconv.FormatFloat(summary.MeanAgentTotal, 'f', 2, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write cell summary row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteTuningRecords(records []TuningRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "tuning_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tuning records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{
		"weight", "samples", "hit_bust_rate", "hit_mean_reward", "stay_mean_reward",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write tuning records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.FormatFloat(record.Weight, 'f', -1, 64),
			strconv.Itoa(record.Samples),
			strconv.FormatFloat(record.HitBustRate, 'f', 4, 64),
			strconv.FormatFloat(record.HitMeanReward, 'f', 4, 64),
			strconv.FormatFloat(record.StayMeanReward, 'f', 4, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write tuning record row: %w", err)
		}
	}

	return nil
}
