package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSetup stores the experiment configuration as indented JSON.
func (w *Writer) WriteSetup(setup any) error {
	f, err := os.Create(filepath.Join(w.baseDir, "setup.json"))
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameMetrics(games []GameMetric) error {
	header := []string{"id", "policy", "winner", "human_score", "computer_score", "start_time", "end_time", "duration", "total_moves", "passes"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			strconv.Itoa(g.ID),
			g.Policy,
			g.Winner,
			strconv.Itoa(g.HumanScore),
			strconv.Itoa(g.ComputerScore),
			g.StartTime.Format(time.RFC3339),
			g.EndTime.Format(time.RFC3339),
			g.Duration.String(),
			strconv.Itoa(g.TotalMoves),
			strconv.Itoa(g.Passes),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveMetrics(moves []MoveMetric) error {
	header := []string{"game", "step", "agent", "move", "depth", "duration", "nodes", "leaves", "candidates"}
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, []string{
			strconv.Itoa(m.Game),
			strconv.Itoa(m.Step),
			m.Agent,
			m.Move,
			strconv.Itoa(m.Depth),
			m.Duration.String(),
			strconv.Itoa(m.Nodes),
			strconv.Itoa(m.Leaves),
			strconv.Itoa(m.Candidates),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
