package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"
)

type Writer struct {
	baseDir  string
	compress bool
}

// NewWriter creates <dir>/<name>/<timestamp>/ for the records of one
// experiment. With compress set every file is written as .csv.zst.
func NewWriter(dir, name string, compress bool) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir:  baseDir,
		compress: compress,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// Path returns the file a table is written to.
func (w *Writer) Path(table string) string {
	if w.compress {
		return filepath.Join(w.baseDir, table+".csv.zst")
	}
	return filepath.Join(w.baseDir, table+".csv")
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "goroutines", "duration", "trial_budget", "temperature", "moves_ahead", "cautiousness", "defense_to_attack_ratio", "endpoint"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			string(config.Kind),
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.TrialBudget),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
			strconv.Itoa(config.Search.MovesAhead),
			strconv.Itoa(config.Search.Cautiousness),
			strconv.FormatFloat(config.Search.DefenseToAttackRatio, 'g', -1, 64),
			config.Endpoint,
		})
	}
	if err := w.writeTable("agent_configs", header, rows); err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "termination", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Winner,
			record.Termination,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	if err := w.writeTable("game_records", header, rows); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "goroutines", "candidates", "planned", "trials", "plies", "game_overs", "duration", "partial"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Move,
			strconv.Itoa(record.Goroutines),
			strconv.Itoa(record.Candidates),
			strconv.Itoa(record.Planned),
			strconv.FormatInt(record.Trials, 10),
			strconv.FormatInt(record.Plies, 10),
			strconv.FormatInt(record.GameOvers, 10),
			record.Duration.String(),
			strconv.FormatBool(record.Partial),
		})
	}
	if err := w.writeTable("move_records", header, rows); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func (w *Writer) writeTable(table string, header []string, rows [][]string) (err error) {
	f, err := os.Create(w.Path(table))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var out io.Writer = f
	if w.compress {
		enc, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return zerr
		}
		defer func() {
			if cerr := enc.Close(); err == nil {
				err = cerr
			}
		}()
		out = enc
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// FindTable returns the path of a table stored under dir, compressed or not.
func FindTable(dir, table string) (string, error) {
	for _, name := range []string{table + ".csv.zst", table + ".csv"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("table %s not found in %s", table, dir)
}

// ReadTable reads back a table written by a Writer, decompressing .zst files.
func ReadTable(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if filepath.Ext(path) == ".zst" {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		in = dec
	}
	return csv.NewReader(in).ReadAll()
}
