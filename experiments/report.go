package experiments

import (
	"fmt"
	"strconv"

	"chessbot/experiments/metrics"
	"chessbot/game"
)

// Standing sums up the games one agent played in an experiment.
type Standing struct {
	Agent  int
	Kind   metrics.AgentKind
	Games  int
	Wins   int
	Losses int
	Draws  int
}

// Summarize reads the records stored in dir and returns one standing per
// agent, in the order of the agent configs.
func Summarize(dir string) ([]Standing, error) {
	configs, err := readTable(dir, "agent_configs")
	if err != nil {
		return nil, err
	}
	games, err := readTable(dir, "game_records")
	if err != nil {
		return nil, err
	}

	standings := []Standing{}
	index := map[int]int{}
	for _, row := range configs {
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("agent config id %q: %w", row[0], err)
		}
		index[id] = len(standings)
		standings = append(standings, Standing{Agent: id, Kind: metrics.AgentKind(row[1])})
	}

	for _, row := range games {
		// id, agent1 (white), agent2 (black), starting_player, winner, ...
		white, err := lookup(index, row[1])
		if err != nil {
			return nil, err
		}
		black, err := lookup(index, row[2])
		if err != nil {
			return nil, err
		}
		standings[white].Games++
		standings[black].Games++
		switch row[4] {
		case game.White.String():
			standings[white].Wins++
			standings[black].Losses++
		case game.Black.String():
			standings[black].Wins++
			standings[white].Losses++
		default:
			standings[white].Draws++
			standings[black].Draws++
		}
	}
	return standings, nil
}

// readTable returns the rows of a stored table without its header.
func readTable(dir, table string) ([][]string, error) {
	path, err := metrics.FindTable(dir, table)
	if err != nil {
		return nil, err
	}
	rows, err := metrics.ReadTable(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: missing header", path)
	}
	return rows[1:], nil
}

func lookup(index map[int]int, field string) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("agent id %q: %w", field, err)
	}
	i, ok := index[id]
	if !ok {
		return 0, fmt.Errorf("unknown agent %d in game records", id)
	}
	return i, nil
}
