package metrics

import (
	"time"

	"chessbot/searcher"
)

type AgentKind string

const (
	RankingAgent  AgentKind = "ranking"
	SamplingAgent AgentKind = "sampling"
	RandomAgent   AgentKind = "random"
	RemoteAgent   AgentKind = "remote"
)

type AgentConfig struct {
	ID          int
	Kind        AgentKind
	Goroutines  int
	Duration    time.Duration
	TrialBudget int
	Temperature float64 // Sampling agents only
	Endpoint    string  // Remote agents only
	Search      searcher.Config
}

type MoveMetric struct {
	Step   int
	Player string // Color of the mover
	Move   string // UCI
	searcher.SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty on a draw or an unfinished game
	Termination    string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID, plays white
	Agent2 int // AgentConfig.ID, plays black
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
