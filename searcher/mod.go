package searcher

import (
	"errors"
	"fmt"

	"chessbot/game"
	"chessbot/meta"
)

var (
	// ErrNoLegalMoves signals a terminal position (checkmate or stalemate).
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrNoSafeCandidate signals that every legal move lands on an attacked
	// square. Callers may fall back to RankCandidates over all legal moves.
	ErrNoSafeCandidate = errors.New("no safe candidate")
	// ErrBudgetExhausted is returned when the search budget ran out before any
	// candidate completed a single trial.
	ErrBudgetExhausted = errors.New("search budget exhausted")
	ErrInvalidConfig   = errors.New("invalid rollout config")
	ErrRandomness      = errors.New("randomness source failed")
)

// RulesError wraps a failure reported by the rules engine.
type RulesError struct {
	Op   string
	Move game.Move
	Err  error
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("rules engine: %s %s: %v", e.Op, e.Move, e.Err)
}

func (e *RulesError) Unwrap() error {
	return e.Err
}

// Config holds the rollout parameters, fixed for the lifetime of a Ranker.
type Config struct {
	MovesAhead           int     `yaml:"moves_ahead" json:"moves_ahead"`
	Cautiousness         int     `yaml:"cautiousness" json:"cautiousness"`
	DefenseToAttackRatio float64 `yaml:"defense_to_attack_ratio" json:"defense_to_attack_ratio"`
}

func (c Config) Validate() error {
	if c.MovesAhead < 0 || c.MovesAhead > meta.MAX_MOVES_AHEAD {
		return fmt.Errorf("%w: moves ahead %d must be between 0 and %d", ErrInvalidConfig, c.MovesAhead, meta.MAX_MOVES_AHEAD)
	}
	if c.Cautiousness < 1 || c.Cautiousness > meta.MAX_CAUTIOUSNESS {
		return fmt.Errorf("%w: cautiousness %d must be between 1 and %d", ErrInvalidConfig, c.Cautiousness, meta.MAX_CAUTIOUSNESS)
	}
	if c.DefenseToAttackRatio < 0 {
		return fmt.Errorf("%w: defense to attack ratio %g is negative", ErrInvalidConfig, c.DefenseToAttackRatio)
	}
	return nil
}

// ScoredMove pairs a candidate with its mean trial score. Confidence is a
// relative ranking signal, not a probability.
type ScoredMove struct {
	Move       game.Move
	Confidence float64
	Trials     int
}

// Ranking is the ordered result of a ranking pass. Partial is set when a time
// or trial budget cut the search short.
type Ranking struct {
	Moves   []ScoredMove
	Partial bool
	Metrics SearchMetric
}
