package searcher

import (
	"context"
	"errors"

	"chessbot/game"

	"golang.org/x/exp/rand"
)

type trialResult struct {
	score    float64
	plies    int
	gameOver bool
}

// trial plays move on a private copy of pos, continues with up to MovesAhead
// policy moves and scores the final position against an untouched copy.
// pos itself is only read.
func (r *Ranker) trial(ctx context.Context, pos game.Position, move game.Move, seed uint64) (trialResult, error) {
	mover := pos.Turn()
	before := pos.Clone()
	after := pos.Clone()
	if err := after.Play(move); err != nil {
		return trialResult{}, &RulesError{Op: "play candidate", Move: move, Err: err}
	}

	rng := rand.New(rand.NewSource(seed))
	plies := 0
	// Rollout till game over or for MovesAhead number of moves
	for plies < r.config.MovesAhead && !after.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return trialResult{}, err
		}
		moves := after.LegalMoves()
		if len(moves) == 0 {
			break
		}
		next := r.policy(moves, rng)
		if err := after.Play(next); err != nil {
			return trialResult{}, &RulesError{Op: "play rollout", Move: next, Err: err}
		}
		plies++
	}

	return trialResult{
		score:    r.evaluate(before, after, mover),
		plies:    plies,
		gameOver: after.IsGameOver(),
	}, nil
}

func aborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Evaluate returns the mean score of Cautiousness independent trials of move
// from pos. With a fixed seed the score equals the one the same move receives
// inside Rank.
func (r *Ranker) Evaluate(ctx context.Context, pos game.Position, move game.Move) (float64, error) {
	ranking, err := r.RankCandidates(ctx, pos, []game.Move{move}, 0)
	if err != nil {
		return 0, err
	}
	return ranking.Moves[0].Confidence, nil
}
