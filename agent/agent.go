package agent

import (
	"context"
	"errors"

	"chessbot/game"
	"chessbot/searcher"
)

type Agent interface {
	// FindMove returns the move to play and the search metrics (if collected)
	FindMove(ctx context.Context, pos game.Position) (game.Move, searcher.SearchMetric, error)
}

// rankWithFallback ranks the safe moves of pos, or every legal move when none
// is safe.
func rankWithFallback(ctx context.Context, ranker *searcher.Ranker, pos game.Position, limit int) (searcher.Ranking, error) {
	ranking, err := ranker.Rank(ctx, pos, limit)
	if errors.Is(err, searcher.ErrNoSafeCandidate) {
		return ranker.RankCandidates(ctx, pos, pos.LegalMoves(), limit)
	}
	return ranking, err
}
