package agent

import (
	"context"

	"chessbot/game"
	"chessbot/searcher"
)

type rankingAgent struct {
	ranker *searcher.Ranker
}

// NewRankingAgent returns an agent that always plays the top ranked move.
func NewRankingAgent(ranker *searcher.Ranker) Agent {
	return &rankingAgent{ranker: ranker}
}

func (a *rankingAgent) FindMove(ctx context.Context, pos game.Position) (game.Move, searcher.SearchMetric, error) {
	ranking, err := rankWithFallback(ctx, a.ranker, pos, 1)
	if err != nil {
		return game.Move{}, searcher.SearchMetric{}, err
	}
	return ranking.Moves[0].Move, ranking.Metrics, nil
}
