package agent

import (
	"context"
	"errors"
	"fmt"

	"chessbot/communication"
	"chessbot/communication/client"
	"chessbot/game"
	"chessbot/searcher"
)

type fenPosition interface {
	game.Position
	FEN() string
}

type remoteAgent struct {
	client *client.Client
	config *searcher.Config
}

// NewRemoteAgent returns an agent that asks a ranking service for the top
// move. config overrides the service's rollout config when non-nil.
func NewRemoteAgent(c *client.Client, config *searcher.Config) Agent {
	return &remoteAgent{client: c, config: config}
}

func (a *remoteAgent) FindMove(ctx context.Context, pos game.Position) (game.Move, searcher.SearchMetric, error) {
	board, ok := pos.(fenPosition)
	if !ok {
		return game.Move{}, searcher.SearchMetric{}, errors.New("remote agent: position has no FEN")
	}
	ranked, err := a.client.Rank(ctx, communication.RankRequest{
		FEN:         board.FEN(),
		Limit:       1,
		AllowUnsafe: true,
		Config:      a.config,
	})
	if err != nil {
		return game.Move{}, searcher.SearchMetric{}, err
	}
	if len(ranked.Moves) == 0 {
		return game.Move{}, searcher.SearchMetric{}, searcher.ErrNoLegalMoves
	}
	top := ranked.Moves[0]
	for _, m := range pos.LegalMoves() {
		if m.String() == top.UCI {
			return m, searcher.SearchMetric{Candidates: len(ranked.Moves), Partial: ranked.Partial}, nil
		}
	}
	return game.Move{}, searcher.SearchMetric{}, fmt.Errorf("remote agent: service returned illegal move %s", top.UCI)
}
