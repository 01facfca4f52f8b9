package agent

import (
	"context"
	"sync"

	"chessbot/game"
	"chessbot/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(_ context.Context, pos game.Position) (game.Move, searcher.SearchMetric, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, searcher.SearchMetric{}, searcher.ErrNoLegalMoves
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return searcher.UniformPolicy(moves, a.rng), searcher.SearchMetric{}, nil
}
