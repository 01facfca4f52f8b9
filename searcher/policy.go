package searcher

import (
	"chessbot/game"

	"golang.org/x/exp/rand"
)

// Policy picks the next rollout move from a non-empty list of legal moves.
type Policy func(moves []game.Move, rng *rand.Rand) game.Move

// UniformPolicy picks uniformly at random.
func UniformPolicy(moves []game.Move, rng *rand.Rand) game.Move {
	return moves[rng.Intn(len(moves))]
}

// FirstMovePolicy always plays the first enumerated move, which makes
// rollouts fully deterministic.
func FirstMovePolicy(moves []game.Move, _ *rand.Rand) game.Move {
	return moves[0]
}
