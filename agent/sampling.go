package agent

import (
	"context"
	"math"
	"sync"

	"chessbot/game"
	"chessbot/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	ranker      *searcher.Ranker
	temperature float64
	mu          sync.Mutex
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples among all ranked moves with
// probabilities given by a softmax over confidences. Lower temperatures favour
// the top move more strongly.
func NewSamplingAgent(ranker *searcher.Ranker, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &samplingAgent{
		ranker:      ranker,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *samplingAgent) FindMove(ctx context.Context, pos game.Position) (game.Move, searcher.SearchMetric, error) {
	ranking, err := rankWithFallback(ctx, a.ranker, pos, 0)
	if err != nil {
		return game.Move{}, searcher.SearchMetric{}, err
	}
	policy := adjustTemperature(ranking.Moves, a.temperature)

	a.mu.Lock()
	sampled := a.rng.Float64()
	a.mu.Unlock()
	return sample(ranking.Moves, policy, sampled), ranking.Metrics, nil
}

func adjustTemperature(moves []searcher.ScoredMove, temperature float64) []float64 {
	// Shift by the maximum to keep the exponentials finite
	best := math.Inf(-1)
	for _, m := range moves {
		best = math.Max(best, m.Confidence)
	}
	sum := 0.0
	policy := make([]float64, len(moves))
	for i, m := range moves {
		policy[i] = math.Exp((m.Confidence - best) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(moves []searcher.ScoredMove, policy []float64, sampled float64) game.Move {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return moves[i].Move
		}
	}
	return moves[len(moves)-1].Move // Fallback in case of rounding errors
}
