package agent

import (
	"context"
	"testing"

	"chessbot/game"
	"chessbot/searcher"

	"github.com/stretchr/testify/require"
)

// Black queen on b2 gives check; Kxb2 is the only legal move.
const captureFEN = "7k/8/8/8/8/8/1q6/K7 w - - 0 1"

// The white king is boxed in by the queen and both pawn pushes run into the rook.
const unsafeFEN = "4k2r/8/8/8/8/8/2q4P/K7 w - - 0 1"

func newRanker(t *testing.T) *searcher.Ranker {
	t.Helper()
	r, err := searcher.NewRanker(
		searcher.Config{MovesAhead: 2, Cautiousness: 3, DefenseToAttackRatio: 6},
		searcher.WithSeed(1), searcher.WithMetrics(),
	)
	require.NoError(t, err)
	return r
}

func parseBoard(t *testing.T, fen string) *game.Board {
	t.Helper()
	b, err := game.ParseFEN(fen)
	require.NoError(t, err)
	return b
}

func TestRankingAgent(t *testing.T) {
	t.Run("plays the only move", func(t *testing.T) {
		a := NewRankingAgent(newRanker(t))
		move, metric, err := a.FindMove(context.Background(), parseBoard(t, captureFEN))
		require.NoError(t, err)
		require.Equal(t, "a1b2", move.String())
		require.Equal(t, int64(3), metric.Trials)
	})

	t.Run("falls back to unsafe moves", func(t *testing.T) {
		b := parseBoard(t, unsafeFEN)
		require.Empty(t, searcher.FilterSafe(b, b.LegalMoves()))

		a := NewRankingAgent(newRanker(t))
		move, _, err := a.FindMove(context.Background(), b)
		require.NoError(t, err)
		require.Contains(t, b.LegalMoves(), move)
	})

	t.Run("no legal moves", func(t *testing.T) {
		b := parseBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
		a := NewRankingAgent(newRanker(t))
		_, _, err := a.FindMove(context.Background(), b)
		require.ErrorIs(t, err, searcher.ErrNoLegalMoves)
	})
}

func TestSamplingAgent(t *testing.T) {
	t.Run("plays legal moves", func(t *testing.T) {
		b := game.NewBoard()
		a := NewSamplingAgent(newRanker(t), 0.5, 3)
		for i := 0; i < 5; i++ {
			move, _, err := a.FindMove(context.Background(), b)
			require.NoError(t, err)
			require.Contains(t, b.LegalMoves(), move)
		}
	})
}

func TestAdjustTemperature(t *testing.T) {
	moves := []searcher.ScoredMove{{Confidence: 2}, {Confidence: 1}, {Confidence: -4}}

	t.Run("sums to one and keeps order", func(t *testing.T) {
		policy := adjustTemperature(moves, 1.0)
		sum := 0.0
		for _, p := range policy {
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-9)
		require.Greater(t, policy[0], policy[1])
		require.Greater(t, policy[1], policy[2])
	})

	t.Run("low temperature concentrates on the top move", func(t *testing.T) {
		cold := adjustTemperature(moves, 0.1)
		warm := adjustTemperature(moves, 10)
		require.Greater(t, cold[0], warm[0])
		require.Greater(t, cold[0], 0.99)
	})
}

func TestSample(t *testing.T) {
	moves := []searcher.ScoredMove{
		{Move: game.Move{From: 1, To: 2}},
		{Move: game.Move{From: 3, To: 4}},
	}
	policy := []float64{0.25, 0.75}

	require.Equal(t, moves[0].Move, sample(moves, policy, 0.1))
	require.Equal(t, moves[1].Move, sample(moves, policy, 0.5))
	require.Equal(t, moves[1].Move, sample(moves, policy, 0.9999999999))
}

func TestRandomAgent(t *testing.T) {
	b := game.NewBoard()
	first, second := NewRandomAgent(8), NewRandomAgent(8)
	for i := 0; i < 10; i++ {
		m1, _, err := first.FindMove(context.Background(), b)
		require.NoError(t, err)
		m2, _, err := second.FindMove(context.Background(), b)
		require.NoError(t, err)
		require.Equal(t, m1, m2)
		require.Contains(t, b.LegalMoves(), m1)
	}
}
