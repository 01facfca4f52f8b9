package engine

import (
	"context"

	"chessbot/experiments/metrics"
	"chessbot/game"
)

type Engine interface {
	// Run plays a game till it ends or a max number of plies is reached
	Run(ctx context.Context) (winner game.Color, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
