package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chessbot/agent"
	"chessbot/experiments/metrics"
	"chessbot/game"

	"github.com/rs/zerolog/log"
)

// Local plays a self-play game between two in-process agents.
type Local struct {
	board    *game.Board
	agents   map[game.Color]agent.Agent
	maxPlies int
}

func NewLocal(board *game.Board, white, black agent.Agent, maxPlies int) (*Local, error) {
	if board == nil {
		return nil, errors.New("engine: nil board")
	}
	if white == nil || black == nil {
		return nil, errors.New("engine: need an agent for each side")
	}
	if maxPlies < 1 {
		return nil, fmt.Errorf("engine: max plies %d must be at least 1", maxPlies)
	}
	return &Local{
		board:    board,
		agents:   map[game.Color]agent.Agent{game.White: white, game.Black: black},
		maxPlies: maxPlies,
	}, nil
}

// Board returns the game board, which Run advances in place.
func (e *Local) Board() *game.Board {
	return e.board
}

// Run executes the game loop until an outcome or the ply limit. The winner is
// NoColor on a draw or when the limit is reached.
func (e *Local) Run(ctx context.Context) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.board.Turn().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("%s is starting", gameMetric.StartingPlayer)

	ply := 1
	for !e.board.IsGameOver() && ply <= e.maxPlies {
		mover := e.board.Turn()
		move, searchMetric, err := e.agents[mover].FindMove(ctx, e.board)
		if err != nil {
			return game.NoColor, gameMetric, moveMetrics, fmt.Errorf("ply %d %s: %w", ply, mover, err)
		}
		if err := e.board.Play(move); err != nil {
			return game.NoColor, gameMetric, moveMetrics, fmt.Errorf("ply %d %s: %w", ply, mover, err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         ply,
			Player:       mover.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("ply %d: %s played %s", ply, mover, move)
		ply++
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	outcome, over := e.board.Outcome()
	if !over {
		log.Debug().Msgf("stopped after %d plies (no result yet)", e.maxPlies)
		return game.NoColor, gameMetric, moveMetrics, nil
	}
	gameMetric.Termination = outcome.Termination.String()
	if !outcome.IsDraw() {
		gameMetric.Winner = outcome.Winner.String()
	}
	return outcome.Winner, gameMetric, moveMetrics, nil
}
