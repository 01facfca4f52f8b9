package searcher

import (
	"fmt"

	"chessbot/game"
)

// effect is the number of pieces each side loses when a move is played.
type effect struct {
	white, black int
}

// mockPosition is a scripted position: the same moves stay legal after every
// ply and each move removes pieces according to its effect. White pieces sit
// on the first squares of the board and black pieces from square 32 upwards.
type mockPosition struct {
	turn     game.Color
	moves    []game.Move
	effects  map[game.Move]effect
	attacked map[game.Square][]game.Square // Attackers of the opponent of turn
	white    int
	black    int
	played   []game.Move
}

func newMockPosition(moves ...game.Move) *mockPosition {
	return &mockPosition{
		turn:     game.White,
		moves:    moves,
		effects:  map[game.Move]effect{},
		attacked: map[game.Square][]game.Square{},
		white:    16,
		black:    16,
	}
}

func mockMove(from, to game.Square) game.Move {
	return game.Move{From: from, To: to}
}

func (p *mockPosition) Turn() game.Color { return p.turn }

func (p *mockPosition) LegalMoves() []game.Move {
	return append([]game.Move(nil), p.moves...)
}

func (p *mockPosition) Attackers(by game.Color, sq game.Square) []game.Square {
	if by != p.turn.Other() {
		return nil
	}
	return p.attacked[sq]
}

func (p *mockPosition) PieceAt(sq game.Square) game.Piece {
	switch {
	case int(sq) < p.white:
		return game.Piece{Type: game.Pawn, Color: game.White}
	case sq >= 32 && int(sq) < 32+p.black:
		return game.Piece{Type: game.Pawn, Color: game.Black}
	}
	return game.NoPiece
}

func (p *mockPosition) Clone() game.Position {
	clone := *p
	clone.played = append([]game.Move(nil), p.played...)
	return &clone
}

func (p *mockPosition) Play(m game.Move) error {
	legal := false
	for _, move := range p.moves {
		if move == m {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("illegal move %s", m)
	}
	e := p.effects[m]
	p.white -= e.white
	p.black -= e.black
	p.played = append(p.played, m)
	p.turn = p.turn.Other()
	return nil
}

func (p *mockPosition) IsGameOver() bool { return len(p.moves) == 0 }

func (p *mockPosition) Outcome() (game.Outcome, bool) {
	if !p.IsGameOver() {
		return game.Outcome{}, false
	}
	return game.Outcome{Termination: game.Stalemate}, true
}
