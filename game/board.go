package game

import (
	"fmt"

	"github.com/notnil/chess"
)

// Board is a Position backed by a notnil/chess game, including its move
// history so repetition draws are detected during rollouts.
type Board struct {
	game *chess.Game
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	return newBoard(chess.NewGame())
}

// ParseFEN returns a board set up from a FEN string.
func ParseFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return newBoard(chess.NewGame(opt)), nil
}

func newBoard(g *chess.Game) *Board {
	b := &Board{game: g}
	b.warm()
	return b
}

// warm fills the lazily computed move list of the current position. Clones
// share position pointers with their source, so the list must exist before a
// board is read from several goroutines.
func (b *Board) warm() {
	b.game.ValidMoves()
}

func (b *Board) Turn() Color {
	return fromChessColor(b.game.Position().Turn())
}

func (b *Board) LegalMoves() []Move {
	valid := b.game.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = fromChessMove(m)
	}
	return moves
}

func (b *Board) Attackers(by Color, sq Square) []Square {
	if sq >= NoSquare {
		return nil
	}
	white, black := b.bitboards()
	return squaresOf(attackersOf(white, black, by, sq))
}

func (b *Board) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return fromChessPiece(b.game.Position().Board().Piece(chess.Square(sq)))
}

func (b *Board) Clone() Position {
	return &Board{game: b.game.Clone()}
}

// Play applies a legal move to the board.
func (b *Board) Play(m Move) error {
	native := b.find(m)
	if native == nil {
		return fmt.Errorf("illegal move %s in %s", m, b.FEN())
	}
	if err := b.game.Move(native); err != nil {
		return err
	}
	b.warm()
	return nil
}

func (b *Board) find(m Move) *chess.Move {
	for _, valid := range b.game.ValidMoves() {
		if fromChessMove(valid) == m {
			return valid
		}
	}
	return nil
}

func (b *Board) IsGameOver() bool {
	return b.game.Outcome() != chess.NoOutcome
}

func (b *Board) Outcome() (Outcome, bool) {
	var winner Color
	switch b.game.Outcome() {
	case chess.NoOutcome:
		return Outcome{}, false
	case chess.WhiteWon:
		winner = White
	case chess.BlackWon:
		winner = Black
	}
	return Outcome{Winner: winner, Termination: fromChessMethod(b.game.Method())}, true
}

// FEN returns the current position in Forsyth-Edwards notation.
func (b *Board) FEN() string {
	return b.game.Position().String()
}

// Draw returns an ASCII diagram of the board.
func (b *Board) Draw() string {
	return b.game.Position().Board().Draw()
}

func (b *Board) String() string {
	return b.FEN()
}

func fromChessColor(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoColor
}

func fromChessPieceType(t chess.PieceType) PieceType {
	switch t {
	case chess.King:
		return King
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	case chess.Pawn:
		return Pawn
	}
	return NoPieceType
}

func fromChessPiece(p chess.Piece) Piece {
	if p == chess.NoPiece {
		return NoPiece
	}
	return Piece{Type: fromChessPieceType(p.Type()), Color: fromChessColor(p.Color())}
}

func fromChessMove(m *chess.Move) Move {
	return Move{
		From:      Square(m.S1()),
		To:        Square(m.S2()),
		Promotion: fromChessPieceType(m.Promo()),
	}
}

func fromChessMethod(m chess.Method) Termination {
	switch m {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	case chess.InsufficientMaterial:
		return InsufficientMaterial
	case chess.SeventyFiveMoveRule:
		return SeventyFiveMoves
	case chess.FivefoldRepetition:
		return FivefoldRepetition
	case chess.FiftyMoveRule:
		return FiftyMoves
	case chess.ThreefoldRepetition:
		return ThreefoldRepetition
	case chess.Resignation:
		return Resignation
	case chess.DrawOffer:
		return DrawAgreement
	}
	return NoTermination
}
