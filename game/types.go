package game

import "fmt"

type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Square indexes the board from a1 (0) to h8 (63), file-major within a rank.
type Square uint8

const (
	NumSquares        = 64
	NoSquare   Square = 64
)

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare converts algebraic notation ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(file, rank), nil
}

type PieceType int8

const (
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var pieceNames = [...]string{"", "king", "queen", "rook", "bishop", "knight", "pawn"}

// Name returns the lower-case English name of the piece type, used for
// display and speech.
func (p PieceType) Name() string {
	if p < 0 || int(p) >= len(pieceNames) {
		return ""
	}
	return pieceNames[p]
}

// Letter returns the lower-case promotion letter used by UCI notation.
func (p PieceType) Letter() string {
	switch p {
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	}
	return ""
}

// PromotionFromLetter is the inverse of Letter for promotable pieces.
func PromotionFromLetter(b byte) (PieceType, bool) {
	switch b {
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	}
	return NoPieceType, false
}

// Piece is a colored piece; the zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool { return p.Type == NoPieceType }

// Move is produced by a Position's LegalMoves and is compared by value.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String returns UCI notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	return m.From.String() + m.To.String() + m.Promotion.Letter()
}

type Termination int8

const (
	NoTermination Termination = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoves
	FivefoldRepetition
	FiftyMoves
	ThreefoldRepetition
	Resignation
	DrawAgreement
)

var terminationNames = [...]string{
	"",
	"CHECKMATE",
	"STALEMATE",
	"INSUFFICIENT_MATERIAL",
	"SEVENTYFIVE_MOVES",
	"FIVEFOLD_REPETITION",
	"FIFTY_MOVES",
	"THREEFOLD_REPETITION",
	"RESIGNATION",
	"DRAW_AGREEMENT",
}

func (t Termination) String() string {
	if t < 0 || int(t) >= len(terminationNames) {
		return "UNKNOWN"
	}
	return terminationNames[t]
}

// Outcome describes a finished game. Winner is NoColor for a draw.
type Outcome struct {
	Winner      Color
	Termination Termination
}

func (o Outcome) IsDraw() bool { return o.Winner == NoColor }
