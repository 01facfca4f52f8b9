package game

// Position is the capability set the searcher needs from a rules engine.
// Implementations own their board; Play mutates the receiver, so callers that
// must not disturb a position Clone it first.
type Position interface {
	Turn() Color
	LegalMoves() []Move
	// Attackers returns the squares of pieces of color by that attack sq
	Attackers(by Color, sq Square) []Square
	PieceAt(sq Square) Piece
	Clone() Position
	Play(Move) error
	IsGameOver() bool
	// Outcome reports the result once the game is over, ok is false otherwise
	Outcome() (outcome Outcome, ok bool)
}

// Evaluate scores a rollout by comparing the position before the candidate
// move with the position reached at the end of the rollout, from mover's
// perspective. Higher is better for mover.
type Evaluate func(before, after Position, mover Color) float64
