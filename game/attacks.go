package game

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

var (
	knightMasks [NumSquares]uint64
	kingMasks   [NumSquares]uint64
)

var knightSteps = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingSteps = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

func init() {
	for sq := 0; sq < NumSquares; sq++ {
		knightMasks[sq] = stepMask(sq, knightSteps)
		kingMasks[sq] = stepMask(sq, kingSteps)
	}
}

// stepMask sets every on-board square reachable from sq by one (file, rank) step.
func stepMask(sq int, steps [][2]int) uint64 {
	file, rank := sq%8, sq/8
	var mask uint64
	for _, s := range steps {
		f, r := file+s[0], rank+s[1]
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			mask |= 1 << uint(r*8+f)
		}
	}
	return mask
}

// pawnOrigins returns the squares a pawn of color by must stand on to attack sq.
func pawnOrigins(by Color, sq Square) uint64 {
	// White pawns capture upward, so they sit one rank below their target
	dir := -1
	if by == Black {
		dir = 1
	}
	return stepMask(int(sq), [][2]int{{-1, dir}, {1, dir}})
}

// attackersOf collects direct attackers of sq belonging to by. Sliders stop at
// the first occupied square; pinned pieces still count as attackers.
func attackersOf(white, black dragontoothmg.Bitboards, by Color, sq Square) uint64 {
	us := white
	if by == Black {
		us = black
	}
	occupied := white.All | black.All
	target := uint8(sq)

	hits := dragontoothmg.CalculateRookMoveBitboard(target, occupied) & (us.Rooks | us.Queens)
	hits |= dragontoothmg.CalculateBishopMoveBitboard(target, occupied) & (us.Bishops | us.Queens)
	hits |= knightMasks[sq] & us.Knights
	hits |= kingMasks[sq] & us.Kings
	hits |= pawnOrigins(by, sq) & us.Pawns
	return hits
}

func (b *Board) bitboards() (white, black dragontoothmg.Bitboards) {
	for sq, p := range b.game.Position().Board().SquareMap() {
		bb := &white
		if p.Color() == chess.Black {
			bb = &black
		}
		bit := uint64(1) << uint(sq)
		bb.All |= bit
		switch p.Type() {
		case chess.Pawn:
			bb.Pawns |= bit
		case chess.Knight:
			bb.Knights |= bit
		case chess.Bishop:
			bb.Bishops |= bit
		case chess.Rook:
			bb.Rooks |= bit
		case chess.Queen:
			bb.Queens |= bit
		case chess.King:
			bb.Kings |= bit
		}
	}
	return white, black
}

func squaresOf(mask uint64) []Square {
	squares := make([]Square, 0, bits.OnesCount64(mask))
	for ; mask != 0; mask &= mask - 1 {
		squares = append(squares, Square(bits.TrailingZeros64(mask)))
	}
	return squares
}
