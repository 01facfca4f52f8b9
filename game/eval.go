package game

// CountPieces tallies the pieces of side on every square of pos.
func CountPieces(pos Position, side Color) int {
	count := 0
	for sq := Square(0); sq < NumSquares; sq++ {
		p := pos.PieceAt(sq)
		if !p.IsEmpty() && p.Color == side {
			count++
		}
	}
	return count
}

// MaterialBalance scores a rollout by net material change: pieces the
// opponent lost minus pieces mover lost, weighted by defenseToAttackRatio.
// Only piece counts matter, not piece values.
func MaterialBalance(defenseToAttackRatio float64) Evaluate {
	return func(before, after Position, mover Color) float64 {
		opponent := mover.Other()
		myLoss := CountPieces(before, mover) - CountPieces(after, mover)
		theirLoss := CountPieces(before, opponent) - CountPieces(after, opponent)
		return float64(theirLoss) - float64(myLoss)*defenseToAttackRatio
	}
}
