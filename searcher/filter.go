package searcher

import "chessbot/game"

// FilterSafe keeps the moves whose destination square is not attacked by the
// opponent on pos as it stands before the move. The mover vacating its origin
// square and any change of defenders after the move are not considered.
// Survivors keep their order.
func FilterSafe(pos game.Position, moves []game.Move) []game.Move {
	opponent := pos.Turn().Other()
	safe := make([]game.Move, 0, len(moves))
	for _, m := range moves {
		if len(pos.Attackers(opponent, m.To)) == 0 {
			safe = append(safe, m)
		}
	}
	return safe
}
