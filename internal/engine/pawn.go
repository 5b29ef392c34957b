package engine

import "github.com/lgbarn/movehint-go/internal/chess"

// pawnMoves returns pushes and captures for a pawn of the given colour.
// The en passant target is trusted as supplied: no check is made that an
// enemy pawn stands beside it.
func pawnMoves(pos chess.Position, from chess.Square, colour chess.Colour, enPassant chess.Square) chess.MoveSet {
	var moves chess.MoveSet
	dir := chess.ColourOffset(colour)

	// Forward pushes
	one := from.Offset(0, dir)
	if one != chess.NoSquare && pos.IsEmpty(one) {
		moves = moves.Add(one)
		if from.Rank() == chess.PawnRank(colour) {
			two := from.Offset(0, 2*dir)
			if pos.IsEmpty(two) {
				moves = moves.Add(two)
			}
		}
	}

	// Diagonal captures
	for _, df := range []int{-1, 1} {
		to := from.Offset(df, dir)
		if to == chess.NoSquare {
			continue
		}
		target := pos.Get(to)
		switch {
		case target != chess.Empty:
			if chess.ExtractColour(target) != colour {
				moves = moves.Add(to)
			}
		case to == enPassant && from.Rank() == enPassantRank(colour):
			moves = moves.Add(to)
		}
	}
	return moves
}

// pawnAttacks returns the two forward diagonals of a pawn, occupied or not.
func pawnAttacks(from chess.Square, colour chess.Colour) chess.MoveSet {
	dir := chess.ColourOffset(colour)
	return chess.NewMoveSet(from.Offset(-1, dir), from.Offset(1, dir))
}

// enPassantRank returns the 0-based rank a pawn must stand on to capture
// en passant: the 5th rank for White, the 4th for Black.
func enPassantRank(colour chess.Colour) int {
	if colour == chess.White {
		return 4
	}
	return 3
}

// isPromotionRank reports whether a pawn of the given colour promotes on sq.
func isPromotionRank(sq chess.Square, colour chess.Colour) bool {
	return sq.Rank() == chess.HomeRank(colour.Opposite())
}
