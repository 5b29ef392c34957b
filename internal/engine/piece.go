package engine

import "github.com/lgbarn/movehint-go/internal/chess"

// Direction and offset tables, as (file, rank) deltas.
var (
	straightDirs  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalDirs  = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs     = append(append([][2]int{}, straightDirs...), diagonalDirs...)
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// slidingMoves walks each ray outward from from. A ray stops at the first
// occupied square, which is included only when it holds an enemy piece.
func slidingMoves(pos chess.Position, from chess.Square, colour chess.Colour, dirs [][2]int) chess.MoveSet {
	var moves chess.MoveSet
	for _, dir := range dirs {
		for to := from.Offset(dir[0], dir[1]); to != chess.NoSquare; to = to.Offset(dir[0], dir[1]) {
			target := pos.Get(to)
			if target != chess.Empty {
				if chess.ExtractColour(target) != colour {
					moves = moves.Add(to)
				}
				break // Blocked
			}
			moves = moves.Add(to)
		}
	}
	return moves
}

// leaperMoves returns the on-board offsets from from that are not occupied
// by a friendly piece. Used for knights and single king steps.
func leaperMoves(pos chess.Position, from chess.Square, colour chess.Colour, offsets [][2]int) chess.MoveSet {
	var moves chess.MoveSet
	for _, offset := range offsets {
		to := from.Offset(offset[0], offset[1])
		if to == chess.NoSquare {
			continue
		}
		target := pos.Get(to)
		if target == chess.Empty || chess.ExtractColour(target) != colour {
			moves = moves.Add(to)
		}
	}
	return moves
}
