package engine

import "github.com/lgbarn/movehint-go/internal/chess"

// IsSquareAttacked returns true if the square is attacked by the given colour.
//
// Each attacker is matched against its raw attack pattern: pawns attack
// their forward diagonals whether or not the square is occupied, and
// castling never attacks anything. The query does not call back into the
// move generator, so it cannot recurse.
func IsSquareAttacked(pos chess.Position, sq chess.Square, byColour chess.Colour) bool {
	if !sq.Valid() {
		return false
	}
	return !Attackers(pos, sq, byColour).IsEmpty()
}

// Attackers returns the squares of every piece of byColour attacking sq.
func Attackers(pos chess.Position, sq chess.Square, byColour chess.Colour) chess.MoveSet {
	var attackers chess.MoveSet
	if !sq.Valid() {
		return attackers
	}

	// Check pawn attacks: an attacking pawn sits one rank behind sq from
	// its own point of view.
	pawn := chess.MakeColouredPiece(byColour, chess.Pawn)
	pawnDir := -chess.ColourOffset(byColour)
	for _, df := range []int{-1, 1} {
		from := sq.Offset(df, pawnDir)
		if from != chess.NoSquare && pos.Get(from) == pawn {
			attackers = attackers.Add(from)
		}
	}

	// Check knight attacks
	knight := chess.MakeColouredPiece(byColour, chess.Knight)
	for _, offset := range knightOffsets {
		from := sq.Offset(offset[0], offset[1])
		if from != chess.NoSquare && pos.Get(from) == knight {
			attackers = attackers.Add(from)
		}
	}

	// Check king attacks
	king := chess.MakeColouredPiece(byColour, chess.King)
	for _, offset := range kingOffsets {
		from := sq.Offset(offset[0], offset[1])
		if from != chess.NoSquare && pos.Get(from) == king {
			attackers = attackers.Add(from)
		}
	}

	// Check sliding pieces along diagonals and straight lines
	queen := chess.MakeColouredPiece(byColour, chess.Queen)
	bishop := chess.MakeColouredPiece(byColour, chess.Bishop)
	rook := chess.MakeColouredPiece(byColour, chess.Rook)
	attackers = attackers.Union(rayAttackers(pos, sq, diagonalDirs, bishop, queen))
	attackers = attackers.Union(rayAttackers(pos, sq, straightDirs, rook, queen))

	return attackers
}

// rayAttackers walks each ray from sq and reports the first piece found if
// it is one of the given sliders.
func rayAttackers(pos chess.Position, sq chess.Square, dirs [][2]int, sliders ...chess.Piece) chess.MoveSet {
	var attackers chess.MoveSet
	for _, dir := range dirs {
		for from := sq.Offset(dir[0], dir[1]); from != chess.NoSquare; from = from.Offset(dir[0], dir[1]) {
			piece := pos.Get(from)
			if piece == chess.Empty {
				continue
			}
			for _, slider := range sliders {
				if piece == slider {
					attackers = attackers.Add(from)
					break
				}
			}
			break // Blocked
		}
	}
	return attackers
}

// IsInCheck returns true if the given colour's king is attacked.
// The result is a local estimate; the check marker supplied with the board
// string stays authoritative.
func IsInCheck(pos chess.Position, colour chess.Colour) bool {
	king := pos.FindKing(colour)
	if king == chess.NoSquare {
		return false // No king found
	}
	return IsSquareAttacked(pos, king, colour.Opposite())
}

// CheckMarkerConsistent reports whether the supplied check marker names
// exactly the kings that are attacked on the board.
func CheckMarkerConsistent(snap *chess.Snapshot) bool {
	white := snap.KingInCheck == chess.W(chess.King)
	black := snap.KingInCheck == chess.B(chess.King)
	return white == IsInCheck(snap.Position, chess.White) &&
		black == IsInCheck(snap.Position, chess.Black)
}

// attackedBy returns every square attacked by at least one piece of
// byColour. Used to filter king steps.
func attackedBy(pos chess.Position, byColour chess.Colour) chess.MoveSet {
	var attacked chess.MoveSet
	pos.Each(func(from chess.Square, piece chess.Piece) {
		if chess.ExtractColour(piece) != byColour {
			return
		}
		attacked = attacked.Union(attackPattern(pos, from, piece))
	})
	return attacked
}

// attackPattern returns the squares a piece attacks from from: its capture
// pattern regardless of what occupies the target squares.
func attackPattern(pos chess.Position, from chess.Square, piece chess.Piece) chess.MoveSet {
	colour := chess.ExtractColour(piece)
	switch chess.ExtractPiece(piece) {
	case chess.Pawn:
		return pawnAttacks(from, colour)
	case chess.Knight:
		return offsetTargets(from, knightOffsets)
	case chess.King:
		return offsetTargets(from, kingOffsets)
	case chess.Bishop:
		return rayTargets(pos, from, diagonalDirs)
	case chess.Rook:
		return rayTargets(pos, from, straightDirs)
	case chess.Queen:
		return rayTargets(pos, from, queenDirs)
	}
	return 0
}

func offsetTargets(from chess.Square, offsets [][2]int) chess.MoveSet {
	var targets chess.MoveSet
	for _, offset := range offsets {
		targets = targets.Add(from.Offset(offset[0], offset[1]))
	}
	return targets
}

func rayTargets(pos chess.Position, from chess.Square, dirs [][2]int) chess.MoveSet {
	var targets chess.MoveSet
	for _, dir := range dirs {
		for to := from.Offset(dir[0], dir[1]); to != chess.NoSquare; to = to.Offset(dir[0], dir[1]) {
			targets = targets.Add(to)
			if pos.Get(to) != chess.Empty {
				break
			}
		}
	}
	return targets
}
