package engine

import "github.com/lgbarn/movehint-go/internal/chess"

// castleSide describes one castling option by file (0 = a).
type castleSide struct {
	kingside   bool
	rookFile   int
	kingTo     int
	rookTo     int
	emptyFiles []int // squares between king and rook
	safeFiles  []int // king's square, transit square and landing square
}

const kingFile = 4

var (
	kingsideCastle = castleSide{
		kingside:   true,
		rookFile:   7,
		kingTo:     6,
		rookTo:     5,
		emptyFiles: []int{5, 6},
		safeFiles:  []int{4, 5, 6},
	}
	queensideCastle = castleSide{
		kingside:   false,
		rookFile:   0,
		kingTo:     2,
		rookTo:     3,
		emptyFiles: []int{1, 2, 3},
		safeFiles:  []int{4, 3, 2},
	}
)

// castlingMoves returns the king destinations for each permitted castle.
// The king must stand on its original square; the flags are trusted.
func castlingMoves(pos chess.Position, from chess.Square, colour chess.Colour, rights chess.CastlingRights) chess.MoveSet {
	var moves chess.MoveSet
	rank := chess.HomeRank(colour)
	if from != chess.SquareAt(kingFile, rank) {
		return moves
	}
	if rights.Kingside && canCastle(pos, colour, rank, kingsideCastle) {
		moves = moves.Add(chess.SquareAt(kingsideCastle.kingTo, rank))
	}
	if rights.Queenside && canCastle(pos, colour, rank, queensideCastle) {
		moves = moves.Add(chess.SquareAt(queensideCastle.kingTo, rank))
	}
	return moves
}

// canCastle checks the rook, the empty squares between king and rook, and
// that no enemy piece attacks the king's path.
func canCastle(pos chess.Position, colour chess.Colour, rank int, side castleSide) bool {
	if pos.Get(chess.SquareAt(side.rookFile, rank)) != chess.MakeColouredPiece(colour, chess.Rook) {
		return false
	}
	for _, file := range side.emptyFiles {
		if !pos.IsEmpty(chess.SquareAt(file, rank)) {
			return false
		}
	}
	enemy := colour.Opposite()
	for _, file := range side.safeFiles {
		if IsSquareAttacked(pos, chess.SquareAt(file, rank), enemy) {
			return false
		}
	}
	return true
}

// castleSideFor returns the castling option whose king destination is to.
func castleSideFor(to chess.Square) castleSide {
	if to.File() == kingsideCastle.kingTo {
		return kingsideCastle
	}
	return queensideCastle
}

// updateCastlingRightsForRook removes castling rights when a rook leaves
// or is captured on its original corner.
func updateCastlingRightsForRook(snap *chess.Snapshot, colour chess.Colour, sq chess.Square) {
	if sq.Rank() != chess.HomeRank(colour) {
		return
	}
	rights := snap.Castling(colour)
	switch sq.File() {
	case kingsideCastle.rookFile:
		rights.Kingside = false
	case queensideCastle.rookFile:
		rights.Queenside = false
	}
	snap.SetCastling(colour, rights)
}
