package engine

import (
	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// options controls move generation.
type options struct {
	includeCastling bool
	safeKingSteps   bool
}

// Option configures GenerateMoves.
type Option func(*options)

// WithoutCastling leaves castling destinations out of king moves.
func WithoutCastling() Option {
	return func(o *options) {
		o.includeCastling = false
	}
}

// WithSafeKingSteps drops ordinary king steps onto squares attacked by the
// opponent. It does not filter any other piece's moves.
func WithSafeKingSteps() Option {
	return func(o *options) {
		o.safeKingSteps = true
	}
}

func buildOptions(opts []Option) options {
	o := options{includeCastling: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GenerateMoves returns the pseudo-legal destinations of piece standing on
// from. The result excludes friendly-occupied squares and includes captures.
// Moves that would leave the mover's king in check are not filtered, except
// that castling requires the king's path to be unattacked.
//
// piece must be the coloured piece on from; a mismatch is reported as
// ErrPieceMismatch. An empty result is not an error.
func GenerateMoves(piece chess.Piece, from chess.Square, pos chess.Position,
	white, black chess.CastlingRights, enPassant chess.Square, opts ...Option) (chess.MoveSet, error) {
	if !from.Valid() {
		return 0, &errors.MoveError{Err: errors.ErrInvalidSquare, Piece: chess.PieceCode(piece)}
	}
	if !chess.IsColoured(piece) {
		return 0, &errors.MoveError{Err: errors.ErrInvalidPiece, From: from.String()}
	}
	if pos.Get(from) != piece {
		return 0, &errors.MoveError{Err: errors.ErrPieceMismatch, Piece: chess.PieceCode(piece), From: from.String()}
	}
	if enPassant != chess.NoSquare && !enPassant.Valid() {
		return 0, &errors.MoveError{Err: errors.Wrap(errors.ErrInvalidSquare, "en passant target"), Piece: chess.PieceCode(piece), From: from.String()}
	}

	rights := white
	if chess.ExtractColour(piece) == chess.Black {
		rights = black
	}
	return generate(piece, from, pos, rights, enPassant, buildOptions(opts)), nil
}

// MovesFrom generates the moves of whatever piece stands on from in the
// snapshot, using the snapshot's castling rights and en passant target.
func MovesFrom(snap *chess.Snapshot, from chess.Square, opts ...Option) (chess.MoveSet, error) {
	piece := snap.Position.Get(from)
	if !chess.IsColoured(piece) {
		return 0, &errors.MoveError{Err: errors.Wrap(errors.ErrInvalidPiece, "no piece on square"), From: from.String()}
	}
	return GenerateMoves(piece, from, snap.Position, snap.WhiteCastle, snap.BlackCastle, snap.EnPassant, opts...)
}

// AllMoves generates the moves of every piece of the given colour, keyed
// by the piece's square. Pieces with no destinations are included with an
// empty set.
func AllMoves(snap *chess.Snapshot, colour chess.Colour, opts ...Option) map[chess.Square]chess.MoveSet {
	o := buildOptions(opts)
	rights := snap.Castling(colour)
	all := make(map[chess.Square]chess.MoveSet)
	snap.Position.Each(func(from chess.Square, piece chess.Piece) {
		if chess.ExtractColour(piece) != colour {
			return
		}
		all[from] = generate(piece, from, snap.Position, rights, snap.EnPassant, o)
	})
	return all
}

// generate dispatches on piece type. Inputs are assumed validated.
func generate(piece chess.Piece, from chess.Square, pos chess.Position,
	rights chess.CastlingRights, enPassant chess.Square, o options) chess.MoveSet {
	colour := chess.ExtractColour(piece)

	switch chess.ExtractPiece(piece) {
	case chess.Pawn:
		return pawnMoves(pos, from, colour, enPassant)
	case chess.Knight:
		return leaperMoves(pos, from, colour, knightOffsets)
	case chess.Bishop:
		return slidingMoves(pos, from, colour, diagonalDirs)
	case chess.Rook:
		return slidingMoves(pos, from, colour, straightDirs)
	case chess.Queen:
		return slidingMoves(pos, from, colour, queenDirs)
	case chess.King:
		moves := leaperMoves(pos, from, colour, kingOffsets)
		if o.safeKingSteps {
			// The king no longer blocks rays once it has stepped away.
			moves &^= attackedBy(pos.Without(from), colour.Opposite())
		}
		if o.includeCastling {
			moves = moves.Union(castlingMoves(pos, from, colour, rights))
		}
		return moves
	}
	return 0
}
