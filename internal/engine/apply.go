package engine

import (
	"fmt"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// MoveKind classifies a move for the submission collaborator.
type MoveKind int

const (
	Move MoveKind = iota
	Capture
	EnPassant
	Castle
	Promotion
)

var moveKindNames = []string{"move", "capture", "en_passant", "castle", "promotion"}

// String returns the wire name of the kind.
func (k MoveKind) String() string {
	if k >= 0 && int(k) < len(moveKindNames) {
		return moveKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k MoveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MoveKind) UnmarshalText(text []byte) error {
	for i, name := range moveKindNames {
		if name == string(text) {
			*k = MoveKind(i)
			return nil
		}
	}
	return fmt.Errorf("move kind %q: %w", text, errors.ErrIllegalMove)
}

// MoveRequest describes a move that passed the hint gate and may be
// submitted.
type MoveRequest struct {
	Kind  MoveKind     `json:"kind"`
	Piece chess.Piece  `json:"piece"`
	From  chess.Square `json:"from"`
	To    chess.Square `json:"to"`

	// Captured is the enemy piece taken, and CapturedOn where it stood.
	// They differ from To only for en passant.
	Captured   chess.Piece  `json:"captured,omitempty"`
	CapturedOn chess.Square `json:"captured_on"`

	// Kingside distinguishes the two castles.
	Kingside bool `json:"kingside,omitempty"`

	// Promoted is the coloured piece a pawn becomes; Empty until chosen.
	Promoted chess.Piece `json:"promoted,omitempty"`
}

// IsPromotion reports whether the move needs a promotion choice.
func (r MoveRequest) IsPromotion() bool {
	return r.Kind == Promotion
}

// WithPromotion returns the request with the promotion choice filled in.
// Only queen, rook, bishop and knight are accepted.
func (r MoveRequest) WithPromotion(pieceType chess.Piece) (MoveRequest, error) {
	if r.Kind != Promotion {
		return r, &errors.MoveError{Err: errors.Wrap(errors.ErrIllegalMove, "not a promotion"),
			Piece: chess.PieceCode(r.Piece), From: r.From.String(), To: r.To.String()}
	}
	switch pieceType {
	case chess.Queen, chess.Rook, chess.Bishop, chess.Knight:
	default:
		return r, &errors.MoveError{Err: errors.Wrapf(errors.ErrInvalidPiece, "cannot promote to %s", pieceType),
			Piece: chess.PieceCode(r.Piece), From: r.From.String(), To: r.To.String()}
	}
	r.Promoted = chess.MakeColouredPiece(chess.ExtractColour(r.Piece), pieceType)
	return r, nil
}

// ClassifyMove checks that to is among the generated destinations of the
// piece on from and describes the move. Options are passed through to the
// generator.
func ClassifyMove(snap *chess.Snapshot, from, to chess.Square, opts ...Option) (MoveRequest, error) {
	moves, err := MovesFrom(snap, from, opts...)
	if err != nil {
		return MoveRequest{}, err
	}

	piece := snap.Position.Get(from)
	req := MoveRequest{Piece: piece, From: from, To: to, CapturedOn: chess.NoSquare}
	if !moves.Contains(to) {
		return req, &errors.MoveError{Err: errors.ErrIllegalMove, Piece: chess.PieceCode(piece), From: from.String(), To: to.String()}
	}

	colour := chess.ExtractColour(piece)
	target := snap.Position.Get(to)
	if target != chess.Empty {
		req.Captured = target
		req.CapturedOn = to
	}

	switch chess.ExtractPiece(piece) {
	case chess.King:
		if abs(to.File()-from.File()) == 2 {
			req.Kind = Castle
			req.Kingside = castleSideFor(to).kingside
			return req, nil
		}
	case chess.Pawn:
		if isPromotionRank(to, colour) {
			req.Kind = Promotion
			return req, nil
		}
		if to == snap.EnPassant && target == chess.Empty && to.File() != from.File() {
			req.Kind = EnPassant
			req.CapturedOn = chess.SquareAt(to.File(), from.Rank())
			req.Captured = chess.MakeColouredPiece(colour.Opposite(), chess.Pawn)
			return req, nil
		}
	}

	if target != chess.Empty {
		req.Kind = Capture
	} else {
		req.Kind = Move
	}
	return req, nil
}

// ApplyMove returns the snapshot after req is played. The input snapshot
// is not modified, so keeping it is enough to roll back.
// The request is assumed to come from ClassifyMove on the same snapshot.
func ApplyMove(snap *chess.Snapshot, req MoveRequest) *chess.Snapshot {
	next := snap.Copy()
	colour := chess.ExtractColour(req.Piece)
	pos := next.Position

	switch req.Kind {
	case Castle:
		side := castleSideFor(req.To)
		rank := chess.HomeRank(colour)
		rookFrom := chess.SquareAt(side.rookFile, rank)
		rook := pos.Get(rookFrom)
		pos = pos.Without(req.From).Without(rookFrom).
			With(req.To, req.Piece).
			With(chess.SquareAt(side.rookTo, rank), rook)

	case EnPassant:
		pos = pos.Without(req.CapturedOn).Without(req.From).With(req.To, req.Piece)

	case Promotion:
		promoted := req.Promoted
		if promoted == chess.Empty {
			promoted = chess.MakeColouredPiece(colour, chess.Queen) // Default to queen
		}
		pos = pos.Without(req.From).With(req.To, promoted)

	default:
		pos = pos.Without(req.From).With(req.To, req.Piece)
	}
	next.Position = pos

	// Castling rights
	switch chess.ExtractPiece(req.Piece) {
	case chess.King:
		next.SetCastling(colour, chess.NoCastling)
	case chess.Rook:
		updateCastlingRightsForRook(next, colour, req.From)
	}
	if chess.ExtractPiece(req.Captured) == chess.Rook {
		updateCastlingRightsForRook(next, chess.ExtractColour(req.Captured), req.CapturedOn)
	}

	// Set en passant square if double pawn push
	next.EnPassant = chess.NoSquare
	if chess.ExtractPiece(req.Piece) == chess.Pawn && abs(req.To.Rank()-req.From.Rank()) == 2 {
		next.EnPassant = chess.SquareAt(req.From.File(), (req.From.Rank()+req.To.Rank())/2)
	}

	if chess.ExtractPiece(req.Piece) == chess.Pawn || req.Captured != chess.Empty {
		next.HalfmoveClock = 0
	} else {
		next.HalfmoveClock++
	}
	if colour == chess.Black {
		next.MoveNumber++
	}
	next.ToMove = colour.Opposite()

	// The service recomputes check; the local copy drops the stale marker.
	next.KingInCheck = chess.Empty
	return next
}
