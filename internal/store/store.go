// Package store persists the move history of each game.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// MoveRecord is one recorded ply. Squares and pieces are stored in their
// text forms so every backend can index and sort them.
type MoveRecord struct {
	GameID   string    `json:"game_id" bson:"game_id"`
	Ply      int       `json:"ply" bson:"ply"`
	Piece    string    `json:"piece" bson:"piece"`
	From     string    `json:"from" bson:"from"`
	To       string    `json:"to" bson:"to"`
	Captured string    `json:"captured,omitempty" bson:"captured,omitempty"`
	Promoted string    `json:"promoted,omitempty" bson:"promoted,omitempty"`
	Kind     string    `json:"kind" bson:"kind"`
	Board    string    `json:"board,omitempty" bson:"board,omitempty"`
	Player   string    `json:"player,omitempty" bson:"player,omitempty"`
	Time     time.Time `json:"time" bson:"time"`
}

// NewMoveRecord describes req for the history. board is the board string
// after the move.
func NewMoveRecord(req engine.MoveRequest, board string) MoveRecord {
	return MoveRecord{
		Piece:    chess.PieceCode(req.Piece),
		From:     req.From.String(),
		To:       req.To.String(),
		Captured: chess.PieceCode(req.Captured),
		Promoted: chess.PieceCode(req.Promoted),
		Kind:     req.Kind.String(),
		Board:    board,
	}
}

// IsWhite reports whether the record is a white move.
func (r MoveRecord) IsWhite() bool {
	return strings.HasPrefix(r.Piece, "w")
}

// Notation returns the move in from-to form, e.g. "e2-e4" or "e7-e8=Q".
func (r MoveRecord) Notation() string {
	s := r.From + "-" + r.To
	if len(r.Promoted) == 2 {
		s += "=" + r.Promoted[1:]
	}
	return s
}

// MovePair is one numbered row of the moves table.
type MovePair struct {
	Number int         `json:"number"`
	White  *MoveRecord `json:"white,omitempty"`
	Black  *MoveRecord `json:"black,omitempty"`
}

// HistoryRepository stores move records per game.
type HistoryRepository interface {
	// Append assigns the next ply to rec and stores it.
	Append(ctx context.Context, gameID string, rec MoveRecord) (MoveRecord, error)

	// List returns the game's records in ply order, or ErrGameNotFound.
	List(ctx context.Context, gameID string) ([]MoveRecord, error)

	// Pairs returns the game's records grouped into white/black rows.
	Pairs(ctx context.Context, gameID string) ([]MovePair, error)

	Close() error
}

// PairMoves groups records into numbered white/black rows. A black move
// with no white move before it in the same row gets a row of its own.
func PairMoves(records []MoveRecord) []MovePair {
	var pairs []MovePair
	for i := range records {
		rec := &records[i]
		last := len(pairs) - 1
		switch {
		case rec.IsWhite():
			pairs = append(pairs, MovePair{Number: len(pairs) + 1, White: rec})
		case last >= 0 && pairs[last].Black == nil:
			pairs[last].Black = rec
		default:
			pairs = append(pairs, MovePair{Number: len(pairs) + 1, Black: rec})
		}
	}
	return pairs
}

// CapturedPieces returns the codes of the pieces taken in records, in the
// order they were taken.
func CapturedPieces(records []MoveRecord) []string {
	captured := []string{}
	for _, rec := range records {
		if rec.Captured != "" {
			captured = append(captured, rec.Captured)
		}
	}
	return captured
}

// ValidateGameID rejects ids that cannot be used as a key segment.
func ValidateGameID(gameID string) error {
	if gameID == "" || strings.Contains(gameID, "/") {
		return errors.Wrapf(errors.ErrInvalidGameID, "%q", gameID)
	}
	return nil
}

// prepare validates the id and fills the bookkeeping fields of rec.
func prepare(gameID string, ply int, rec MoveRecord) MoveRecord {
	rec.GameID = gameID
	rec.Ply = ply
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	return rec
}

// pairsOf implements Pairs for any repository.
func pairsOf(ctx context.Context, repo HistoryRepository, gameID string) ([]MovePair, error) {
	records, err := repo.List(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return PairMoves(records), nil
}
