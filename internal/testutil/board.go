package testutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/movehint-go/internal/chess"
)

// Common boards used across packages.
const (
	// InitialBoard is the standard start position with the service's
	// castling field.
	InitialBoard = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	// CastlingBoard has both kings and all four rooks on their corners and
	// nothing else.
	CastlingBoard = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	// EnPassantBoard has a white pawn on e5 that may take d5 en passant.
	EnPassantBoard = "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3"

	// CheckedBoard is a position with the service's check marker for White.
	CheckedBoard = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3 ;wK"
)

// PositionOf builds a position from "wK e1" style entries. It calls
// t.Fatal on malformed entries.
func PositionOf(t *testing.T, entries ...string) chess.Position {
	t.Helper()
	pieces := make(map[chess.Square]chess.Piece, len(entries))
	for _, entry := range entries {
		code, label, ok := strings.Cut(entry, " ")
		if !ok {
			t.Fatalf("malformed piece entry %q, want \"wK e1\"", entry)
		}
		piece, err := chess.ParsePieceCode(code)
		if err != nil {
			t.Fatalf("entry %q: %v", entry, err)
		}
		sq, err := chess.ParseSquare(label)
		if err != nil {
			t.Fatalf("entry %q: %v", entry, err)
		}
		if _, dup := pieces[sq]; dup {
			t.Fatalf("entry %q: square %s already occupied", entry, sq)
		}
		pieces[sq] = piece
	}
	return chess.NewPosition(pieces)
}

// Squares builds a MoveSet from square labels, panicking on bad labels.
func Squares(labels ...string) chess.MoveSet {
	var s chess.MoveSet
	for _, label := range labels {
		s = s.Add(chess.MustParseSquare(label))
	}
	return s
}

// AssertMoveSet compares two sets by their sorted labels so a failure
// shows which squares are missing or extra.
func AssertMoveSet(t *testing.T, got, want chess.MoveSet, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want.Labels(), got.Labels()); diff != "" {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Errorf("%s: move set mismatch (-want +got):\n%s", msg, diff)
		} else {
			t.Errorf("move set mismatch (-want +got):\n%s", diff)
		}
	}
}
