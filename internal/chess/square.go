package chess

import (
	"github.com/lgbarn/movehint-go/internal/errors"
)

// Constants for board dimensions and coordinates.
const (
	BoardSize  = 8
	NumSquares = BoardSize * BoardSize

	RankBase = '1'
	FileBase = 'a'
)

// Square is a board square indexed 0..63 with a1 = 0, b1 = 1, ..., h8 = 63.
type Square int8

// NoSquare marks an absent square, e.g. no en passant target.
const NoSquare Square = -1

// Named squares used by castling and tests.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// SquareAt returns the square at the given 0-based file and rank, or
// NoSquare if either coordinate is off the board.
func SquareAt(file, rank int) Square {
	if file < 0 || file >= BoardSize || rank < 0 || rank >= BoardSize {
		return NoSquare
	}
	return Square(rank*BoardSize + file)
}

// Valid reports whether sq lies on the 8x8 grid.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < NumSquares
}

// File returns the 0-based file (a = 0).
func (sq Square) File() int {
	return int(sq) % BoardSize
}

// Rank returns the 0-based rank (rank 1 = 0).
func (sq Square) Rank() int {
	return int(sq) / BoardSize
}

// Offset returns the square df files and dr ranks away, or NoSquare if
// that leaves the board.
func (sq Square) Offset(df, dr int) Square {
	if !sq.Valid() {
		return NoSquare
	}
	return SquareAt(sq.File()+df, sq.Rank()+dr)
}

// String returns the two-character label, e.g. "e4". NoSquare and invalid
// squares return "-".
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte(FileBase + sq.File()), byte(RankBase + sq.Rank())})
}

// MarshalText implements encoding.TextMarshaler so squares encode as labels.
func (sq Square) MarshalText() ([]byte, error) {
	return []byte(sq.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "-" and "" decode to
// NoSquare.
func (sq *Square) UnmarshalText(text []byte) error {
	if len(text) == 0 || string(text) == "-" {
		*sq = NoSquare
		return nil
	}
	parsed, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = parsed
	return nil
}

// ParseSquare converts a two-character label such as "e4" into a Square.
func ParseSquare(label string) (Square, error) {
	if len(label) != 2 {
		return NoSquare, &errors.ParseError{Err: errors.ErrInvalidSquare, Input: label, Expected: "two-character square label"}
	}
	file := int(label[0]) - FileBase
	rank := int(label[1]) - RankBase
	sq := SquareAt(file, rank)
	if sq == NoSquare {
		return NoSquare, &errors.ParseError{Err: errors.ErrInvalidSquare, Input: label, Expected: "file a-h and rank 1-8"}
	}
	return sq, nil
}

// MustParseSquare is like ParseSquare but panics on error. It is intended
// for constant labels in tests and tables.
func MustParseSquare(label string) Square {
	sq, err := ParseSquare(label)
	if err != nil {
		panic(err)
	}
	return sq
}
