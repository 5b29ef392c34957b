// Package chess provides core chess types and operations.
package chess

import (
	"fmt"

	"github.com/lgbarn/movehint-go/internal/errors"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Letter returns the colour prefix used in piece codes ('w' or 'b').
func (c Colour) Letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// ParseColour converts "w", "white", "b" or "black" (any case) to a Colour.
func ParseColour(s string) (Colour, error) {
	switch s {
	case "w", "W", "white", "White", "WHITE":
		return White, nil
	case "b", "B", "black", "Black", "BLACK":
		return Black, nil
	}
	return White, fmt.Errorf("unknown colour %q: %w", s, errors.ErrInvalidPiece)
}

// Piece represents a chess piece type, or a coloured piece when built
// with MakeColouredPiece.
type Piece int

// Off is returned for lookups outside the board.
const Off Piece = -1

const (
	Empty Piece = iota // Empty square
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceValues
)

// String returns the string representation of a piece type.
func (p Piece) String() string {
	names := []string{"Empty", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	if p == Off {
		return "Off"
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece type (uppercase).
func (p Piece) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if p >= 0 && int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// PieceFromLetter converts an uppercase or lowercase piece letter to a
// piece type. Unknown letters return Empty.
func PieceFromLetter(c byte) Piece {
	switch c {
	case 'K', 'k':
		return King
	case 'Q', 'q':
		return Queen
	case 'R', 'r':
		return Rook
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'P', 'p':
		return Pawn
	default:
		return Empty
	}
}

// MarshalText encodes a coloured piece as its code ("wK"), a bare piece
// type as its letter ("Q") and Empty as "".
func (p Piece) MarshalText() ([]byte, error) {
	if IsColoured(p) {
		return []byte(PieceCode(p)), nil
	}
	if p > Empty && p < NumPieceValues {
		return []byte{p.Letter()}, nil
	}
	return []byte{}, nil
}

// UnmarshalText is the inverse of MarshalText.
func (p *Piece) UnmarshalText(text []byte) error {
	switch len(text) {
	case 0:
		*p = Empty
		return nil
	case 1:
		piece := PieceFromLetter(text[0])
		if piece == Empty {
			return fmt.Errorf("piece %q: %w", text, errors.ErrInvalidPiece)
		}
		*p = piece
		return nil
	}
	piece, err := ParsePieceCode(string(text))
	if err != nil {
		return err
	}
	*p = piece
	return nil
}

// PieceShift is used for encoding coloured pieces.
const PieceShift = 3

// MakeColouredPiece creates a coloured piece value.
func MakeColouredPiece(colour Colour, piece Piece) Piece {
	return Piece((int(piece) << PieceShift) | int(colour))
}

// W creates a white piece.
func W(piece Piece) Piece {
	return MakeColouredPiece(White, piece)
}

// B creates a black piece.
func B(piece Piece) Piece {
	return MakeColouredPiece(Black, piece)
}

// ExtractColour extracts the colour from a coloured piece.
func ExtractColour(colouredPiece Piece) Colour {
	return Colour(colouredPiece & 0x01)
}

// ExtractPiece extracts the piece type from a coloured piece.
func ExtractPiece(colouredPiece Piece) Piece {
	if colouredPiece < 0 {
		return Off
	}
	return Piece(colouredPiece >> PieceShift)
}

// IsColoured reports whether p is a real coloured piece (not Empty or Off).
func IsColoured(p Piece) bool {
	t := ExtractPiece(p)
	return t >= Pawn && t <= King
}

// PieceCode returns the two-character code of a coloured piece, e.g. "wK".
// Empty and invalid values return "".
func PieceCode(colouredPiece Piece) string {
	if !IsColoured(colouredPiece) {
		return ""
	}
	return string([]byte{ExtractColour(colouredPiece).Letter(), ExtractPiece(colouredPiece).Letter()})
}

// ParsePieceCode converts a two-character code such as "wK" or "bP" into a
// coloured piece.
func ParsePieceCode(code string) (Piece, error) {
	if len(code) != 2 {
		return Empty, fmt.Errorf("piece code %q: %w", code, errors.ErrInvalidPiece)
	}
	var colour Colour
	switch code[0] {
	case 'w':
		colour = White
	case 'b':
		colour = Black
	default:
		return Empty, fmt.Errorf("piece code %q: %w", code, errors.ErrInvalidPiece)
	}
	// Only uppercase letters are valid in codes.
	if code[1] < 'A' || code[1] > 'Z' {
		return Empty, fmt.Errorf("piece code %q: %w", code, errors.ErrInvalidPiece)
	}
	piece := PieceFromLetter(code[1])
	if piece == Empty {
		return Empty, fmt.Errorf("piece code %q: %w", code, errors.ErrInvalidPiece)
	}
	return MakeColouredPiece(colour, piece), nil
}

// FENLetter returns the board-notation letter for a coloured piece:
// uppercase for White, lowercase for Black.
func FENLetter(colouredPiece Piece) byte {
	letter := ExtractPiece(colouredPiece).Letter()
	if ExtractColour(colouredPiece) == Black && letter >= 'A' && letter <= 'Z' {
		letter += 'a' - 'A'
	}
	return letter
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// HomeRank returns the 0-based back rank of the given colour.
func HomeRank(colour Colour) int {
	if colour == White {
		return 0
	}
	return BoardSize - 1
}

// PawnRank returns the 0-based rank pawns of the given colour start on.
func PawnRank(colour Colour) int {
	if colour == White {
		return 1
	}
	return BoardSize - 2
}

// CastlingRights holds one side's castling availability flags.
// The flags are trusted as supplied; rook and king history is not tracked.
type CastlingRights struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

// Any reports whether either castling flag is set.
func (c CastlingRights) Any() bool {
	return c.Kingside || c.Queenside
}

// NoCastling is the zero CastlingRights value.
var NoCastling = CastlingRights{}

// BothCastling has both flags set.
var BothCastling = CastlingRights{Kingside: true, Queenside: true}
