// Package engine provides move generation, attack detection and board
// notation handling.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// InitialBoard is the board string for the standard starting position.
const InitialBoard = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// checkMarkerSep separates the board fields from the trailing check marker.
const checkMarkerSep = ";"

// ParseBoard reads the compact board string supplied by the game service:
//
//	<placement> [w|b] [castling...] [ep] [halfmove fullmove] [;wK|;bK]
//
// The placement field is FEN-style. Castling letters may be spread over
// several fields ("KQ -", "-kq") as the service writes them. A trailing
// ";wK" or ";bK" marks that king as in check.
func ParseBoard(s string) (*chess.Snapshot, error) {
	body, marker, _ := strings.Cut(s, checkMarkerSep)
	parts := strings.Fields(body)
	if len(parts) < 1 {
		return nil, &errors.ParseError{Err: errors.ErrInvalidBoard, Input: s, Expected: "piece placement"}
	}

	pos, err := parsePiecePositions(parts[0])
	if err != nil {
		return nil, err
	}
	snap := chess.NewSnapshot(pos)

	if err := parseTrailingFields(snap, s, parts[1:]); err != nil {
		return nil, err
	}

	if err := parseCheckMarker(snap, s, strings.TrimSpace(marker)); err != nil {
		return nil, err
	}
	return snap, nil
}

// MustParseBoard is like ParseBoard but panics on error.
func MustParseBoard(s string) *chess.Snapshot {
	snap, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return snap
}

// parsePiecePositions parses the piece placement field.
func parsePiecePositions(placement string) (chess.Position, error) {
	pieces := make(map[chess.Square]chess.Piece)
	rank := chess.BoardSize - 1
	file := 0

	fail := func(i int, expected, got string) error {
		return &errors.ParseError{Err: errors.ErrInvalidBoard, Input: placement, Column: i + 1, Expected: expected, Got: got}
	}

	for i := 0; i < len(placement); i++ {
		c := placement[i]
		switch {
		case c == '/':
			if file != chess.BoardSize {
				return chess.Position{}, fail(i, "8 files per rank", fmt.Sprintf("%d", file))
			}
			rank--
			file = 0
			if rank < 0 {
				return chess.Position{}, fail(i, "8 ranks", "more")
			}
		case c >= '1' && c <= '8':
			file += int(c - '0')
			if file > chess.BoardSize {
				return chess.Position{}, fail(i, "8 files per rank", fmt.Sprintf("%d", file))
			}
		default:
			piece := chess.PieceFromLetter(c)
			if piece == chess.Empty {
				return chess.Position{}, fail(i, "piece letter or digit", fmt.Sprintf("%q", c))
			}
			if file >= chess.BoardSize {
				return chess.Position{}, fail(i, "8 files per rank", "more")
			}
			colour := chess.White
			if c >= 'a' && c <= 'z' {
				colour = chess.Black
			}
			pieces[chess.SquareAt(file, rank)] = chess.MakeColouredPiece(colour, piece)
			file++
		}
	}

	if rank != 0 || file != chess.BoardSize {
		return chess.Position{}, &errors.ParseError{Err: errors.ErrInvalidBoard, Input: placement, Expected: "8 complete ranks"}
	}
	return chess.NewPosition(pieces), nil
}

// parseTrailingFields reads side to move, castling, en passant and clocks.
// Every field is optional.
func parseTrailingFields(snap *chess.Snapshot, input string, fields []string) error {
	if len(fields) > 0 {
		switch fields[0] {
		case "w":
			snap.ToMove = chess.White
			fields = fields[1:]
		case "b":
			snap.ToMove = chess.Black
			fields = fields[1:]
		}
	}

	var clocks []uint
	for _, field := range fields {
		switch {
		case isCastlingField(field):
			parseCastlingRights(snap, field)
		case len(clocks) == 0 && isSquareLabel(field):
			sq, err := chess.ParseSquare(field)
			if err != nil {
				return err
			}
			snap.EnPassant = sq
		default:
			n, err := strconv.ParseUint(field, 10, 32)
			if err != nil || len(clocks) == 2 {
				return &errors.ParseError{Err: errors.ErrInvalidBoard, Input: input, Got: fmt.Sprintf("field %q", field)}
			}
			clocks = append(clocks, uint(n))
		}
	}

	if len(clocks) >= 1 {
		snap.HalfmoveClock = clocks[0]
	}
	if len(clocks) >= 2 {
		snap.MoveNumber = clocks[1]
	}
	return nil
}

// isCastlingField reports whether field consists only of castling letters
// and dashes.
func isCastlingField(field string) bool {
	return field != "" && strings.Trim(field, "KQkq-") == ""
}

func isSquareLabel(field string) bool {
	return len(field) == 2 && field[0] >= 'a' && field[0] <= 'h'
}

// parseCastlingRights ORs the castling letters of one field into snap.
func parseCastlingRights(snap *chess.Snapshot, field string) {
	for _, c := range field {
		switch c {
		case 'K':
			snap.WhiteCastle.Kingside = true
		case 'Q':
			snap.WhiteCastle.Queenside = true
		case 'k':
			snap.BlackCastle.Kingside = true
		case 'q':
			snap.BlackCastle.Queenside = true
		}
	}
}

// parseCheckMarker reads the status after the separator.
func parseCheckMarker(snap *chess.Snapshot, input, marker string) error {
	switch marker {
	case "":
		snap.KingInCheck = chess.Empty
	case "wK":
		snap.KingInCheck = chess.W(chess.King)
	case "bK":
		snap.KingInCheck = chess.B(chess.King)
	default:
		return &errors.ParseError{Err: errors.ErrInvalidBoard, Input: input, Expected: "check marker wK or bK", Got: marker}
	}
	return nil
}

// FormatBoard converts a snapshot to its board string.
func FormatBoard(snap *chess.Snapshot) string {
	var sb strings.Builder

	writePiecePositions(&sb, snap.Position)
	sb.WriteByte(' ')
	writeSideToMove(&sb, snap)
	sb.WriteByte(' ')
	writeCastlingRights(&sb, snap)
	sb.WriteByte(' ')
	sb.WriteString(snap.EnPassant.String())
	sb.WriteByte(' ')
	fmt.Fprintf(&sb, "%d %d", snap.HalfmoveClock, snap.MoveNumber)

	if code := chess.PieceCode(snap.KingInCheck); code != "" {
		sb.WriteString(" " + checkMarkerSep + code)
	}
	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, pos chess.Position) {
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < chess.BoardSize; file++ {
			piece := pos.Get(chess.SquareAt(file, rank))
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(chess.FENLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

// writeSideToMove writes the side to move to the builder.
func writeSideToMove(sb *strings.Builder, snap *chess.Snapshot) {
	if snap.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
}

// writeCastlingRights writes the castling availability to the builder.
func writeCastlingRights(sb *strings.Builder, snap *chess.Snapshot) {
	hasCastling := false
	if snap.WhiteCastle.Kingside {
		sb.WriteByte('K')
		hasCastling = true
	}
	if snap.WhiteCastle.Queenside {
		sb.WriteByte('Q')
		hasCastling = true
	}
	if snap.BlackCastle.Kingside {
		sb.WriteByte('k')
		hasCastling = true
	}
	if snap.BlackCastle.Queenside {
		sb.WriteByte('q')
		hasCastling = true
	}
	if !hasCastling {
		sb.WriteByte('-')
	}
}
