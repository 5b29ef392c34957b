package chess

// Position maps squares to pieces, at most one piece per square.
// It is a value type: setters return a modified copy, so a Position handed
// to the move generator can never be changed underneath the caller.
type Position struct {
	squares [NumSquares]Piece
}

// NewPosition builds a position from a sparse square-to-piece mapping.
// Invalid squares and Empty pieces are skipped.
func NewPosition(pieces map[Square]Piece) Position {
	var p Position
	for sq, piece := range pieces {
		if sq.Valid() && IsColoured(piece) {
			p.squares[sq] = piece
		}
	}
	return p
}

// Get returns the piece on sq, Empty if vacant, or Off if sq is not on the board.
func (p Position) Get(sq Square) Piece {
	if !sq.Valid() {
		return Off
	}
	return p.squares[sq]
}

// IsEmpty reports whether sq is on the board and vacant.
func (p Position) IsEmpty(sq Square) bool {
	return p.Get(sq) == Empty
}

// With returns a copy of the position with piece placed on sq.
// Placing Empty clears the square.
func (p Position) With(sq Square, piece Piece) Position {
	if sq.Valid() {
		p.squares[sq] = piece
	}
	return p
}

// Without returns a copy of the position with sq cleared.
func (p Position) Without(sq Square) Position {
	return p.With(sq, Empty)
}

// Each calls fn for every occupied square in ascending square order.
func (p Position) Each(fn func(sq Square, piece Piece)) {
	for i, piece := range p.squares {
		if piece != Empty {
			fn(Square(i), piece)
		}
	}
}

// Occupied returns the set of squares holding a piece of the given colour.
func (p Position) Occupied(colour Colour) MoveSet {
	var s MoveSet
	p.Each(func(sq Square, piece Piece) {
		if ExtractColour(piece) == colour {
			s = s.Add(sq)
		}
	})
	return s
}

// FindKing returns the square of the given colour's king, or NoSquare.
func (p Position) FindKing(colour Colour) Square {
	king := MakeColouredPiece(colour, King)
	for i, piece := range p.squares {
		if piece == king {
			return Square(i)
		}
	}
	return NoSquare
}

// Map returns the sparse square-to-piece mapping of the position.
func (p Position) Map() map[Square]Piece {
	m := make(map[Square]Piece)
	p.Each(func(sq Square, piece Piece) {
		m[sq] = piece
	})
	return m
}

// InitialPosition returns the standard chess starting position.
func InitialPosition() Position {
	var p Position
	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < BoardSize; file++ {
		p.squares[SquareAt(file, 0)] = W(backRank[file])
		p.squares[SquareAt(file, 1)] = W(Pawn)
		p.squares[SquareAt(file, 6)] = B(Pawn)
		p.squares[SquareAt(file, 7)] = B(backRank[file])
	}
	return p
}

// Snapshot is a Position plus the companion flags rebuilt from the
// service's board string on every interaction.
type Snapshot struct {
	Position Position

	// Who has the next move.
	ToMove Colour

	// Castling availability, trusted as supplied.
	WhiteCastle CastlingRights
	BlackCastle CastlingRights

	// Square a pawn may capture onto en passant this ply, or NoSquare.
	EnPassant Square

	// The externally supplied check marker: W(King), B(King), or Empty.
	KingInCheck Piece

	// The half-move clock and move number, carried through for formatting.
	HalfmoveClock uint
	MoveNumber    uint
}

// NewSnapshot returns a snapshot of pos with White to move and no
// castling, en passant or check marker.
func NewSnapshot(pos Position) *Snapshot {
	return &Snapshot{
		Position:   pos,
		ToMove:     White,
		EnPassant:  NoSquare,
		MoveNumber: 1,
	}
}

// Castling returns the castling rights of the given colour.
func (s *Snapshot) Castling(colour Colour) CastlingRights {
	if colour == White {
		return s.WhiteCastle
	}
	return s.BlackCastle
}

// SetCastling replaces the castling rights of the given colour.
func (s *Snapshot) SetCastling(colour Colour, rights CastlingRights) {
	if colour == White {
		s.WhiteCastle = rights
	} else {
		s.BlackCastle = rights
	}
}

// Copy creates a deep copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	c := *s
	return &c
}
