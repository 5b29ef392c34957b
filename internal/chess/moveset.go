package chess

import (
	"math/bits"
	"strings"
)

// MoveSet is an unordered set of destination squares, one bit per square.
type MoveSet uint64

// NewMoveSet builds a set from the given squares, ignoring invalid ones.
func NewMoveSet(squares ...Square) MoveSet {
	var s MoveSet
	for _, sq := range squares {
		s = s.Add(sq)
	}
	return s
}

// Add returns the set with sq included.
func (s MoveSet) Add(sq Square) MoveSet {
	if !sq.Valid() {
		return s
	}
	return s | MoveSet(1)<<uint(sq)
}

// Remove returns the set with sq excluded.
func (s MoveSet) Remove(sq Square) MoveSet {
	if !sq.Valid() {
		return s
	}
	return s &^ (MoveSet(1) << uint(sq))
}

// Contains reports whether sq is in the set.
func (s MoveSet) Contains(sq Square) bool {
	return sq.Valid() && s&(MoveSet(1)<<uint(sq)) != 0
}

// Union returns the squares in either set.
func (s MoveSet) Union(other MoveSet) MoveSet {
	return s | other
}

// Len returns the number of squares in the set.
func (s MoveSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// IsEmpty reports whether the set has no squares.
func (s MoveSet) IsEmpty() bool {
	return s == 0
}

// Squares returns the members in ascending square order.
func (s MoveSet) Squares() []Square {
	squares := make([]Square, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		squares = append(squares, Square(bits.TrailingZeros64(rest)))
	}
	return squares
}

// Labels returns the member labels in ascending square order.
func (s MoveSet) Labels() []string {
	labels := make([]string, 0, s.Len())
	for _, sq := range s.Squares() {
		labels = append(labels, sq.String())
	}
	return labels
}

// String returns the labels in braces, e.g. "{e3 e4}".
func (s MoveSet) String() string {
	return "{" + strings.Join(s.Labels(), " ") + "}"
}
