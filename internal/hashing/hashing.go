// Package hashing detects repeated boards so their hints can be reused.
package hashing

import (
	"github.com/lgbarn/movehint-go/internal/chess"
)

// Zobrist keys: one per coloured piece and square, plus the flags that
// change the generated moves. The check marker and clocks do not.
var (
	pieceKeys    [2][7][64]uint64
	blackToMove  uint64
	castlingKeys [2][4]uint64
	enPassantKey [8]uint64
)

func init() {
	seed := uint64(0x6d6f766568696e74)
	next := func() uint64 {
		// splitmix64
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}

	for colour := range pieceKeys {
		for piece := range pieceKeys[colour] {
			for sq := range pieceKeys[colour][piece] {
				pieceKeys[colour][piece][sq] = next()
			}
		}
	}
	blackToMove = next()
	for colour := range castlingKeys {
		for rights := range castlingKeys[colour] {
			castlingKeys[colour][rights] = next()
		}
	}
	for file := range enPassantKey {
		enPassantKey[file] = next()
	}
}

// GenerateZobristHash returns the Zobrist hash of the snapshot's pieces,
// side to move, castling rights and en passant file.
func GenerateZobristHash(snap *chess.Snapshot) uint64 {
	var hash uint64
	snap.Position.Each(func(sq chess.Square, piece chess.Piece) {
		hash ^= pieceKeys[chess.ExtractColour(piece)][chess.ExtractPiece(piece)][sq]
	})
	if snap.ToMove == chess.Black {
		hash ^= blackToMove
	}
	hash ^= castlingKeys[chess.White][rightsIndex(snap.WhiteCastle)]
	hash ^= castlingKeys[chess.Black][rightsIndex(snap.BlackCastle)]
	if snap.EnPassant.Valid() {
		hash ^= enPassantKey[snap.EnPassant.File()]
	}
	return hash
}

// WeakHash is a cheap positional checksum, independent of the Zobrist
// keys, used to confirm a Zobrist match.
func WeakHash(snap *chess.Snapshot) uint64 {
	var hash uint64
	snap.Position.Each(func(sq chess.Square, piece chess.Piece) {
		hash += uint64(piece) * uint64(sq+1) * uint64(sq+1)
	})
	hash = hash*31 + uint64(snap.ToMove)
	hash = hash*31 + uint64(rightsIndex(snap.WhiteCastle))
	hash = hash*31 + uint64(rightsIndex(snap.BlackCastle))
	hash = hash*31 + uint64(snap.EnPassant+1)
	return hash
}

// rightsIndex packs castling rights into 0..3.
func rightsIndex(rights chess.CastlingRights) int {
	i := 0
	if rights.Kingside {
		i |= 1
	}
	if rights.Queenside {
		i |= 2
	}
	return i
}

// Signature identifies a board for duplicate detection.
type Signature struct {
	// Hash is the Zobrist hash of the board.
	Hash uint64
	// WeakHash is checked when two Zobrist hashes agree.
	WeakHash uint64
}

// SignatureOf computes the signature of snap.
func SignatureOf(snap *chess.Snapshot) Signature {
	return Signature{Hash: GenerateZobristHash(snap), WeakHash: WeakHash(snap)}
}
