package worker

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/hashing"
)

// Hints maps a square label to the sorted destination labels of the piece
// standing there.
type Hints map[string][]string

// Squares returns the hinted squares in a1..h8 order.
func (h Hints) Squares() []string {
	squares := make([]chess.Square, 0, len(h))
	for _, label := range maps.Keys(h) {
		squares = append(squares, chess.MustParseSquare(label))
	}
	slices.Sort(squares)

	out := make([]string, len(squares))
	for i, sq := range squares {
		out[i] = sq.String()
	}
	return out
}

// Count returns the total number of destinations.
func (h Hints) Count() int {
	n := 0
	for _, moves := range h {
		n += len(moves)
	}
	return n
}

// HintsFor computes hints on snap. With sq set it covers only the piece on
// sq; with NoSquare it covers every piece of the side to move.
func HintsFor(snap *chess.Snapshot, sq chess.Square, opts ...engine.Option) (Hints, error) {
	if sq != chess.NoSquare {
		moves, err := engine.MovesFrom(snap, sq, opts...)
		if err != nil {
			return nil, err
		}
		return Hints{sq.String(): labels(moves)}, nil
	}

	all := engine.AllMoves(snap, snap.ToMove, opts...)
	hints := make(Hints, len(all))
	for from, moves := range all {
		hints[from.String()] = labels(moves)
	}
	return hints, nil
}

// labels never returns nil, so an empty set encodes as [].
func labels(moves chess.MoveSet) []string {
	if moves.IsEmpty() {
		return []string{}
	}
	return moves.Labels()
}

// NewHintFunc returns a ProcessFunc that parses each item's board and
// computes its hints as HintsFor does.
func NewHintFunc(sq chess.Square, opts ...engine.Option) ProcessFunc {
	return func(item WorkItem) ProcessResult {
		result := ProcessResult{Index: item.Index, Line: item.Line, Board: item.Board}
		snap, err := engine.ParseBoard(item.Board)
		if err != nil {
			result.Error = err
			return result
		}
		result.Hints, result.Error = HintsFor(snap, sq, opts...)
		return result
	}
}

// NewCachedHintFunc is NewHintFunc backed by cache: a board whose
// signature was seen before gets the stored hints instead of a new
// generation. Cached hints are shared and must not be modified.
func NewCachedHintFunc(sq chess.Square, cache *hashing.Cache[Hints], opts ...engine.Option) ProcessFunc {
	return func(item WorkItem) ProcessResult {
		result := ProcessResult{Index: item.Index, Line: item.Line, Board: item.Board}
		snap, err := engine.ParseBoard(item.Board)
		if err != nil {
			result.Error = err
			return result
		}

		sig := hashing.SignatureOf(snap)
		if hints, ok := cache.Get(sig); ok {
			result.Hints, result.Cached = hints, true
			return result
		}

		result.Hints, result.Error = HintsFor(snap, sq, opts...)
		if result.Error == nil {
			cache.Add(sig, result.Hints)
		}
		return result
	}
}
