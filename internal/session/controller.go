// Package session implements the player's select-then-target interaction
// with one board: hints for the selected piece, the move gate, and
// optimistic submission with rollback.
package session

import (
	"context"
	"sync"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// Identity names the game and the player a submission is made for.
type Identity struct {
	ChainID string `json:"chain_id"`
	Owner   string `json:"owner"`
}

// Submitter sends a move to whoever owns the authoritative game state.
// A nil error is the acknowledgement. Submit runs without the controller's
// lock held, so it may call back into the controller.
type Submitter interface {
	Submit(ctx context.Context, id Identity, req engine.MoveRequest) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, id Identity, req engine.MoveRequest) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, id Identity, req engine.MoveRequest) error {
	return f(ctx, id, req)
}

// Outcome describes what a click did.
type Outcome int

const (
	// Ignored means the click changed nothing.
	Ignored Outcome = iota
	// Selected means a piece was selected and hints computed.
	Selected
	// Cleared means the selection was dropped.
	Cleared
	// Submitted means a move was applied locally and acknowledged.
	Submitted
	// PromotionPending means a promotion choice is needed.
	PromotionPending
)

var outcomeNames = [...]string{"ignored", "selected", "cleared", "submitted", "promotion_pending"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Controller holds one player's view of a game. It is safe for
// concurrent use.
type Controller struct {
	cfg       config.Session
	colour    chess.Colour
	submitter Submitter
	opts      []engine.Option

	mu       sync.Mutex
	snap     *chess.Snapshot
	selected chess.Square
	hints    chess.MoveSet
	pending  *engine.MoveRequest
}

// New returns a controller for the session. It fails when the session's
// colour is not "white" or "black".
func New(cfg config.Session, submitter Submitter, opts ...engine.Option) (*Controller, error) {
	colour, err := cfg.Colour()
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg:       cfg,
		colour:    colour,
		submitter: submitter,
		opts:      opts,
		selected:  chess.NoSquare,
	}, nil
}

// Identity returns the game and player this controller submits for.
func (c *Controller) Identity() Identity {
	return Identity{ChainID: c.cfg.ChainID, Owner: c.cfg.Owner}
}

// Colour returns the colour the player moves.
func (c *Controller) Colour() chess.Colour {
	return c.colour
}

// Load replaces the board, for example after the game state was fetched
// again. The selection is dropped.
func (c *Controller) Load(board string) error {
	snap, err := engine.ParseBoard(board)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.reset()
	return nil
}

// Click handles a click on sq.
//
// With nothing selected, a click on one of the player's pieces selects it.
// With a piece selected, a click on a hinted square plays the move; any
// other click clears the selection, or selects another own piece.
// A pawn reaching the last rank returns PromotionPending together with
// ErrPromotionRequired; Promote completes it.
func (c *Controller) Click(ctx context.Context, sq chess.Square) (Outcome, error) {
	if !sq.Valid() {
		return Ignored, errors.Wrapf(errors.ErrInvalidSquare, "click on %d", sq)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return Ignored, errors.Wrap(errors.ErrInvalidBoard, "no board loaded")
	}
	c.pending = nil

	if c.selected != chess.NoSquare && c.hints.Contains(sq) {
		return c.target(ctx, c.selected, sq)
	}
	if c.isOwnPiece(sq) && sq != c.selected {
		return c.selectSquare(sq)
	}
	if c.selected != chess.NoSquare {
		c.reset()
		return Cleared, nil
	}
	return Ignored, nil
}

// Drop handles a drag from one square onto another. It is only available
// when the session enables drag and drop.
func (c *Controller) Drop(ctx context.Context, from, to chess.Square) (Outcome, error) {
	if !c.cfg.DragAndDrop {
		return Ignored, nil
	}
	if !from.Valid() || !to.Valid() {
		return Ignored, errors.Wrapf(errors.ErrInvalidSquare, "drop %d onto %d", from, to)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return Ignored, errors.Wrap(errors.ErrInvalidBoard, "no board loaded")
	}
	c.pending = nil

	if !c.isOwnPiece(from) {
		c.reset()
		return Ignored, nil
	}
	if outcome, err := c.selectSquare(from); err != nil {
		return outcome, err
	}
	if !c.hints.Contains(to) {
		c.reset()
		return Cleared, nil
	}
	return c.target(ctx, from, to)
}

// Promote completes a pending promotion with the chosen piece type.
func (c *Controller) Promote(ctx context.Context, pieceType chess.Piece) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Ignored, errors.Wrap(errors.ErrIllegalMove, "no promotion pending")
	}

	req, err := c.pending.WithPromotion(pieceType)
	if err != nil {
		return PromotionPending, err
	}
	c.pending = nil
	return c.submit(ctx, req)
}

// CancelPromotion drops a pending promotion and the selection.
func (c *Controller) CancelPromotion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Snapshot returns a copy of the current board, or nil if none is loaded.
func (c *Controller) Snapshot() *chess.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return nil
	}
	return c.snap.Copy()
}

// Board returns the current board string, or "" if none is loaded.
func (c *Controller) Board() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return ""
	}
	return engine.FormatBoard(c.snap)
}

// Selection returns the selected square (NoSquare if none) and its hints.
func (c *Controller) Selection() (chess.Square, chess.MoveSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.hints
}

// PendingPromotion returns the move waiting for a promotion choice.
func (c *Controller) PendingPromotion() (engine.MoveRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return engine.MoveRequest{}, false
	}
	return *c.pending, true
}

func (c *Controller) isOwnPiece(sq chess.Square) bool {
	piece := c.snap.Position.Get(sq)
	return chess.IsColoured(piece) && chess.ExtractColour(piece) == c.colour
}

func (c *Controller) selectSquare(sq chess.Square) (Outcome, error) {
	hints, err := engine.MovesFrom(c.snap, sq, c.opts...)
	if err != nil {
		c.reset()
		return Ignored, err
	}
	c.selected = sq
	c.hints = hints
	return Selected, nil
}

func (c *Controller) target(ctx context.Context, from, to chess.Square) (Outcome, error) {
	req, err := engine.ClassifyMove(c.snap, from, to, c.opts...)
	if err != nil {
		c.reset()
		return Ignored, err
	}
	if req.IsPromotion() {
		c.pending = &req
		return PromotionPending, errors.ErrPromotionRequired
	}
	return c.submit(ctx, req)
}

// submit applies req locally and sends it. On error the previous board is
// restored, unless the board was replaced while the submission was in
// flight. Called with c.mu held; the lock is released around Submit.
func (c *Controller) submit(ctx context.Context, req engine.MoveRequest) (Outcome, error) {
	previous := c.snap
	applied := engine.ApplyMove(previous, req)
	c.snap = applied
	c.reset()

	c.mu.Unlock()
	err := c.submitter.Submit(ctx, c.Identity(), req)
	c.mu.Lock()

	if err != nil {
		if c.snap == applied {
			c.snap = previous
			c.reset()
		}
		return Ignored, &errors.MoveError{
			Err:   errors.Wrap(err, "submit"),
			Piece: chess.PieceCode(req.Piece),
			From:  req.From.String(),
			To:    req.To.String(),
		}
	}
	return Submitted, nil
}

// reset clears the selection and any pending promotion.
func (c *Controller) reset() {
	c.selected = chess.NoSquare
	c.hints = 0
	c.pending = nil
}
