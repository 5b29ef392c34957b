package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/session"
	"github.com/lgbarn/movehint-go/internal/store"
)

// sessionRegistry holds the live player sessions by id.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session.Controller)}
}

func (r *sessionRegistry) add(id string, ctrl *session.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = ctrl
}

func (r *sessionRegistry) get(id string) (*session.Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.sessions[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSessionNotFound, "%q", id)
	}
	return ctrl, nil
}

func (r *sessionRegistry) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "%q", id)
	}
	delete(r.sessions, id)
	return nil
}

type createSessionRequest struct {
	Board        string `json:"board" binding:"required"`
	ChainID      string `json:"chain_id"`
	Owner        string `json:"owner"`
	PlayerColour string `json:"player_colour"`
	DragAndDrop  *bool  `json:"drag_and_drop"`
}

type boardRequest struct {
	Board string `json:"board" binding:"required"`
}

type clickRequest struct {
	Square string `json:"square" binding:"required"`
}

type dropRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type promoteRequest struct {
	Piece string `json:"piece" binding:"required"`
}

type sessionState struct {
	ID       string              `json:"id"`
	ChainID  string              `json:"chain_id"`
	Owner    string              `json:"owner,omitempty"`
	Colour   string              `json:"colour"`
	Board    string              `json:"board"`
	Selected string              `json:"selected,omitempty"`
	Hints    []string            `json:"hints"`
	Pending  *engine.MoveRequest `json:"pending,omitempty"`
	Outcome  string              `json:"outcome,omitempty"`
}

func stateOf(id string, ctrl *session.Controller, outcome string) sessionState {
	identity := ctrl.Identity()
	selected, hints := ctrl.Selection()
	st := sessionState{
		ID:      id,
		ChainID: identity.ChainID,
		Owner:   identity.Owner,
		Colour:  ctrl.Colour().String(),
		Board:   ctrl.Board(),
		Hints:   hints.Labels(),
		Outcome: outcome,
	}
	if selected != chess.NoSquare {
		st.Selected = selected.String()
	}
	if pending, ok := ctrl.PendingPromotion(); ok {
		st.Pending = &pending
	}
	return st
}

// newController builds a session whose acknowledged moves are appended to
// the game history under the chain id, attributed to the owner.
func (h *Handler) newController(cfg config.Session) (*session.Controller, error) {
	var ctrl *session.Controller
	submit := session.SubmitterFunc(func(ctx context.Context, id session.Identity, req engine.MoveRequest) error {
		rec := store.NewMoveRecord(req, ctrl.Board())
		rec.Player = id.Owner
		_, err := h.store.Append(ctx, id.ChainID, rec)
		return err
	})
	ctrl, err := session.New(cfg, submit, h.opts...)
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if !bind(c, &req) {
		return
	}

	id := primitive.NewObjectID().Hex()
	cfg := h.sessionDefaults
	if req.ChainID != "" {
		cfg.ChainID = req.ChainID
	}
	if cfg.ChainID == "" {
		cfg.ChainID = id
	}
	if req.Owner != "" {
		cfg.Owner = req.Owner
	}
	if req.PlayerColour != "" {
		cfg.PlayerColour = req.PlayerColour
	}
	if req.DragAndDrop != nil {
		cfg.DragAndDrop = *req.DragAndDrop
	}
	if err := store.ValidateGameID(cfg.ChainID); err != nil {
		fail(c, err)
		return
	}

	ctrl, err := h.newController(cfg)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctrl.Load(req.Board); err != nil {
		fail(c, err)
		return
	}
	h.sessions.add(id, ctrl)
	h.log.Info().Str("session", id).Str("chain", cfg.ChainID).Str("owner", cfg.Owner).Msg("session created")
	c.JSON(http.StatusCreated, stateOf(id, ctrl, ""))
}

// lookupSession looks up the :sid session, answering 404 when it is unknown.
func (h *Handler) lookupSession(c *gin.Context) (string, *session.Controller, bool) {
	id := c.Param("sid")
	ctrl, err := h.sessions.get(id)
	if err != nil {
		fail(c, err)
		return "", nil, false
	}
	return id, ctrl, true
}

func (h *Handler) getSession(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(id, ctrl, ""))
}

func (h *Handler) loadSessionBoard(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req boardRequest
	if !bind(c, &req) {
		return
	}
	if err := ctrl.Load(req.Board); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(id, ctrl, ""))
}

func (h *Handler) click(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req clickRequest
	if !bind(c, &req) {
		return
	}
	sq, err := chess.ParseSquare(req.Square)
	if err != nil {
		fail(c, err)
		return
	}
	outcome, err := ctrl.Click(c.Request.Context(), sq)
	h.respondOutcome(c, id, ctrl, outcome, err)
}

func (h *Handler) drop(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req dropRequest
	if !bind(c, &req) {
		return
	}
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		fail(c, err)
		return
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		fail(c, err)
		return
	}
	outcome, err := ctrl.Drop(c.Request.Context(), from, to)
	h.respondOutcome(c, id, ctrl, outcome, err)
}

func (h *Handler) promote(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	var req promoteRequest
	if !bind(c, &req) {
		return
	}
	if len(req.Piece) != 1 {
		fail(c, errors.Wrapf(errors.ErrInvalidPiece, "promotion %q", req.Piece))
		return
	}
	outcome, err := ctrl.Promote(c.Request.Context(), chess.PieceFromLetter(req.Piece[0]))
	h.respondOutcome(c, id, ctrl, outcome, err)
}

func (h *Handler) cancelPromotion(c *gin.Context) {
	id, ctrl, ok := h.lookupSession(c)
	if !ok {
		return
	}
	ctrl.CancelPromotion()
	c.JSON(http.StatusOK, stateOf(id, ctrl, session.Cleared.String()))
}

func (h *Handler) deleteSession(c *gin.Context) {
	id := c.Param("sid")
	if err := h.sessions.remove(id); err != nil {
		fail(c, err)
		return
	}
	h.log.Info().Str("session", id).Msg("session closed")
	c.Status(http.StatusNoContent)
}

// respondOutcome writes the session state after an interaction. A pending
// promotion is a normal answer, not a failure.
func (h *Handler) respondOutcome(c *gin.Context, id string, ctrl *session.Controller, outcome session.Outcome, err error) {
	if err != nil && !errors.Is(err, errors.ErrPromotionRequired) {
		fail(c, err)
		return
	}
	if outcome == session.Submitted {
		identity := ctrl.Identity()
		h.log.Debug().Str("session", id).Str("chain", identity.ChainID).Str("player", identity.Owner).Msg("move submitted")
	}
	c.JSON(http.StatusOK, stateOf(id, ctrl, outcome.String()))
}
