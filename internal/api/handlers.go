package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/store"
	"github.com/lgbarn/movehint-go/internal/worker"
)

type movesRequest struct {
	Board  string `json:"board" binding:"required"`
	Square string `json:"square" binding:"required"`
}

type movesResponse struct {
	Square string   `json:"square"`
	Piece  string   `json:"piece"`
	Moves  []string `json:"moves"`
}

type hintsRequest struct {
	Board string `json:"board" binding:"required"`
}

type hintsResponse struct {
	Side            string       `json:"side"`
	Squares         []string     `json:"squares"`
	Hints           worker.Hints `json:"hints"`
	Count           int          `json:"count"`
	CheckMarker     string       `json:"check_marker,omitempty"`
	CheckConsistent bool         `json:"check_consistent"`
}

type attackedRequest struct {
	Board  string `json:"board" binding:"required"`
	Square string `json:"square" binding:"required"`
	By     string `json:"by" binding:"required"`
}

type attackedResponse struct {
	Attacked  bool     `json:"attacked"`
	Attackers []string `json:"attackers"`
}

type moveRequest struct {
	Board     string `json:"board" binding:"required"`
	From      string `json:"from" binding:"required"`
	To        string `json:"to" binding:"required"`
	Promotion string `json:"promotion"`
}

type recordResponse struct {
	Record store.MoveRecord `json:"record"`
	Board  string           `json:"board"`
}

type historyResponse struct {
	Moves    []store.MoveRecord `json:"moves"`
	Pairs    []store.MovePair   `json:"pairs"`
	Captured []string           `json:"captured_pieces"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// moves returns the hints of the piece on one square.
func (h *Handler) moves(c *gin.Context) {
	var req movesRequest
	if !bind(c, &req) {
		return
	}
	snap, err := engine.ParseBoard(req.Board)
	if err != nil {
		fail(c, err)
		return
	}
	sq, err := chess.ParseSquare(req.Square)
	if err != nil {
		fail(c, err)
		return
	}

	hints, err := worker.HintsFor(snap, sq, h.opts...)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movesResponse{
		Square: sq.String(),
		Piece:  chess.PieceCode(snap.Position.Get(sq)),
		Moves:  hints[sq.String()],
	})
}

// hints returns the hints of every piece of the side to move.
func (h *Handler) hints(c *gin.Context) {
	var req hintsRequest
	if !bind(c, &req) {
		return
	}
	snap, err := engine.ParseBoard(req.Board)
	if err != nil {
		fail(c, err)
		return
	}

	hints, err := worker.HintsFor(snap, chess.NoSquare, h.opts...)
	if err != nil {
		fail(c, err)
		return
	}
	// The marker stays authoritative; a disagreement is only reported.
	consistent := engine.CheckMarkerConsistent(snap)
	if !consistent {
		h.log.Warn().Str("board", req.Board).Msg("check marker disagrees with the position")
	}
	c.JSON(http.StatusOK, hintsResponse{
		Side:            snap.ToMove.String(),
		Squares:         hints.Squares(),
		Hints:           hints,
		Count:           hints.Count(),
		CheckMarker:     chess.PieceCode(snap.KingInCheck),
		CheckConsistent: consistent,
	})
}

func (h *Handler) attacked(c *gin.Context) {
	var req attackedRequest
	if !bind(c, &req) {
		return
	}
	snap, err := engine.ParseBoard(req.Board)
	if err != nil {
		fail(c, err)
		return
	}
	sq, err := chess.ParseSquare(req.Square)
	if err != nil {
		fail(c, err)
		return
	}
	by, err := chess.ParseColour(req.By)
	if err != nil {
		fail(c, err)
		return
	}

	attackers := engine.Attackers(snap.Position, sq, by)
	labels := attackers.Labels()
	if labels == nil {
		labels = []string{}
	}
	c.JSON(http.StatusOK, attackedResponse{
		Attacked:  !attackers.IsEmpty(),
		Attackers: labels,
	})
}

// classify returns the MoveRequest for a move without recording it.
func (h *Handler) classify(c *gin.Context) {
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	_, move, err := h.gate(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, move)
}

// recordMove classifies and plays a move and appends it to the game.
func (h *Handler) recordMove(c *gin.Context) {
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	snap, move, err := h.gate(req)
	if err != nil {
		fail(c, err)
		return
	}
	if move.IsPromotion() && move.Promoted == chess.Empty {
		fail(c, &errors.MoveError{
			Err:   errors.ErrPromotionRequired,
			Piece: chess.PieceCode(move.Piece),
			From:  move.From.String(),
			To:    move.To.String(),
		})
		return
	}

	board := engine.FormatBoard(engine.ApplyMove(snap, move))
	rec, err := h.store.Append(c.Request.Context(), c.Param("id"), store.NewMoveRecord(move, board))
	if err != nil {
		fail(c, err)
		return
	}
	h.log.Debug().Str("game", rec.GameID).Int("ply", rec.Ply).Str("move", rec.Notation()).Msg("recorded move")
	c.JSON(http.StatusCreated, recordResponse{Record: rec, Board: board})
}

func (h *Handler) history(c *gin.Context) {
	records, err := h.store.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, historyResponse{
		Moves:    records,
		Pairs:    store.PairMoves(records),
		Captured: store.CapturedPieces(records),
	})
}

// gate parses the request and classifies the move, applying the
// promotion choice when one is given.
func (h *Handler) gate(req moveRequest) (*chess.Snapshot, engine.MoveRequest, error) {
	snap, err := engine.ParseBoard(req.Board)
	if err != nil {
		return nil, engine.MoveRequest{}, err
	}
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		return nil, engine.MoveRequest{}, err
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		return nil, engine.MoveRequest{}, err
	}

	move, err := engine.ClassifyMove(snap, from, to, h.opts...)
	if err != nil {
		return nil, engine.MoveRequest{}, err
	}
	if req.Promotion != "" {
		if len(req.Promotion) != 1 {
			return nil, engine.MoveRequest{}, errors.Wrapf(errors.ErrInvalidPiece, "promotion %q", req.Promotion)
		}
		move, err = move.WithPromotion(chess.PieceFromLetter(req.Promotion[0]))
		if err != nil {
			return nil, engine.MoveRequest{}, err
		}
	}
	return snap, move, nil
}
