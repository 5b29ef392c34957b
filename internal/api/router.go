// Package api serves move hints, player sessions and game history over
// HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/store"
)

// Deps are shared by every handler. They are read-only after NewRouter.
type Deps struct {
	Store  store.HistoryRepository
	Engine config.Engine
	// Session supplies the defaults of sessions created over the API.
	Session config.Session
	Log     zerolog.Logger
}

// Handler holds the dependencies of the route handlers.
type Handler struct {
	store           store.HistoryRepository
	opts            []engine.Option
	log             zerolog.Logger
	sessionDefaults config.Session
	sessions        *sessionRegistry
}

// NewRouter builds the gin engine with every route registered. Game and
// session routes need a store.
func NewRouter(deps Deps) *gin.Engine {
	h := &Handler{
		store:           deps.Store,
		log:             deps.Log,
		sessionDefaults: deps.Session,
		sessions:        newSessionRegistry(),
	}
	if deps.Engine.SafeKingSteps {
		h.opts = append(h.opts, engine.WithSafeKingSteps())
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(deps.Log))

	r.GET("/healthz", h.health)

	v1 := r.Group("/v1")
	v1.POST("/moves", h.moves)
	v1.POST("/hints", h.hints)
	v1.POST("/attacked", h.attacked)
	v1.POST("/classify", h.classify)

	if h.store != nil {
		v1.POST("/games/:id/moves", h.recordMove)
		v1.GET("/games/:id/moves", h.history)

		sessions := v1.Group("/sessions")
		sessions.POST("", h.createSession)
		sessions.GET("/:sid", h.getSession)
		sessions.DELETE("/:sid", h.deleteSession)
		sessions.POST("/:sid/board", h.loadSessionBoard)
		sessions.POST("/:sid/click", h.click)
		sessions.POST("/:sid/drop", h.drop)
		sessions.POST("/:sid/promote", h.promote)
		sessions.POST("/:sid/cancel", h.cancelPromotion)
	}
	return r
}

// accessLog logs one line per request.
func accessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("error", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("request")
	}
}
