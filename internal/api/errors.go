package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lgbarn/movehint-go/internal/errors"
)

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidBoard),
		errors.Is(err, errors.ErrInvalidSquare),
		errors.Is(err, errors.ErrInvalidPiece),
		errors.Is(err, errors.ErrPieceMismatch),
		errors.Is(err, errors.ErrInvalidGameID):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrPromotionRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrGameNotFound),
		errors.Is(err, errors.ErrSessionNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": msg}. Internal errors are not echoed.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bind decodes the JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
