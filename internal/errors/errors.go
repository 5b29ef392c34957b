// Package errors provides sentinel errors and error types for movehint.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidBoard indicates a malformed board notation string.
	ErrInvalidBoard = errors.New("invalid board notation")

	// ErrInvalidSquare indicates a square label or index outside the 8x8 grid.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidPiece indicates an unknown or empty piece code.
	ErrInvalidPiece = errors.New("invalid piece")

	// ErrPieceMismatch indicates the selected piece is not the one standing on
	// the selected square.
	ErrPieceMismatch = errors.New("piece does not match square occupant")

	// ErrIllegalMove indicates a destination outside the generated move set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrPromotionRequired indicates a pawn move that needs a promotion choice
	// before it can be submitted.
	ErrPromotionRequired = errors.New("promotion piece required")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGameNotFound indicates a game id with no recorded history.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidGameID indicates an empty game id or one containing '/'.
	ErrInvalidGameID = errors.New("invalid game id")

	// ErrSessionNotFound indicates an unknown player session id.
	ErrSessionNotFound = errors.New("session not found")
)

// MoveError wraps errors with move context: the piece code and the
// from/to square labels. It implements the error interface and supports
// unwrapping via errors.Is() and errors.As().
type MoveError struct {
	Err   error  // The underlying error
	Piece string // Piece code such as "wK" (if known)
	From  string // Source square label (if known)
	To    string // Destination square label (if known)
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.Piece != "" {
		parts = append(parts, fmt.Sprintf("piece %s", e.Piece))
	}

	switch {
	case e.From != "" && e.To != "":
		parts = append(parts, fmt.Sprintf("%s-%s", e.From, e.To))
	case e.From != "":
		parts = append(parts, fmt.Sprintf("from %s", e.From))
	case e.To != "":
		parts = append(parts, fmt.Sprintf("to %s", e.To))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		if context == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	if context == "" {
		return "move error"
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error with position context within the
// input string. It's used for board notation and square label errors.
type ParseError struct {
	Err      error  // The underlying error
	Input    string // The text being parsed
	Column   int    // Column number (1-based, 0 if unknown)
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.Input != "" {
		loc := fmt.Sprintf("%q", e.Input)
		if e.Column > 0 {
			loc += fmt.Sprintf(" at column %d", e.Column)
		}
		parts = append(parts, loc)
	}

	if e.Expected != "" && e.Got != "" {
		parts = append(parts, fmt.Sprintf("expected %s, got %s", e.Expected, e.Got))
	} else if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	} else if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
