package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected input and moves. Use errors.Is to test for them.
var (
	// ErrMalformedCoordinate indicates square notation that is not a lowercase
	// file letter followed by a rank digit.
	ErrMalformedCoordinate = errors.New("malformed coordinate")

	// ErrOutOfBounds indicates a numeric coordinate outside 0-7.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	ErrNoPieceAtSource    = errors.New("no piece at source")
	ErrWrongTurn          = errors.New("wrong turn")
	ErrIllegalDestination = errors.New("illegal move")

	// ErrSelfCheck indicates a move that would leave or put the mover's own
	// king in check.
	ErrSelfCheck = errors.New("move would leave king in check")

	// ErrNothingToRevert is returned by revert when no apply precedes it.
	ErrNothingToRevert = errors.New("no move to revert")

	ErrInvalidFEN = errors.New("invalid FEN")
)

// MoveError carries the move that was rejected along with the reason.
type MoveError struct {
	From Square
	To   Square
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s to %s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(from, to Square, err error) error {
	return &MoveError{From: from, To: to, Err: err}
}
