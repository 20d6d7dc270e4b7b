package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned for a requested move that is out of bounds
	// or lands on the other agent. The board is unchanged.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoLegalMove reports that an agent is boxed in. It is a game state,
	// not a failure.
	ErrNoLegalMove = errors.New("no legal move")

	ErrInvalidBoard = errors.New("invalid board")
)

// InvariantViolation is the panic value for board corruption: an apply/undo
// mismatch or a move onto the other agent. It is never returned as an error.
type InvariantViolation struct {
	Reason string
}

func (v InvariantViolation) Error() string {
	return "invariant violation: " + v.Reason
}

func violated(format string, args ...any) {
	panic(InvariantViolation{Reason: fmt.Sprintf(format, args...)})
}
