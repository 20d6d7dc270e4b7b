// Package engine is the turn controller between the game core and a
// presentation layer: it decides whose turn it is, runs the search for the
// computer and reports every change to a listener.
package engine

import (
	"errors"
	"fmt"

	"gobble/experiments/metrics"
	"gobble/game"
)

var (
	ErrNotHumanTurn    = fmt.Errorf("%w: not the human's turn", game.ErrIllegalMove)
	ErrNotComputerTurn = fmt.Errorf("%w: not the computer's turn", game.ErrIllegalMove)
	ErrGameOver        = fmt.Errorf("%w: game is over - no moves allowed", game.ErrIllegalMove)
	ErrThinking        = errors.New("computer is already thinking")
	ErrStaleDecision   = errors.New("decision belongs to a previous game")
)

// Phase is the turn indicator shown to the collaborator.
type Phase int

const (
	HumanTurn Phase = iota
	ComputerThinking
	GameOver
)

func (p Phase) String() string {
	switch p {
	case HumanTurn:
		return "human"
	case ComputerThinking:
		return "computer"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func phaseOf(a game.Agent) Phase {
	if a == game.Computer {
		return ComputerThinking
	}
	return HumanTurn
}

// Update is sent to the listener after every applied move, pass, and new game.
type Update struct {
	Move          game.Move
	// Passed reports that Move.Mover had no legal move. Every cell of a board
	// of size 2 or more has two neighbours and the opponent blocks at most
	// one, so this stays false on every valid board.
	Passed        bool
	NewGame       bool
	HumanScore    int
	ComputerScore int
	Turn          Phase
	Mask          game.Mask // legal directions of the human, 0 unless it is the human's turn
}

type Listener func(Update)

// Decision is the outcome of one computer search.
type Decision struct {
	Move   game.Move
	Metric metrics.SearchMetric
	Err    error
}
