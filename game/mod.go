// Package game models the reward-collection grid: agents, positions, moves,
// the mutable board with its apply/undo protocol, and legal move generation.
package game

import "fmt"

// Agent identifies one of the two movers.
type Agent int

const (
	Human Agent = iota
	Computer
)

// NumAgents is the number of agents on every board.
const NumAgents = 2

func (a Agent) String() string {
	switch a {
	case Human:
		return "human"
	case Computer:
		return "computer"
	default:
		return fmt.Sprintf("agent(%d)", int(a))
	}
}

// Opponent returns the other agent.
func (a Agent) Opponent() Agent {
	return 1 - a
}

func (a Agent) valid() bool {
	return a == Human || a == Computer
}

// Evaluates the board from the computer's point of view: positive values
// favor the computer, negative values favor the human.
type Evaluate func(*Board) int
