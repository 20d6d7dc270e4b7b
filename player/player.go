// Package player provides headless stand-ins for the human, used to play
// games without a presentation layer.
package player

import (
	"gobble/game"

	"golang.org/x/exp/rand"
)

// Policy decides the human's move among the legal ones.
type Policy interface {
	Name() string
	ChooseMove(b *game.Board, moves []game.Move) game.Move
}

type random struct {
	rng *rand.Rand
}

// NewRandom returns a policy picking uniformly among the legal moves.
func NewRandom(rng *rand.Rand) Policy {
	return random{rng: rng}
}

func (p random) Name() string {
	return "random"
}

func (p random) ChooseMove(_ *game.Board, moves []game.Move) game.Move {
	return moves[p.rng.Intn(len(moves))]
}

type greedy struct{}

// NewGreedy returns a policy taking the largest capture; ties keep the
// first move.
func NewGreedy() Policy {
	return greedy{}
}

func (greedy) Name() string {
	return "greedy"
}

func (greedy) ChooseMove(_ *game.Board, moves []game.Move) game.Move {
	best := moves[0]
	for _, m := range moves[1:] {
		if m.Captured > best.Captured {
			best = m
		}
	}
	return best
}

// New returns the policy with the given name, or false.
func New(name string, rng *rand.Rand) (Policy, bool) {
	switch name {
	case "random":
		return NewRandom(rng), true
	case "greedy":
		return NewGreedy(), true
	default:
		return nil, false
	}
}
