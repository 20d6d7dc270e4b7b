package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Generator enumerates legal moves. With a random source it shuffles every
// result so that tied moves are not always resolved in the same direction;
// without one it keeps the fixed order Up, Left, Down, Right.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator shuffling with rng, or a fixed-order
// generator when rng is nil.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// LegalMoves returns every move available to agent a: one orthogonal step
// onto an in-bounds cell not occupied by the other agent.
func (g *Generator) LegalMoves(b *Board, a Agent) []Move {
	return g.AppendLegalMoves(make([]Move, 0, len(Directions)), b, a)
}

// AppendLegalMoves appends the legal moves of a to dst and returns it.
// Only the appended part is shuffled.
func (g *Generator) AppendLegalMoves(dst []Move, b *Board, a Agent) []Move {
	start := len(dst)
	origin := b.Position(a)
	for _, d := range Directions {
		dest := origin.Add(d)
		if !b.InBounds(dest) || b.OccupiedBy(a.Opponent(), dest) {
			continue
		}
		dst = append(dst, Move{
			Mover:       a,
			Origin:      origin,
			Destination: dest,
			Captured:    b.Reward(dest),
		})
	}
	g.shuffle(dst[start:])
	return dst
}

// shuffle is a Fisher-Yates pass over the injected source.
func (g *Generator) shuffle(moves []Move) {
	if g == nil || g.rng == nil {
		return
	}
	for i := len(moves) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		moves[i], moves[j] = moves[j], moves[i]
	}
}

// LegalMask returns the directions a may move in.
func LegalMask(b *Board, a Agent) Mask {
	var m Mask
	origin := b.Position(a)
	for _, d := range Directions {
		dest := origin.Add(d)
		if b.InBounds(dest) && !b.OccupiedBy(a.Opponent(), dest) {
			m |= d.Flag()
		}
	}
	return m
}

// MoveIn builds the move of a in direction d, or returns ErrIllegalMove.
func MoveIn(b *Board, a Agent, d Direction) (Move, error) {
	if !LegalMask(b, a).Has(d) {
		return Move{}, fmt.Errorf("%w: %s cannot move %s from %s", ErrIllegalMove, a, d, b.Position(a))
	}
	origin := b.Position(a)
	dest := origin.Add(d)
	return Move{Mover: a, Origin: origin, Destination: dest, Captured: b.Reward(dest)}, nil
}
