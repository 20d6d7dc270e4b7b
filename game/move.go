package game

import "fmt"

// Move describes one step of one agent and the reward standing on the
// destination when the move was generated.
type Move struct {
	Mover       Agent
	Origin      Pos
	Destination Pos
	Captured    int
}

// Direction returns the direction of the step. The second result is false
// when origin and destination are not orthogonally adjacent.
func (m Move) Direction() (Direction, bool) {
	return directionOf(m.Origin, m.Destination)
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s->%s +%d", m.Mover, m.Origin, m.Destination, m.Captured)
}
