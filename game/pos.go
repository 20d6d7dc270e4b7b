package game

import (
	"fmt"
	"strings"
)

// Pos is a (row, col) coordinate on the board.
type Pos struct {
	Row, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns the position one step from p in direction d.
func (p Pos) Add(d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Direction is one of the four orthogonal steps.
type Direction int

const (
	Up Direction = iota
	Left
	Down
	Right
)

// Directions lists every direction in the fixed generation order.
var Directions = [...]Direction{Up, Left, Down, Right}

// Delta returns the row and column change of a single step.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Left:
		return 0, -1
	case Down:
		return 1, 0
	case Right:
		return 0, 1
	default:
		panic(fmt.Sprintf("unexpected direction %d", int(d)))
	}
}

// Flag returns the mask bit the presentation layer uses for d.
func (d Direction) Flag() Mask {
	switch d {
	case Up:
		return UpFlag
	case Down:
		return DownFlag
	case Left:
		return LeftFlag
	case Right:
		return RightFlag
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts a direction name or its w/a/s/d key.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, nil
	case "left", "a":
		return Left, nil
	case "down", "s":
		return Down, nil
	case "right", "d":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// directionOf returns the direction leading from one position to an adjacent one.
func directionOf(from, to Pos) (Direction, bool) {
	for _, d := range Directions {
		if from.Add(d) == to {
			return d, true
		}
	}
	return 0, false
}

// Mask is a set of directions, encoded with the flag values below.
type Mask uint8

const (
	UpFlag    Mask = 1
	DownFlag  Mask = 2
	LeftFlag  Mask = 4
	RightFlag Mask = 8
)

// Has reports whether d is in the mask.
func (m Mask) Has(d Direction) bool {
	return m&d.Flag() != 0
}

// Directions returns the directions in the mask, in generation order.
func (m Mask) Directions() []Direction {
	var dirs []Direction
	for _, d := range Directions {
		if m.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (m Mask) String() string {
	dirs := m.Directions()
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}
