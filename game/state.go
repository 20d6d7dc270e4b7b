package game

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/rand"
)

const (
	MinReward = 10
	MaxReward = 99
)

// Board is the mutable game state: the reward grid, both positions and
// both scores. It is owned by a single goroutine at a time.
type Board struct {
	size      int
	rewards   []int // row-major, size*size
	positions [NumAgents]Pos
	scores    [NumAgents]int

	// Undo journal. spoiled holds the cells each applied move decayed from 1
	// to 0; journal[i].mark indexes the first of them.
	journal []record
	spoiled []int
}

type record struct {
	move Move
	mark int
}

// NewBoard builds a board from an explicit grid. The grid must be square,
// non-negative, at least 2x2, and hold 0 under both agents.
func NewBoard(rewards [][]int, human, computer Pos) (*Board, error) {
	size := len(rewards)
	if size < 2 {
		return nil, fmt.Errorf("%w: size %d is smaller than 2", ErrInvalidBoard, size)
	}
	b := &Board{
		size:    size,
		rewards: make([]int, size*size),
	}
	for r, row := range rewards {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), size)
		}
		for c, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative reward %d at %s", ErrInvalidBoard, v, Pos{r, c})
			}
			b.rewards[r*size+c] = v
		}
	}
	for _, p := range []Pos{human, computer} {
		if !b.InBounds(p) {
			return nil, fmt.Errorf("%w: agent position %s out of bounds", ErrInvalidBoard, p)
		}
		if b.Reward(p) != 0 {
			return nil, fmt.Errorf("%w: reward %d under agent at %s", ErrInvalidBoard, b.Reward(p), p)
		}
	}
	if human == computer {
		return nil, fmt.Errorf("%w: both agents at %s", ErrInvalidBoard, human)
	}
	b.positions[Human] = human
	b.positions[Computer] = computer
	return b, nil
}

// NewRandomBoard fills every cell except the two starting corners with a
// reward drawn uniformly from [MinReward, MaxReward]. The human starts at
// the top-left corner and the computer at the bottom-right one.
func NewRandomBoard(size int, rng *rand.Rand) *Board {
	if size < 2 {
		panic(fmt.Sprintf("board size %d is smaller than 2", size))
	}
	b := &Board{
		size:    size,
		rewards: make([]int, size*size),
	}
	for i := 1; i < size*size-1; i++ {
		b.rewards[i] = MinReward + rng.Intn(MaxReward-MinReward+1)
	}
	b.positions[Human] = Pos{0, 0}
	b.positions[Computer] = Pos{size - 1, size - 1}
	return b
}

func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether both coordinates lie in [0, size).
func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < b.size && p.Col < b.size
}

// OccupiedBy reports whether agent a stands at p.
func (b *Board) OccupiedBy(a Agent, p Pos) bool {
	return b.positions[a] == p
}

// IsTerminal reports whether every reward has been collected or has spoiled.
func (b *Board) IsTerminal() bool {
	for _, v := range b.rewards {
		if v != 0 {
			return false
		}
	}
	return true
}

// Reward returns the value at p, or 0 outside the board.
func (b *Board) Reward(p Pos) int {
	if !b.InBounds(p) {
		return 0
	}
	return b.rewards[b.index(p)]
}

// Rewards returns a copy of the grid.
func (b *Board) Rewards() [][]int {
	grid := make([][]int, b.size)
	for r := range grid {
		grid[r] = slices.Clone(b.rewards[r*b.size : (r+1)*b.size])
	}
	return grid
}

// Remaining returns the sum of all rewards still on the board.
func (b *Board) Remaining() int {
	total := 0
	for _, v := range b.rewards {
		total += v
	}
	return total
}

func (b *Board) Position(a Agent) Pos {
	return b.positions[a]
}

func (b *Board) Score(a Agent) int {
	return b.scores[a]
}

// Apply plays m: the mover collects the destination reward, moves there, and
// then every remaining reward decays by one.
func (b *Board) Apply(m Move) {
	b.check(m)

	b.scores[m.Mover] += m.Captured
	b.positions[m.Mover] = m.Destination
	b.rewards[b.index(m.Destination)] = 0

	b.journal = append(b.journal, record{move: m, mark: len(b.spoiled)})
	for i, v := range b.rewards {
		if v == 0 {
			continue
		}
		if v == 1 {
			b.spoiled = append(b.spoiled, i)
		}
		b.rewards[i] = v - 1
	}
}

// Undo reverts m, which must be the most recently applied move.
func (b *Board) Undo(m Move) {
	if len(b.journal) == 0 {
		violated("undo of %s with nothing applied", m)
	}
	last := b.journal[len(b.journal)-1]
	if last.move != m {
		violated("undo of %s but last applied move is %s", m, last.move)
	}
	b.journal = b.journal[:len(b.journal)-1]

	b.scores[m.Mover] -= m.Captured
	b.positions[m.Mover] = m.Origin

	for i, v := range b.rewards {
		if v != 0 {
			b.rewards[i] = v + 1
		}
	}
	for _, i := range b.spoiled[last.mark:] {
		b.rewards[i] = 1
	}
	b.spoiled = b.spoiled[:last.mark]

	b.rewards[b.index(m.Destination)] = m.Captured
}

// check panics when m cannot be applied to the current board.
func (b *Board) check(m Move) {
	if !m.Mover.valid() {
		violated("move %s has no valid mover", m)
	}
	if b.positions[m.Mover] != m.Origin {
		violated("move %s does not start at the mover's position %s", m, b.positions[m.Mover])
	}
	if !b.InBounds(m.Destination) {
		violated("move %s leaves the board", m)
	}
	if _, ok := m.Direction(); !ok {
		violated("move %s is not a single orthogonal step", m)
	}
	if b.OccupiedBy(m.Mover.Opponent(), m.Destination) {
		violated("move %s lands on the %s", m, m.Mover.Opponent())
	}
	if got := b.Reward(m.Destination); got != m.Captured {
		violated("move %s is stale: destination holds %d", m, got)
	}
}

// Copy returns an independent board with the same state and undo journal.
func (b *Board) Copy() *Board {
	return &Board{
		size:      b.size,
		rewards:   slices.Clone(b.rewards),
		positions: b.positions,
		scores:    b.scores,
		journal:   slices.Clone(b.journal),
		spoiled:   slices.Clone(b.spoiled),
	}
}

// Equal compares grid, positions and scores.
func (b *Board) Equal(other *Board) bool {
	return b.size == other.size &&
		b.positions == other.positions &&
		b.scores == other.scores &&
		slices.Equal(b.rewards, other.rewards)
}

func (b *Board) index(p Pos) int {
	return p.Row*b.size + p.Col
}

func (b *Board) String() string {
	var s strings.Builder
	for r := range b.size {
		for c := range b.size {
			if c > 0 {
				s.WriteByte(' ')
			}
			p := Pos{r, c}
			switch {
			case b.OccupiedBy(Human, p):
				s.WriteString(" H")
			case b.OccupiedBy(Computer, p):
				s.WriteString(" C")
			case b.Reward(p) == 0:
				s.WriteString(" .")
			default:
				fmt.Fprintf(&s, "%2d", b.Reward(p))
			}
		}
		s.WriteByte('\n')
	}
	fmt.Fprintf(&s, "human %d computer %d", b.scores[Human], b.scores[Computer])
	return s.String()
}
