package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"pgregory.net/rapid"
)

func destinations(moves []Move) []Pos {
	out := make([]Pos, len(moves))
	for i, m := range moves {
		out[i] = m.Destination
	}
	return out
}

func TestLegalMoves(t *testing.T) {
	t.Run("fixed order from the middle of the board", func(t *testing.T) {
		b := mustBoard(t, [][]int{{0, 1, 2}, {3, 0, 5}, {6, 7, 0}}, Pos{1, 1}, Pos{2, 2})
		moves := NewGenerator(nil).LegalMoves(b, Human)

		require.Equal(t, []Move{
			{Mover: Human, Origin: Pos{1, 1}, Destination: Pos{0, 1}, Captured: 1},
			{Mover: Human, Origin: Pos{1, 1}, Destination: Pos{1, 0}, Captured: 3},
			{Mover: Human, Origin: Pos{1, 1}, Destination: Pos{2, 1}, Captured: 7},
			{Mover: Human, Origin: Pos{1, 1}, Destination: Pos{1, 2}, Captured: 5},
		}, moves)
	})

	t.Run("corner with the other agent adjacent", func(t *testing.T) {
		b := mustBoard(t, [][]int{{0, 0}, {5, 0}}, Pos{0, 0}, Pos{0, 1})
		moves := NewGenerator(nil).LegalMoves(b, Human)

		require.Equal(t, []Pos{{1, 0}}, destinations(moves),
			"Only the free in-bounds neighbour should be legal")
	})

	t.Run("2x2 scenario gives the computer two captures of 5", func(t *testing.T) {
		b := mustBoard(t, [][]int{{0, 5}, {5, 0}}, Pos{0, 0}, Pos{1, 1})
		moves := NewGenerator(nil).LegalMoves(b, Computer)

		require.ElementsMatch(t, []Pos{{0, 1}, {1, 0}}, destinations(moves))
		for _, m := range moves {
			require.Equal(t, 5, m.Captured)
		}
	})

	t.Run("append leaves the prefix alone", func(t *testing.T) {
		b := mustBoard(t, [][]int{{0, 5}, {5, 0}}, Pos{0, 0}, Pos{1, 1})
		prefix := Move{Mover: Computer, Captured: 42}
		moves := NewGenerator(rand.New(rand.NewSource(3))).AppendLegalMoves([]Move{prefix}, b, Human)

		require.Len(t, moves, 3)
		require.Equal(t, prefix, moves[0])
	})
}

func TestShuffle(t *testing.T) {
	b := mustBoard(t, [][]int{{1, 1, 1}, {1, 0, 1}, {1, 1, 0}}, Pos{1, 1}, Pos{2, 2})

	t.Run("same seed gives the same order", func(t *testing.T) {
		g1 := NewGenerator(rand.New(rand.NewSource(11)))
		g2 := NewGenerator(rand.New(rand.NewSource(11)))
		for range 10 {
			require.Equal(t, g1.LegalMoves(b, Human), g2.LegalMoves(b, Human))
		}
	})

	t.Run("every direction eventually comes first", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(5)))
		firsts := map[Pos]bool{}
		for range 200 {
			firsts[g.LegalMoves(b, Human)[0].Destination] = true
		}
		require.Len(t, firsts, 4, "Shuffling should not favour a direction")
	})
}

func TestLegalMask(t *testing.T) {
	b := mustBoard(t, [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, Pos{0, 0}, Pos{0, 1})

	require.Equal(t, DownFlag, LegalMask(b, Human))
	require.Equal(t, DownFlag|RightFlag, LegalMask(b, Computer))
	require.Equal(t, "down,right", LegalMask(b, Computer).String())
	require.Equal(t, "none", Mask(0).String())
}

func TestMoveIn(t *testing.T) {
	b := mustBoard(t, [][]int{{0, 0}, {5, 0}}, Pos{0, 0}, Pos{0, 1})

	t.Run("legal direction", func(t *testing.T) {
		m, err := MoveIn(b, Human, Down)
		require.NoError(t, err)
		require.Equal(t, Move{Mover: Human, Origin: Pos{0, 0}, Destination: Pos{1, 0}, Captured: 5}, m)
	})

	t.Run("toward the other agent is rejected", func(t *testing.T) {
		before := b.Copy()
		_, err := MoveIn(b, Human, Right)
		require.ErrorIs(t, err, ErrIllegalMove)
		require.True(t, before.Equal(b))
	})

	t.Run("off the board is rejected", func(t *testing.T) {
		_, err := MoveIn(b, Human, Up)
		require.ErrorIs(t, err, ErrIllegalMove)
	})
}

func TestGeneratedMovesAreLegal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(2, 6).Draw(t, "size")
		seed := rapid.Uint64().Draw(t, "seed")
		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		agent := Agent(rapid.IntRange(0, 1).Draw(t, "agent"))

		g := NewGenerator(rand.New(rand.NewSource(seed)))
		b := NewRandomBoard(size, rand.New(rand.NewSource(seed)))
		randomWalk(b, g, steps)

		moves := g.LegalMoves(b, agent)
		mask := LegalMask(b, agent)
		require.Len(t, mask.Directions(), len(moves))
		for _, m := range moves {
			require.Equal(t, agent, m.Mover)
			require.Equal(t, b.Position(agent), m.Origin)
			require.True(t, b.InBounds(m.Destination))
			require.False(t, b.OccupiedBy(agent.Opponent(), m.Destination))
			d, ok := m.Direction()
			require.True(t, ok, "%s should be one orthogonal step", m)
			require.True(t, mask.Has(d))
			require.Equal(t, b.Reward(m.Destination), m.Captured)
		}
	})
}
