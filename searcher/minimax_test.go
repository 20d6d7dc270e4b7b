package searcher

import (
	"math"
	"testing"

	"gobble/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"pgregory.net/rapid"
)

func mustBoard(t require.TestingT, rewards [][]int, human, computer game.Pos) *game.Board {
	b, err := game.NewBoard(rewards, human, computer)
	require.NoError(t, err)
	return b
}

func fixed(options ...Option) *Minimax {
	return NewMinimax(append([]Option{WithGenerator(game.NewGenerator(nil))}, options...)...)
}

// referenceValue is a copy-per-node minimax used to cross-check the
// apply/undo search.
func referenceValue(b *game.Board, toMove game.Agent, depth int) int {
	if depth == 0 || b.IsTerminal() {
		return game.ScoreDifference(b)
	}
	moves := game.NewGenerator(nil).LegalMoves(b, toMove)
	if len(moves) == 0 {
		return game.ScoreDifference(b)
	}
	best := math.MinInt
	if toMove == game.Human {
		best = math.MaxInt
	}
	for _, move := range moves {
		child := b.Copy()
		child.Apply(move)
		value := referenceValue(child, toMove.Opponent(), depth-1)
		if toMove == game.Computer {
			best = max(best, value)
		} else {
			best = min(best, value)
		}
	}
	return best
}

func TestNewMinimax(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, 5, NewMinimax().Depth())
	})

	t.Run("ignores non-positive depth", func(t *testing.T) {
		require.Equal(t, 5, NewMinimax(WithDepth(0)).Depth())
		require.Equal(t, 3, NewMinimax(WithDepth(3)).Depth())
	})
}

func TestFindMoveTwoByTwo(t *testing.T) {
	rewards := [][]int{{0, 5}, {5, 0}}
	human, computer := game.Pos{Row: 0, Col: 0}, game.Pos{Row: 1, Col: 1}

	t.Run("depth 1 evaluates the capture alone", func(t *testing.T) {
		b := mustBoard(t, rewards, human, computer)
		m := fixed(WithDepth(1))

		move, _, err := m.FindMove(b)
		require.NoError(t, err)
		require.Equal(t, game.Computer, move.Mover)
		require.Equal(t, 5, move.Captured)
		require.Contains(t, []game.Pos{{Row: 0, Col: 1}, {Row: 1, Col: 0}}, move.Destination)
		require.Equal(t, 5, m.Value(b, game.Computer))
	})

	t.Run("depth 2 subtracts the human's best reply", func(t *testing.T) {
		b := mustBoard(t, rewards, human, computer)
		m := fixed(WithDepth(2))

		// The computer takes 5, the other 5 decays to 4 and the human takes it.
		require.Equal(t, 1, m.Value(b, game.Computer))
		_, _, err := m.FindMove(b)
		require.NoError(t, err)
	})
}

func TestFindMoveLooksAhead(t *testing.T) {
	// A greedy computer grabs the 3. The race for the 50 only shows up with
	// more lookahead.
	b := mustBoard(t, [][]int{
		{0, 40, 30},
		{0, 50, 3},
		{0, 0, 0},
	}, game.Pos{Row: 0, Col: 0}, game.Pos{Row: 2, Col: 2})

	t.Run("greedy at depth 1", func(t *testing.T) {
		move, _, err := fixed(WithDepth(1)).FindMove(b)
		require.NoError(t, err)
		require.Equal(t, game.Pos{Row: 1, Col: 2}, move.Destination)
	})

	t.Run("matches the reference search at depth 4", func(t *testing.T) {
		m := fixed(WithDepth(4))
		move, _, err := m.FindMove(b)
		require.NoError(t, err)

		after := b.Copy()
		after.Apply(move)
		require.Equal(t, referenceValue(b, game.Computer, 4), referenceValue(after, game.Human, 3),
			"Chosen move should achieve the minimax value")
	})
}

func TestFindMoveLeavesBoardUntouched(t *testing.T) {
	b := game.NewRandomBoard(6, rand.New(rand.NewSource(1)))
	before := b.Copy()

	_, _, err := NewMinimax(WithGenerator(game.NewGenerator(rand.New(rand.NewSource(2))))).FindMove(b)
	require.NoError(t, err)
	require.True(t, before.Equal(b))
}

func TestFindMoveMetrics(t *testing.T) {
	b := mustBoard(t, [][]int{{0, 5}, {5, 0}}, game.Pos{Row: 0, Col: 0}, game.Pos{Row: 1, Col: 1})

	_, metric, err := fixed(WithDepth(2), WithMetrics()).FindMove(b)
	require.NoError(t, err)
	require.Equal(t, 2, metric.Depth)
	require.Equal(t, 2, metric.Candidates)
	// Two candidates, each answered by one human move, each a leaf.
	require.Equal(t, 4, metric.Nodes)
	require.Equal(t, 2, metric.Leaves)
}

func TestFindMoveUsesEvaluationFn(t *testing.T) {
	b := mustBoard(t, [][]int{{0, 5}, {9, 0}}, game.Pos{Row: 0, Col: 0}, game.Pos{Row: 1, Col: 1})
	// Prefer the smallest capture.
	contrarian := func(b *game.Board) int { return -game.ScoreDifference(b) }

	move, _, err := fixed(WithDepth(1), WithEvaluationFn(contrarian)).FindMove(b)
	require.NoError(t, err)
	require.Equal(t, 5, move.Captured)
}

func TestSearchIsDeterministicWithFixedOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(2, 5).Draw(t, "size")
		seed := rapid.Uint64().Draw(t, "seed")
		depth := rapid.IntRange(1, 4).Draw(t, "depth")

		b := game.NewRandomBoard(size, rand.New(rand.NewSource(seed)))
		first, _, err := fixed(WithDepth(depth)).FindMove(b)
		require.NoError(t, err)
		second, _, err := fixed(WithDepth(depth)).FindMove(b.Copy())
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestSearchMatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(2, 5).Draw(t, "size")
		seed := rapid.Uint64().Draw(t, "seed")
		depth := rapid.IntRange(1, 4).Draw(t, "depth")
		toMove := game.Agent(rapid.IntRange(0, 1).Draw(t, "toMove"))

		b := game.NewRandomBoard(size, rand.New(rand.NewSource(seed)))
		m := NewMinimax(WithDepth(depth), WithGenerator(game.NewGenerator(rand.New(rand.NewSource(seed)))))
		require.Equal(t, referenceValue(b, toMove, depth), m.Value(b, toMove),
			"Move order must not change the minimax value")

		move, _, err := m.FindMove(b)
		require.NoError(t, err)
		after := b.Copy()
		after.Apply(move)
		require.Equal(t, referenceValue(b, game.Computer, depth), referenceValue(after, game.Human, depth-1))
	})
}
