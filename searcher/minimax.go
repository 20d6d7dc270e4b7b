package searcher

import (
	"math"
	"time"

	"gobble/experiments/metrics"
	"gobble/game"
	"gobble/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *Minimax)

// Minimax searches a fixed number of plies, alternating the computer (max)
// and the human (min). It mutates the board in place with Apply/Undo and
// is not safe for concurrent use.
type Minimax struct {
	depth    int
	evaluate game.Evaluate
	moves    *game.Generator
	metrics  metrics.Collector

	// buffers[d] holds the candidate moves at d remaining plies.
	buffers [][]game.Move
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithGenerator replaces the move generator, e.g. with a fixed-order one
// for reproducible searches.
func WithGenerator(g *game.Generator) Option {
	return func(m *Minimax) {
		if g != nil {
			m.moves = g
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{ // Default values
		depth:    meta.SearchDepth,
		evaluate: game.ScoreDifference,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.moves == nil {
		m.moves = game.NewGenerator(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))))
	}
	m.buffers = make([][]game.Move, m.depth+1)
	for d := range m.buffers {
		m.buffers[d] = make([]game.Move, 0, len(game.Directions))
	}
	return m
}

func (m *Minimax) Depth() int {
	return m.depth
}

// FindMove returns the computer move with the strictly greatest value;
// ties keep the earliest move in generator order. It returns
// game.ErrNoLegalMove when the computer is boxed in, which cannot happen on
// a board of size 2 or more.
func (m *Minimax) FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error) {
	moves := m.moves.LegalMoves(b, game.Computer)
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, game.ErrNoLegalMove
	}

	before := b.Copy()
	m.metrics.Start(m.depth, len(moves))

	best, bestValue := moves[0], math.MinInt
	for _, move := range moves {
		b.Apply(move)
		value := m.bestHumanValue(b, m.depth-1)
		b.Undo(move)
		if value > bestValue {
			best, bestValue = move, value
		}
	}

	if !b.Equal(before) {
		panic(game.InvariantViolation{Reason: "search did not restore the board"})
	}

	metric := m.metrics.Complete()
	log.Debug().
		Stringer("move", best).
		Int("value", bestValue).
		Int("candidates", len(moves)).
		Int("nodes", metric.Nodes).
		Dur("took", metric.Duration).
		Msg("computer move found")
	return best, metric, nil
}

// Value returns the minimax value of b with toMove about to play and the
// configured depth of lookahead.
func (m *Minimax) Value(b *game.Board, toMove game.Agent) int {
	if toMove == game.Computer {
		return m.bestComputerValue(b, m.depth)
	}
	return m.bestHumanValue(b, m.depth)
}

// bestComputerValue is the value the computer can guarantee with d plies
// left when it is the computer's turn.
func (m *Minimax) bestComputerValue(b *game.Board, d int) int {
	m.metrics.AddNode()
	if d == 0 || b.IsTerminal() {
		return m.leaf(b)
	}
	moves := m.moves.AppendLegalMoves(m.buffers[d][:0], b, game.Computer)
	if len(moves) == 0 {
		return m.leaf(b)
	}

	best := math.MinInt
	for _, move := range moves {
		b.Apply(move)
		value := m.bestHumanValue(b, d-1)
		b.Undo(move)
		best = max(best, value)
	}
	return best
}

// bestHumanValue assumes the human answers with the move that minimizes the
// computer's advantage.
func (m *Minimax) bestHumanValue(b *game.Board, d int) int {
	m.metrics.AddNode()
	if d == 0 || b.IsTerminal() {
		return m.leaf(b)
	}
	moves := m.moves.AppendLegalMoves(m.buffers[d][:0], b, game.Human)
	if len(moves) == 0 {
		return m.leaf(b)
	}

	best := math.MaxInt
	for _, move := range moves {
		b.Apply(move)
		value := m.bestComputerValue(b, d-1)
		b.Undo(move)
		best = min(best, value)
	}
	return best
}

func (m *Minimax) leaf(b *game.Board) int {
	m.metrics.AddLeaf()
	return m.evaluate(b)
}
