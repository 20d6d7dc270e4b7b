// Package searcher picks the computer's move with a depth-bounded minimax
// search over the score difference.
package searcher

import (
	"gobble/experiments/metrics"
	"gobble/game"
)

// Searcher chooses a move for the computer. The board is borrowed for the
// duration of the call and is left exactly as it was passed in.
type Searcher interface {
	FindMove(b *game.Board) (game.Move, metrics.SearchMetric, error)
}
