// meta/meta.go
package meta

import "time"

// BoardSize defines the number of rows and columns of the grid.
const BoardSize = 6

// SearchDepth defines how many plies the computer looks ahead.
const SearchDepth = 5

// ComputerDelay defines the pause before the computer starts thinking, so
// the human's move and the turn indicator are visible first.
const ComputerDelay = 100 * time.Millisecond

// ExperimentGames defines the number of headless games per human policy.
const ExperimentGames = 20

// ExperimentGoroutines defines the number of headless games played at once.
const ExperimentGoroutines = 8

// MaxTurns defines the bound on a headless game. Every reward spoils within
// game.MaxReward moves, so this is never reached on a valid board.
const MaxTurns = 300
