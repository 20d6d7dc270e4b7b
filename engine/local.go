package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"gobble/game"
	"gobble/meta"
	"gobble/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(c *Controller)

// WithSize sets the side of the boards created by NewGame.
func WithSize(size int) Option {
	return func(c *Controller) {
		if size >= 2 {
			c.size = size
		}
	}
}

// WithRand sets the source of new reward grids.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithSearcher(s searcher.Searcher) Option {
	return func(c *Controller) {
		if s != nil {
			c.searcher = s
		}
	}
}

func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

// WithBoard starts the first game on b instead of a random grid. The
// controller takes ownership of b.
func WithBoard(b *game.Board) Option {
	return func(c *Controller) {
		c.board = b
	}
}

// Controller owns the board of one game at a time. Human input is refused
// while the computer is thinking.
type Controller struct {
	size     int
	rng      *rand.Rand
	searcher searcher.Searcher
	listener Listener

	mu       sync.Mutex
	board    *game.Board
	phase    Phase
	thinking bool
	round    uint64 // bumped by every new game

	// search serializes searches, since a stale one may outlive its game.
	// It is never held while waiting for mu.
	search sync.Mutex
	history  []game.Move
	passes   int
}

func NewController(options ...Option) *Controller {
	c := &Controller{ // Default values
		size: meta.BoardSize,
	}
	for _, option := range options {
		option(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if c.searcher == nil {
		c.searcher = searcher.NewMinimax()
	}

	if c.board == nil {
		c.NewGame()
	} else {
		c.start(c.board)
	}
	return c
}

// NewGame discards the current game and starts one on a fresh random grid
// with the human to move.
func (c *Controller) NewGame() {
	c.start(game.NewRandomBoard(c.size, c.rng))
}

func (c *Controller) start(b *game.Board) {
	c.mu.Lock()
	c.board = b
	c.round++
	c.thinking = false
	c.phase = HumanTurn
	c.history = nil
	c.passes = 0
	if b.IsTerminal() {
		c.phase = GameOver
	}
	u := c.update()
	u.NewGame = true
	c.mu.Unlock()

	log.Info().Msgf("new %dx%d game with %d points on the board", b.Size(), b.Size(), b.Remaining())
	c.notify(u)
}

// Board returns a copy of the current board for rendering.
func (c *Controller) Board() *game.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Copy()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Scores() (human, computer int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Score(game.Human), c.board.Score(game.Computer)
}

// History returns the applied moves of the current game, oldest first.
func (c *Controller) History() []game.Move {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// Passes returns how many turns were skipped for lack of a legal move. It is
// always 0 on boards of size 2 or more; see Update.Passed.
func (c *Controller) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

// LegalMoveMask returns the directions the human may move in. It is empty
// unless it is the human's turn.
func (c *Controller) LegalMoveMask() game.Mask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mask()
}

func (c *Controller) mask() game.Mask {
	if c.phase != HumanTurn {
		return 0
	}
	return game.LegalMask(c.board, game.Human)
}

// SubmitHumanMove applies the human's step in direction d. An illegal
// request leaves the state unchanged.
func (c *Controller) SubmitHumanMove(d game.Direction) (game.Move, error) {
	c.mu.Lock()
	switch c.phase {
	case GameOver:
		c.mu.Unlock()
		return game.Move{}, ErrGameOver
	case ComputerThinking:
		c.mu.Unlock()
		return game.Move{}, ErrNotHumanTurn
	}
	move, err := game.MoveIn(c.board, game.Human, d)
	if err != nil {
		c.mu.Unlock()
		log.Debug().Err(err).Msg("rejected human move")
		return game.Move{}, err
	}
	updates := c.play(move)
	c.mu.Unlock()

	c.notify(updates...)
	return move, nil
}

// ComputeComputerMove runs the search and returns the chosen move without
// applying it.
func (c *Controller) ComputeComputerMove() (game.Move, error) {
	d := c.Think()
	return d.Move, d.Err
}

// Think runs the search synchronously on the controller's board.
func (c *Controller) Think() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.computerMayThink(); err != nil {
		return Decision{Err: err}
	}
	c.search.Lock()
	defer c.search.Unlock()
	move, metric, err := c.searcher.FindMove(c.board)
	return Decision{Move: move, Metric: metric, Err: err}
}

// ThinkAsync searches a copy of the board on another goroutine. The
// controller keeps refusing human input until the decision is committed.
// The channel yields one decision and is closed; nothing is sent when ctx
// is done first. A search that outlives its game yields ErrStaleDecision.
func (c *Controller) ThinkAsync(ctx context.Context) <-chan Decision {
	out := make(chan Decision, 1)

	c.mu.Lock()
	if err := c.computerMayThink(); err != nil {
		c.mu.Unlock()
		out <- Decision{Err: err}
		close(out)
		return out
	}
	c.thinking = true
	round := c.round
	board := c.board.Copy()
	c.mu.Unlock()

	go func() {
		defer close(out)
		c.search.Lock()
		move, metric, err := c.searcher.FindMove(board)
		c.search.Unlock()
		decision := Decision{Move: move, Metric: metric, Err: err}

		c.mu.Lock()
		if c.round == round {
			c.thinking = false
		} else {
			decision = Decision{Err: ErrStaleDecision}
		}
		c.mu.Unlock()

		select {
		case out <- decision:
		case <-ctx.Done():
		}
	}()
	return out
}

func (c *Controller) computerMayThink() error {
	switch {
	case c.phase == GameOver:
		return ErrGameOver
	case c.phase != ComputerThinking:
		return ErrNotComputerTurn
	case c.thinking:
		return ErrThinking
	}
	return nil
}

// Commit applies a computer move returned by Think, ThinkAsync or
// ComputeComputerMove.
func (c *Controller) Commit(move game.Move) error {
	c.mu.Lock()
	switch {
	case c.phase == GameOver:
		c.mu.Unlock()
		return ErrGameOver
	case c.phase != ComputerThinking:
		c.mu.Unlock()
		return ErrNotComputerTurn
	}
	if !slices.Contains(game.NewGenerator(nil).LegalMoves(c.board, game.Computer), move) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s is not a legal computer move", game.ErrIllegalMove, move)
	}
	updates := c.play(move)
	c.mu.Unlock()

	c.notify(updates...)
	return nil
}

// PlayComputerTurn searches and applies the computer's move.
func (c *Controller) PlayComputerTurn() (game.Move, error) {
	d := c.Think()
	if d.Err != nil {
		return game.Move{}, d.Err
	}
	if err := c.Commit(d.Move); err != nil {
		return game.Move{}, err
	}
	return d.Move, nil
}

// play applies move and advances the turn. The caller holds c.mu.
func (c *Controller) play(move game.Move) []Update {
	c.board.Apply(move)
	c.history = append(c.history, move)
	log.Debug().Msgf("%s", move)

	if c.board.IsTerminal() {
		c.phase = GameOver
		human, computer := c.board.Score(game.Human), c.board.Score(game.Computer)
		log.Info().Msgf("game over after %d moves: human %d, computer %d", len(c.history), human, computer)
		u := c.update()
		u.Move = move
		return []Update{u}
	}

	next := move.Mover.Opponent()
	c.phase = phaseOf(next)
	u := c.update()
	u.Move = move
	updates := []Update{u}

	// The mover can always step back to where it came from, so at most one
	// agent is ever boxed in.
	if game.LegalMask(c.board, next) == 0 {
		c.passes++
		log.Warn().Msgf("%s has no legal move and passes", next)
		c.phase = phaseOf(move.Mover)
		pass := c.update()
		pass.Move = game.Move{Mover: next, Origin: c.board.Position(next), Destination: c.board.Position(next)}
		pass.Passed = true
		updates = append(updates, pass)
	}
	return updates
}

func (c *Controller) update() Update {
	return Update{
		HumanScore:    c.board.Score(game.Human),
		ComputerScore: c.board.Score(game.Computer),
		Turn:          c.phase,
		Mask:          c.mask(),
	}
}

func (c *Controller) notify(updates ...Update) {
	if c.listener == nil {
		return
	}
	for _, u := range updates {
		c.listener(u)
	}
}
