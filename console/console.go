// Package console plays games against the computer on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gobble/engine"
	"gobble/game"

	"github.com/rs/zerolog/log"
)

type Console struct {
	in         *bufio.Scanner
	out        io.Writer
	controller *engine.Controller
	delay      time.Duration
}

// New reads commands from in and writes the board to out. The computer
// waits delay before it starts thinking.
func New(in io.Reader, out io.Writer, controller *engine.Controller, delay time.Duration) *Console {
	return &Console{
		in:         bufio.NewScanner(in),
		out:        out,
		controller: controller,
		delay:      delay,
	}
}

// Run plays until the input ends, "quit" is read, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.render()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch c.controller.Phase() {
		case engine.ComputerThinking:
			if err := c.computerTurn(ctx); err != nil {
				return err
			}
			c.render()
			continue
		case engine.GameOver:
			c.result()
			fmt.Fprint(c.out, "new or quit> ")
		case engine.HumanTurn:
			fmt.Fprintf(c.out, "your move [%s]> ", c.controller.LegalMoveMask())
		}

		line, ok := c.read()
		if !ok {
			return c.in.Err()
		}
		switch line {
		case "":
			continue
		case "quit", "q":
			return nil
		case "new", "n":
			c.controller.NewGame()
			c.render()
			continue
		}
		if c.controller.Phase() != engine.HumanTurn {
			fmt.Fprintln(c.out, "the game is over")
			continue
		}
		c.humanTurn(line)
	}
}

func (c *Console) read() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(c.in.Text())), true
}

func (c *Console) humanTurn(line string) {
	d, err := game.ParseDirection(line)
	if err != nil {
		fmt.Fprintf(c.out, "unknown command %q, use up/left/down/right, new or quit\n", line)
		return
	}
	if !c.controller.LegalMoveMask().Has(d) {
		fmt.Fprintf(c.out, "cannot move %s\n", d)
		return
	}
	move, err := c.controller.SubmitHumanMove(d)
	if err != nil {
		log.Debug().Err(err).Msg("human move refused")
		fmt.Fprintf(c.out, "cannot move %s\n", d)
		return
	}
	fmt.Fprintf(c.out, "you moved %s and took %d\n", d, move.Captured)
	c.render()
}

func (c *Console) computerTurn(ctx context.Context) error {
	fmt.Fprintln(c.out, "computer is thinking...")
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	decision, ok := <-c.controller.ThinkAsync(ctx)
	if !ok {
		return ctx.Err()
	}
	if decision.Err != nil {
		return fmt.Errorf("computer failed to move: %w", decision.Err)
	}
	if err := c.controller.Commit(decision.Move); err != nil {
		return fmt.Errorf("computer failed to move: %w", err)
	}
	d, _ := decision.Move.Direction()
	fmt.Fprintf(c.out, "computer moved %s and took %d\n", d, decision.Move.Captured)
	return nil
}

func (c *Console) render() {
	fmt.Fprintf(c.out, "\n%s\n", c.controller.Board())
}

func (c *Console) result() {
	b := c.controller.Board()
	leader, ok := game.Leader(b)
	if !ok {
		fmt.Fprintf(c.out, "game over: draw at %d\n", b.Score(game.Human))
		return
	}
	fmt.Fprintf(c.out, "game over: %s wins %d to %d\n", leader, b.Score(leader), b.Score(leader.Opponent()))
}
