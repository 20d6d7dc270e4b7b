package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gobble/engine"
	"gobble/game"
	"gobble/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func controller(t *testing.T) *engine.Controller {
	t.Helper()
	b, err := game.NewBoard([][]int{{0, 10}, {20, 0}}, game.Pos{Row: 0, Col: 0}, game.Pos{Row: 1, Col: 1})
	require.NoError(t, err)
	return engine.NewController(
		engine.WithBoard(b),
		engine.WithSize(2),
		engine.WithRand(rand.New(rand.NewSource(3))),
		engine.WithSearcher(searcher.NewMinimax(searcher.WithDepth(1), searcher.WithGenerator(game.NewGenerator(nil)))),
	)
}

func TestConsolePlaysToGameOver(t *testing.T) {
	c := controller(t)
	var out bytes.Buffer
	err := New(strings.NewReader("up\nright\nquit\n"), &out, c, 0).Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "cannot move up")
	require.Contains(t, text, "you moved right and took 10")
	require.Contains(t, text, "computer moved left")
	require.Contains(t, text, "game over: computer wins")
	require.Equal(t, engine.GameOver, c.Phase())
}

func TestConsoleRejectsUnknownCommand(t *testing.T) {
	c := controller(t)
	var out bytes.Buffer
	err := New(strings.NewReader("jump\n"), &out, c, 0).Run(context.Background())
	require.NoError(t, err, "the end of input stops the console")

	require.Contains(t, out.String(), `unknown command "jump"`)
	require.Equal(t, engine.HumanTurn, c.Phase())
	require.Empty(t, c.History())
}

func TestConsoleNewGame(t *testing.T) {
	c := controller(t)
	var out bytes.Buffer
	err := New(strings.NewReader("right\nnew\n"), &out, c, 0).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, engine.HumanTurn, c.Phase())
	require.Empty(t, c.History())
	human, computer := c.Scores()
	require.Zero(t, human)
	require.Zero(t, computer)
}

func TestConsoleStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(strings.NewReader("right\n"), &bytes.Buffer{}, controller(t), 0).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
