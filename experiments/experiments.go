// Package experiments plays headless games between the search and simulated
// human policies and records per-game and per-move metrics.
package experiments

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gobble/engine"
	"gobble/experiments/metrics"
	"gobble/game"
	"gobble/meta"
	"gobble/player"
	"gobble/searcher"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Name       string   `json:"name"`
	Games      int      `json:"games"` // per policy
	Goroutines int      `json:"goroutines"`
	Size       int      `json:"size"`
	Depth      int      `json:"depth"`
	Seed       uint64   `json:"seed"`
	Policies   []string `json:"policies"`
	OutDir     string   `json:"outDir"` // no files are written when empty
}

func DefaultConfig() Config {
	return Config{
		Name:       "policies",
		Games:      meta.ExperimentGames,
		Goroutines: meta.ExperimentGoroutines,
		Size:       meta.BoardSize,
		Depth:      meta.SearchDepth,
		Seed:       1,
		Policies:   []string{"random", "greedy"},
	}
}

type Result struct {
	Games []metrics.GameMetric
	Moves []metrics.MoveMetric
	Dir   string // where the records were written
}

// Summary aggregates the games played against one policy.
type Summary struct {
	Policy        string
	Games         int
	ComputerWins  int
	HumanWins     int
	Draws         int
	MeanHuman     float64
	MeanComputer  float64
	MeanSearchDur time.Duration
}

type played struct {
	game  metrics.GameMetric
	moves []metrics.MoveMetric
}

// Run plays cfg.Games games per policy, at most cfg.Goroutines at a time.
// Every game owns its controller and board.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Games <= 0 || cfg.Goroutines <= 0 {
		return Result{}, fmt.Errorf("games and goroutines must be positive, got %d and %d", cfg.Games, cfg.Goroutines)
	}
	for _, name := range cfg.Policies {
		if _, ok := player.New(name, nil); !ok {
			return Result{}, fmt.Errorf("unknown policy %q", name)
		}
	}

	log.Info().Msgf("starting %s experiment: %d games per policy %v", cfg.Name, cfg.Games, cfg.Policies)

	results := xsync.NewMapOf[int, played]()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Goroutines)

	total := 0
	for _, name := range cfg.Policies {
		for range cfg.Games {
			total++
			id := total
			g.Go(func() error {
				p, err := playGame(ctx, cfg, id, name)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				results.Store(id, p)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var result Result
	for id := 1; id <= total; id++ {
		p, ok := results.Load(id)
		if !ok {
			return Result{}, fmt.Errorf("game %d has no result", id)
		}
		result.Games = append(result.Games, p.game)
		result.Moves = append(result.Moves, p.moves...)
	}

	for _, s := range Summarize(result.Games, result.Moves) {
		log.Info().Msgf("%s: %d games, computer won %d, human won %d, %d draws, mean score %.1f vs %.1f, mean search %s",
			s.Policy, s.Games, s.ComputerWins, s.HumanWins, s.Draws, s.MeanComputer, s.MeanHuman, s.MeanSearchDur)
	}
	log.Info().Msgf("completed %s experiment", cfg.Name)

	if cfg.OutDir != "" {
		dir, err := write(cfg, result)
		if err != nil {
			return Result{}, err
		}
		result.Dir = dir
	}
	return result, nil
}

func playGame(ctx context.Context, cfg Config, id int, policyName string) (played, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + uint64(id)))
	policy, _ := player.New(policyName, rng)
	moves := game.NewGenerator(rng)
	controller := engine.NewController(
		engine.WithSize(cfg.Size),
		engine.WithRand(rng),
		engine.WithSearcher(searcher.NewMinimax(
			searcher.WithDepth(cfg.Depth),
			searcher.WithGenerator(moves),
			searcher.WithMetrics(),
		)),
	)

	result := played{game: metrics.GameMetric{ID: id, Policy: policyName, StartTime: time.Now()}}
	for step := 1; controller.Phase() != engine.GameOver; step++ {
		if err := ctx.Err(); err != nil {
			return played{}, err
		}
		if step > meta.MaxTurns {
			return played{}, fmt.Errorf("no result after %d turns", meta.MaxTurns)
		}

		switch controller.Phase() {
		case engine.HumanTurn:
			b := controller.Board()
			move := policy.ChooseMove(b, moves.LegalMoves(b, game.Human))
			d, _ := move.Direction()
			if _, err := controller.SubmitHumanMove(d); err != nil {
				return played{}, err
			}
		case engine.ComputerThinking:
			decision := controller.Think()
			if decision.Err != nil {
				return played{}, decision.Err
			}
			if err := controller.Commit(decision.Move); err != nil {
				return played{}, err
			}
			result.moves = append(result.moves, metrics.MoveMetric{
				Game:         id,
				Step:         step,
				Agent:        game.Computer.String(),
				Move:         decision.Move.String(),
				SearchMetric: decision.Metric,
			})
		}
	}

	b := controller.Board()
	result.game.EndTime = time.Now()
	result.game.Duration = result.game.EndTime.Sub(result.game.StartTime)
	result.game.HumanScore = b.Score(game.Human)
	result.game.ComputerScore = b.Score(game.Computer)
	result.game.TotalMoves = len(controller.History())
	result.game.Passes = controller.Passes()
	if leader, ok := game.Leader(b); ok {
		result.game.Winner = leader.String()
	}
	return result, nil
}

// Summarize groups games by policy, in order of first appearance.
func Summarize(games []metrics.GameMetric, moves []metrics.MoveMetric) []Summary {
	var order []string
	byPolicy := map[string]*Summary{}
	policyOf := map[int]string{}
	for _, g := range games {
		s, ok := byPolicy[g.Policy]
		if !ok {
			s = &Summary{Policy: g.Policy}
			byPolicy[g.Policy] = s
			order = append(order, g.Policy)
		}
		policyOf[g.ID] = g.Policy
		s.Games++
		switch g.Winner {
		case game.Computer.String():
			s.ComputerWins++
		case game.Human.String():
			s.HumanWins++
		default:
			s.Draws++
		}
		s.MeanHuman += float64(g.HumanScore)
		s.MeanComputer += float64(g.ComputerScore)
	}

	searches := map[string]int{}
	for _, m := range moves {
		name := policyOf[m.Game]
		if s, ok := byPolicy[name]; ok {
			s.MeanSearchDur += m.Duration
			searches[name]++
		}
	}

	summaries := make([]Summary, 0, len(order))
	for _, name := range order {
		s := byPolicy[name]
		s.MeanHuman /= float64(s.Games)
		s.MeanComputer /= float64(s.Games)
		if n := searches[name]; n > 0 {
			s.MeanSearchDur /= time.Duration(n)
		}
		summaries = append(summaries, *s)
	}
	return slices.Clip(summaries)
}

func write(cfg Config, result Result) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutDir, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteSetup(cfg); err != nil {
		return "", fmt.Errorf("failed to store setup: %w", err)
	}
	log.Info().Msg("stored setup")
	if err := writer.WriteGameMetrics(result.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveMetrics(result.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
