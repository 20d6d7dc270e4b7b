package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"gobble/console"
	"gobble/engine"
	"gobble/experiments"
	"gobble/game"
	"gobble/meta"
	"gobble/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/exp/rand"
)

var (
	size       = meta.BoardSize
	depth      = meta.SearchDepth
	seed       = uint64(0)
	delay      = meta.ComputerDelay
	logLevel   = "warn"
	experiment = false
	games      = meta.ExperimentGames
	goroutines = meta.ExperimentGoroutines
	policies   = []string{"random", "greedy"}
	outDir     = "results"
)

func init() {
	pflag.IntVarP(&size, "size", "n", size, "rows and columns of the board")
	pflag.IntVarP(&depth, "depth", "d", depth, "plies the computer looks ahead")
	pflag.Uint64Var(&seed, "seed", seed, "random seed, 0 picks one from the clock")
	pflag.DurationVar(&delay, "delay", delay, "pause before the computer moves")
	pflag.StringVar(&logLevel, "log-level", logLevel, "zerolog level")
	pflag.BoolVar(&experiment, "experiment", experiment, "play headless games instead of an interactive one")
	pflag.IntVar(&games, "games", games, "headless games per policy")
	pflag.IntVar(&goroutines, "goroutines", goroutines, "headless games played at once")
	pflag.StringSliceVar(&policies, "policies", policies, "simulated human policies")
	pflag.StringVarP(&outDir, "out", "o", outDir, "directory for experiment records")
	pflag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if size < 2 {
		log.Fatal().Msgf("board size %d is smaller than 2", size)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	os.Exit(start(ctx))
}

func start(ctx context.Context) int {
	if experiment {
		cfg := experiments.DefaultConfig()
		cfg.Games = games
		cfg.Goroutines = goroutines
		cfg.Size = size
		cfg.Depth = depth
		cfg.Seed = seed
		cfg.Policies = policies
		cfg.OutDir = outDir

		result, err := experiments.Run(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("experiment failed")
			return 1
		}
		log.Info().Msgf("wrote records to %s", result.Dir)
		return 0
	}

	rng := rand.New(rand.NewSource(seed))
	controller := engine.NewController(
		engine.WithSize(size),
		engine.WithRand(rng),
		engine.WithSearcher(searcher.NewMinimax(
			searcher.WithDepth(depth),
			searcher.WithGenerator(game.NewGenerator(rand.New(rand.NewSource(seed+1)))),
			searcher.WithMetrics(),
		)),
	)
	if err := console.New(os.Stdin, os.Stdout, controller, delay).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("console failed")
		return 1
	}
	return 0
}
