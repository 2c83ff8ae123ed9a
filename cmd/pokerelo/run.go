package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/pokerelo/internal/config"
	"github.com/lox/pokerelo/internal/tournament"
	"github.com/schollz/progressbar/v3"
)

type RunCmd struct {
	Config     string `short:"c" default:"pokerelo.hcl" env:"POKERELO_CONFIG" help:"HCL run file"`
	Hands      int    `help:"Override the number of hands"`
	Workers    int    `help:"Override the worker count (0 = 75% of CPUs)"`
	Seed       int64  `env:"POKERELO_SEED" help:"Override the seed (0 keeps the run file's)"`
	State      string `env:"POKERELO_STATE" help:"Override the rating table file"`
	Resume     bool   `help:"Continue from the saved rating table instead of the roster"`
	NoProgress bool   `help:"Disable the progress bar"`
	Top        int    `default:"20" help:"Leaderboard rows to print (0 = all)"`
}

func (c *RunCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.override(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.Config, err)
	}

	logger, err := cli.newLogger(cfg.Tournament.LogLevel)
	if err != nil {
		return err
	}

	opts := tournament.Options{
		Workers:    cfg.Tournament.Workers,
		Seed:       cfg.Tournament.Seed,
		Logger:     logger,
		Permissive: cfg.Tournament.Permissive,
	}
	// The bar is sized once the roster is known; workers only tick it.
	var bar *progressbar.ProgressBar
	if !c.NoProgress {
		opts.Progress = func() { _ = bar.Add(1) }
	}

	tour, err := tournament.New(cfg.GameConfig(), opts)
	if err != nil {
		return err
	}
	if err := c.register(tour, cfg); err != nil {
		return err
	}

	if !c.NoProgress {
		bar = progressbar.NewOptions(tour.ScheduledHands(cfg.Tournament.Hands),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("hands"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish())
		defer bar.Finish()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, playErr := tour.Play(ctx, cfg.Tournament.Hands)

	// Ratings committed before a stop are consistent, so keep them.
	if err := tour.SaveState(cfg.Tournament.StateFile); err != nil {
		return errors.Join(playErr, err)
	}
	printLeaderboard(os.Stdout, tour.BestAgents(c.topN()), cfg.Game.BigBlind)
	printSummary(os.Stdout, summary)

	if errors.Is(playErr, context.Canceled) {
		logger.Warn("Interrupted; partial ratings saved", "path", cfg.Tournament.StateFile)
		return nil
	}
	return playErr
}

func (c *RunCmd) override(cfg *config.Config) {
	if c.Hands > 0 {
		cfg.Tournament.Hands = c.Hands
	}
	if c.Workers > 0 {
		cfg.Tournament.Workers = c.Workers
	}
	if c.Seed != 0 {
		cfg.Tournament.Seed = c.Seed
	}
	if c.State != "" {
		cfg.Tournament.StateFile = c.State
	}
}

// register loads the saved table when resuming, otherwise the roster.
func (c *RunCmd) register(tour *tournament.Tournament, cfg *config.Config) error {
	if c.Resume {
		if _, err := os.Stat(cfg.Tournament.StateFile); err == nil {
			return tour.LoadState(cfg.Tournament.StateFile)
		}
	}
	for _, a := range cfg.Agents {
		for _, it := range a.Iterations {
			if err := tour.AddAgent(a.Identity, it); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *RunCmd) topN() int {
	if c.Top <= 0 {
		return math.MaxInt
	}
	return c.Top
}

func printLeaderboard(w io.Writer, standings []tournament.Standing, bigBlind int) {
	fmt.Fprintf(w, "\n%-4s %-32s %6s %9s %10s %10s %s\n", "#", "agent", "iter", "elo", "hands", "bb/100", "")
	for i, s := range standings {
		flag := ""
		if s.OverMaxRating {
			flag = "capped"
		}
		fmt.Fprintf(w, "%-4d %-32s %6d %9.1f %10d %10.2f %s\n",
			i+1, s.Identity, s.Iteration, s.Elo, s.HandsPlayed, s.Results.PerHundred(bigBlind), flag)
	}
}

func printSummary(w io.Writer, s tournament.Summary) {
	fmt.Fprintf(w, "\n%d hands in %s (%d workers, %d rounds)\n", s.Hands, s.Elapsed.Round(time.Millisecond), s.Workers, s.Rounds)
	if s.Illegal+s.Failed+s.Substituted > 0 {
		fmt.Fprintf(w, "skipped: %d illegal, %d failed; substituted %d choices\n", s.Illegal, s.Failed, s.Substituted)
	}
	if s.Dropped > 0 {
		fmt.Fprintf(w, "dropped %d agents below zero Elo\n", s.Dropped)
	}
}
