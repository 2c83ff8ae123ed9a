package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/pokerelo/internal/config"
	"github.com/lox/pokerelo/internal/randutil"
	"github.com/lox/pokerelo/internal/simulator"
)

type EvalCmd struct {
	Config    string        `short:"c" default:"pokerelo.hcl" env:"POKERELO_CONFIG" help:"HCL run file for the game settings"`
	Hands     int           `default:"1000" help:"Card deals to play; each is played twice with the hero moved"`
	Seed      int64         `env:"POKERELO_SEED" help:"Seed for the deals (0 for random)"`
	Timeout   time.Duration `default:"5s" help:"Per hand timeout (0 disables)"`
	Hero      string        `arg:"" help:"Agent identity to evaluate"`
	Opponents []string      `arg:"" help:"Opponent identities, one per remaining seat"`
}

func (c *EvalCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	logger, err := cli.newLogger("warn")
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	sim, err := simulator.New(simulator.Config{
		Game:      cfg.GameConfig(),
		Hands:     c.Hands,
		Hero:      c.Hero,
		Opponents: c.Opponents,
		Seed:      seed,
		Timeout:   c.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Evaluating", "hero", c.Hero, "opponents", c.Opponents, "hands", c.Hands, "seed", seed)
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, stats, c.Hero, cfg.Game.BigBlind)
	fmt.Fprintf(os.Stdout, "  seed      %d\n", seed)
	return nil
}
