package main

import (
	"fmt"
	"os"

	"github.com/lox/pokerelo/internal/config"
	"github.com/lox/pokerelo/internal/tournament"
)

type BestCmd struct {
	Config string `short:"c" default:"pokerelo.hcl" env:"POKERELO_CONFIG" help:"HCL run file"`
	State  string `env:"POKERELO_STATE" help:"Rating table file (defaults to the run file's)"`
	N      int    `short:"n" default:"5" help:"Number of agents to show"`
}

func (c *BestCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.State != "" {
		cfg.Tournament.StateFile = c.State
	}
	logger, err := cli.newLogger(cfg.Tournament.LogLevel)
	if err != nil {
		return err
	}

	tour, err := tournament.New(cfg.GameConfig(), tournament.Options{Logger: logger})
	if err != nil {
		return err
	}
	if err := tour.LoadState(cfg.Tournament.StateFile); err != nil {
		return err
	}
	if tour.AgentCount() == 0 {
		return fmt.Errorf("no agents in %s", cfg.Tournament.StateFile)
	}
	printLeaderboard(os.Stdout, tour.BestAgents(c.N), cfg.Game.BigBlind)
	return nil
}
