package main

import (
	"fmt"
	"os"

	"github.com/lox/pokerelo/internal/bot"
	"github.com/lox/pokerelo/internal/config"
	"github.com/lox/pokerelo/internal/fileutil"
	"github.com/lox/pokerelo/internal/game"
	"github.com/lox/pokerelo/internal/handid"
	"github.com/lox/pokerelo/internal/phh"
	"github.com/lox/pokerelo/internal/randutil"
)

type HandCmd struct {
	Config     string   `short:"c" default:"pokerelo.hcl" env:"POKERELO_CONFIG" help:"HCL run file for the game settings"`
	Seed       int64    `help:"Seed for the deal and agent randomness (0 for random)"`
	Permissive bool     `help:"Replace illegal choices instead of failing"`
	PHH        string   `name:"phh" type:"path" help:"Also write the hand history to this file in PHH format"`
	Agents     []string `arg:"" help:"Agent identities, one per seat (e.g. random call maniac)"`
}

func (c *HandCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	gc := cfg.GameConfig()
	if len(c.Agents) != gc.Seats {
		return fmt.Errorf("need %d agents for %d seats, got %d", gc.Seats, gc.Seats, len(c.Agents))
	}

	// Show every action unless asked otherwise.
	logger, err := cli.newLogger("debug")
	if err != nil {
		return err
	}

	resolver := bot.NewResolver(logger)
	agents := make([]game.Agent, len(c.Agents))
	for i, id := range c.Agents {
		if agents[i], err = resolver.Load(id, 0); err != nil {
			return err
		}
	}

	seed := randutil.Seed(c.Seed)
	tree, err := game.NewTree(gc,
		game.WithSeed(seed),
		game.WithLogger(logger),
		game.WithPermissive(c.Permissive))
	if err != nil {
		return err
	}
	rewards, err := tree.PlayOneHand(agents, true)
	if err != nil {
		return err
	}

	id := handid.New(nil, nil).Generate()
	fmt.Fprintf(os.Stdout, "hand %s, seed %d, %d nodes expanded\n", id, seed, tree.Len())
	for seat, r := range rewards {
		fmt.Fprintf(os.Stdout, "seat %d %-24s %+8.0f\n", seat, c.Agents[seat], r)
	}

	if c.PHH == "" {
		return nil
	}
	history, err := phh.FromTree(tree, c.Agents, id)
	if err != nil {
		return err
	}
	history.Metadata = map[string]any{"seed": seed}
	data, err := phh.EncodeToBytes(history)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(c.PHH, data, 0o644); err != nil {
		return fmt.Errorf("writing hand history: %w", err)
	}
	logger.Info("Wrote hand history", "path", c.PHH, "actions", len(history.Actions))
	return nil
}
