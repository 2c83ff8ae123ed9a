// Package config loads the HCL run file that describes a tournament: the
// game sizing, the tournament settings and the roster of agents.
//
//	game {
//	  seats           = 3
//	  buy_in          = 300
//	  small_blind     = 10
//	  big_blind       = 20
//	  postflop_raises = [0.25, 0.5, 0.66, 1.0]
//	}
//
//	tournament {
//	  hands      = 100000
//	  state_file = "ratings.txt"
//	}
//
//	agent "random" {}
//	agent "weighted:policies" {
//	  iterations = [10, 20, 30]
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerelo/internal/game"
)

// Config is the complete run configuration.
type Config struct {
	Game       GameSettings
	Tournament TournamentSettings
	Agents     []AgentConfig
}

// GameSettings mirrors game.Config. Zero values take the defaults.
type GameSettings struct {
	Seats             int       `hcl:"seats,optional"`
	BuyIn             int       `hcl:"buy_in,optional"`
	Ante              int       `hcl:"ante,optional"`
	SmallBlind        int       `hcl:"small_blind,optional"`
	BigBlind          int       `hcl:"big_blind,optional"`
	PreflopRaises     []float64 `hcl:"preflop_raises,optional"`
	PostflopRaises    []float64 `hcl:"postflop_raises,optional"`
	MinRaise          int       `hcl:"min_raise,optional"`
	CommitmentPercent *int      `hcl:"commitment_percent,optional"`
}

// TournamentSettings controls a run.
type TournamentSettings struct {
	Hands      int    `hcl:"hands,optional"`
	Workers    int    `hcl:"workers,optional"`
	Seed       int64  `hcl:"seed,optional"`
	Permissive bool   `hcl:"permissive,optional"`
	StateFile  string `hcl:"state_file,optional"`
	LogLevel   string `hcl:"log_level,optional"`
}

// AgentConfig registers one identity at each listed iteration.
type AgentConfig struct {
	Identity   string `hcl:"identity,label"`
	Iterations []int  `hcl:"iterations,optional"`
}

// Default returns the configuration used when no run file exists.
func Default() *Config {
	cfg := &Config{
		Agents: []AgentConfig{
			{Identity: "random"},
			{Identity: "call"},
			{Identity: "maniac"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the run file at filename, falling back to Default when it does
// not exist.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes a run file and applies defaults for missing values.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw struct {
		Game       *GameSettings       `hcl:"game,block"`
		Tournament *TournamentSettings `hcl:"tournament,block"`
		Agents     []AgentConfig       `hcl:"agent,block"`
	}
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{Agents: raw.Agents}
	if raw.Game != nil {
		cfg.Game = *raw.Game
	}
	if raw.Tournament != nil {
		cfg.Tournament = *raw.Tournament
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := game.DefaultConfig()
	g := &c.Game
	if g.Seats == 0 {
		g.Seats = def.Seats
	}
	if g.BuyIn == 0 {
		g.BuyIn = def.BuyIn
	}
	if g.SmallBlind == 0 {
		g.SmallBlind = def.SmallBlind
	}
	if g.BigBlind == 0 {
		g.BigBlind = def.BigBlind
	}
	if g.PostflopRaises == nil {
		g.PostflopRaises = slices.Clone(def.PostflopRaises)
	}
	if g.PreflopRaises == nil {
		// Keep the two ladders the same length so the mask shape is fixed.
		g.PreflopRaises = make([]float64, len(g.PostflopRaises))
		copy(g.PreflopRaises, def.PreflopRaises)
	}
	if g.MinRaise == 0 {
		g.MinRaise = g.BigBlind
	}
	if g.CommitmentPercent == nil {
		pct := def.CommitmentPercent
		g.CommitmentPercent = &pct
	}

	t := &c.Tournament
	if t.Hands == 0 {
		t.Hands = 10000
	}
	if t.StateFile == "" {
		t.StateFile = "ratings.txt"
	}
	if t.LogLevel == "" {
		t.LogLevel = "info"
	}

	for i := range c.Agents {
		if len(c.Agents[i].Iterations) == 0 {
			c.Agents[i].Iterations = []int{0}
		}
	}
}

// GameConfig converts the game block.
func (c *Config) GameConfig() game.Config {
	g := c.Game
	cfg := game.Config{
		Seats:          g.Seats,
		BuyIn:          g.BuyIn,
		Ante:           g.Ante,
		SmallBlind:     g.SmallBlind,
		BigBlind:       g.BigBlind,
		PreflopRaises:  slices.Clone(g.PreflopRaises),
		PostflopRaises: slices.Clone(g.PostflopRaises),
		MinRaise:       g.MinRaise,
	}
	if g.CommitmentPercent != nil {
		cfg.CommitmentPercent = *g.CommitmentPercent
	}
	return cfg
}

// Validate validates the run configuration.
func (c *Config) Validate() error {
	gc := c.GameConfig()
	errs := []error{gc.Validate()}

	if c.Tournament.Hands < 0 {
		errs = append(errs, fmt.Errorf("tournament: hands must not be negative"))
	}
	if c.Tournament.Workers < 0 {
		errs = append(errs, fmt.Errorf("tournament: workers must not be negative"))
	}
	if _, err := log.ParseLevel(c.Tournament.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("tournament: invalid log level %q", c.Tournament.LogLevel))
	}

	for _, a := range c.Agents {
		if a.Identity == "" {
			errs = append(errs, fmt.Errorf("agent: identity must not be empty"))
		}
		for _, it := range a.Iterations {
			if it < 0 {
				errs = append(errs, fmt.Errorf("agent %s: invalid iteration %d", a.Identity, it))
			}
		}
	}
	if n := c.AgentCount(); n < gc.Seats {
		errs = append(errs, fmt.Errorf("need at least %d agents to fill a table, have %d", gc.Seats, n))
	}
	return errors.Join(errs...)
}

// AgentCount returns the number of records the roster registers.
func (c *Config) AgentCount() int {
	n := 0
	for _, a := range c.Agents {
		n += len(a.Iterations)
	}
	return n
}
