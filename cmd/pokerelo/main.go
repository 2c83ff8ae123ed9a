package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `default:"" env:"POKERELO_LOG_LEVEL" help:"Log level (debug|info|warn|error); defaults to the run file's"`

	Run  RunCmd  `cmd:"" help:"Play a rating tournament and save the table"`
	Best BestCmd `cmd:"" help:"Show the best rated agents from a saved table"`
	Hand HandCmd `cmd:"" help:"Play a single hand between agents"`
	Eval EvalCmd `cmd:"" help:"Measure one agent's win rate against fixed opponents"`
}

func main() {
	// A missing .env is not an error; variables may come from the shell.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerelo"),
		kong.Description("Elo-rated self-play tournaments for no-limit hold'em policies"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// newLogger builds the stderr logger. The explicit flag wins over fallback.
func (c *CLI) newLogger(fallback string) (*log.Logger, error) {
	name := c.LogLevel
	if name == "" {
		name = fallback
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}
