package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config  string `help:"HCL configuration file" default:"blackjack.hcl"`
	EnvFile string `help:"Optional .env file with BLACKJACK_* overrides" default:".env"`
	Debug   bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play interactively in the terminal"`
	Deal     DealCmd          `cmd:"" help:"Play one scripted round and print every view"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many rounds with a fixed strategy"`
	Serve    ServeCmd         `cmd:"" help:"Serve rounds over websockets"`
	Assets   AssetsCmd        `cmd:"" help:"List or check card image assets"`
}

// load reads the config file, then .env and the environment. Command flags
// are applied on top by each command before validating.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	lookup, err := config.Environment(g.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if g.Debug {
		cfg.UI.LogLevel = "debug"
	}
	return cfg, nil
}

func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player BlackJack against a fixed dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
