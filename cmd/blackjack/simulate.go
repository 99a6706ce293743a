package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs a batch of rounds with the hit-below strategy
type SimulateCmd struct {
	Rounds  *int   `help:"Number of rounds to play"`
	Workers *int   `help:"Number of parallel workers"`
	StandOn *int   `name:"stand-on" help:"Player stands at or above this effective sum"`
	Seed    *int64 `help:"Master seed (optional)"`
	Out     string `help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Rounds != nil {
		cfg.Simulator.Rounds = *c.Rounds
	}
	if c.Workers != nil {
		cfg.Simulator.Workers = *c.Workers
	}
	if c.StandOn != nil {
		cfg.Simulator.StandOn = *c.StandOn
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if err := validate(cfg); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.NewSeed()
	if cfg.Game.Seed != nil {
		seed = *cfg.Game.Seed
	}

	simCfg := simulator.Config{
		Rounds:  cfg.Simulator.Rounds,
		Workers: cfg.Simulator.Workers,
		StandOn: cfg.Simulator.StandOn,
		Seed:    seed,
		Logger:  logger,
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting simulation", "rounds", simCfg.Rounds, "workers", simCfg.Workers, "stand_on", simCfg.StandOn, "seed", seed)
	start := time.Now()
	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	report := simulator.NewReport(simCfg, stats, time.Since(start))
	table, err := report.Table()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Println(table)

	if c.Out != "" {
		if err := report.WriteJSON(c.Out); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Out)
	}
	return nil
}
