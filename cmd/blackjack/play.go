package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/tui"
	"github.com/muesli/termenv"
)

// PlayCmd runs the interactive terminal table
type PlayCmd struct {
	Seed     *int64 `help:"Deterministic seed for the first round (optional)"`
	Theme    string `help:"Colour theme (default, dark, light)"`
	HideSums bool   `help:"Hide hand totals"`
	NoColor  bool   `help:"Disable colour output"`
	LogFile  string `help:"Log file (the terminal belongs to the UI)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
	if c.HideSums {
		cfg.UI.HideSums = true
	}
	if c.NoColor {
		cfg.UI.NoColor = true
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if err := validate(cfg); err != nil {
		return err
	}

	logFile, err := shared.OpenLogFile(cfg.UI.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := shared.SetupLogger(logFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	if cfg.UI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	opts := []tui.Option{
		tui.WithTheme(cfg.UI.Theme),
		tui.WithHideSums(cfg.UI.HideSums),
	}
	if cfg.Game.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *cfg.Game.Seed)
		opts = append(opts, tui.WithSeed(*cfg.Game.Seed))
	}

	engine := blackjack.NewEngine(blackjack.WithLogger(logger))
	model := tui.NewModel(engine, logger, opts...)

	logger.Info("Starting interactive game")
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}
