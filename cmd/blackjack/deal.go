package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/tui"
	"github.com/muesli/termenv"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// DealCmd plays one round with scripted actions and prints each view
type DealCmd struct {
	Seed    *int64   `help:"Deterministic seed (optional)"`
	Actions []string `help:"Comma separated actions to apply in order (hit, stand)" default:"stand"`
	JSON    bool     `help:"Print views as JSON lines instead of a table"`
	NoColor bool     `help:"Disable colour output"`
}

func (c *DealCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *DealCmd) run(g *Globals, w io.Writer) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if c.NoColor {
		cfg.UI.NoColor = true
	}
	if err := validate(cfg); err != nil {
		return err
	}
	if cfg.UI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	actions := make([]blackjack.Action, 0, len(c.Actions))
	for _, a := range c.Actions {
		switch action := blackjack.Action(a); action {
		case blackjack.ActionHit, blackjack.ActionStand:
			actions = append(actions, action)
		default:
			return fmt.Errorf("unknown action %q (want hit or stand)", a)
		}
	}

	seed := randutil.NewSeed()
	if cfg.Game.Seed != nil {
		seed = *cfg.Game.Seed
	}

	emit := c.printer(w, tui.StylesFor(cfg.UI.Theme), cfg.UI.HideSums)
	engine := blackjack.NewEngine()

	view := engine.Start(seed)
	if err := emit("deal", seed, view); err != nil {
		return err
	}

	for _, action := range actions {
		if view.IsOver() {
			break
		}

		switch action {
		case blackjack.ActionHit:
			view, err = engine.Hit()
		case blackjack.ActionStand:
			view, err = engine.Stand()
		}
		if err != nil {
			return err
		}
		if err := emit(string(action), seed, view); err != nil {
			return err
		}
	}
	return nil
}

type viewPrinter func(step string, seed int64, v blackjack.RoundView) error

func (c *DealCmd) printer(w io.Writer, styles tui.Styles, hideSums bool) viewPrinter {
	if c.JSON {
		enc := json.NewEncoder(w)
		return func(step string, seed int64, v blackjack.RoundView) error {
			return enc.Encode(struct {
				Step string              `json:"step"`
				Seed int64               `json:"seed"`
				View *server.ViewPayload `json:"view"`
			}{step, seed, server.NewViewPayload(v)})
		}
	}

	return func(step string, seed int64, v blackjack.RoundView) error {
		title := titleStyle.Render(fmt.Sprintf("%s  seed %d  %s", step, seed, v.State))
		_, err := fmt.Fprintf(w, "%s\n%s\n\n", title, tui.RenderRound(styles, v, hideSums))
		return err
	}
}
