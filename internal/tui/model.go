// Package tui implements the interactive terminal table for a single player.
package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/cards"
	"github.com/lox/blackjack/internal/randutil"
)

const maxHistory = 5

// Model is the bubbletea model wrapping one engine. Every engine call happens
// inside Update; View only reads the last snapshot.
type Model struct {
	engine *blackjack.Engine
	logger *log.Logger

	firstSeed *int64
	seeds     *rand.Rand

	keys   keyMap
	help   help.Model
	styles Styles

	view     blackjack.RoundView
	history  []string
	status   string
	hideSums bool
	width    int
	quitting bool
}

// Option configures a Model
type Option func(*Model)

// WithSeed deals the first round from seed and derives later rounds from it.
func WithSeed(seed int64) Option {
	return func(m *Model) {
		m.firstSeed = &seed
		m.seeds = randutil.New(seed)
	}
}

// WithTheme selects a colour theme by name.
func WithTheme(theme string) Option {
	return func(m *Model) {
		m.styles = StylesFor(theme)
	}
}

// WithHideSums hides hand totals.
func WithHideSums(hide bool) Option {
	return func(m *Model) {
		m.hideSums = hide
	}
}

// NewModel creates the model and deals the first round.
func NewModel(engine *blackjack.Engine, logger *log.Logger, opts ...Option) *Model {
	m := &Model{
		engine: engine,
		logger: logger.WithPrefix("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: StylesFor("default"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.seeds == nil {
		m.seeds = randutil.New(randutil.NewSeed())
	}

	m.newRound()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case key.Matches(msg, m.keys.Hit):
			m.apply(blackjack.ActionHit, m.engine.Hit)
		case key.Matches(msg, m.keys.Stand):
			m.apply(blackjack.ActionStand, m.engine.Stand)
		case key.Matches(msg, m.keys.New):
			m.newRound()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	return m, nil
}

// RoundView returns the snapshot the model is currently rendering.
func (m *Model) RoundView() blackjack.RoundView {
	return m.view
}

// History returns summaries of the most recent finished rounds, oldest first.
func (m *Model) History() []string {
	return append([]string(nil), m.history...)
}

// Status returns the last rejected action message, if any.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) newRound() {
	seed := m.nextSeed()
	m.view = m.engine.Start(seed)
	m.status = ""
	m.keys.sync(false)
	m.logger.Debug("Round started", "round", m.view.Round, "seed", seed)
}

func (m *Model) nextSeed() int64 {
	if m.firstSeed != nil {
		seed := *m.firstSeed
		m.firstSeed = nil
		return seed
	}
	return randutil.Derive(m.seeds)
}

func (m *Model) apply(action blackjack.Action, fn func() (blackjack.RoundView, error)) {
	view, err := fn()
	if err != nil {
		m.status = err.Error()
		m.logger.Debug("Action rejected", "action", action, "error", err)
		return
	}

	m.view = view
	m.status = ""
	if view.IsOver() {
		m.record(view)
		m.keys.sync(true)
	}
}

func (m *Model) record(v blackjack.RoundView) {
	entry := fmt.Sprintf("#%d %s %d vs %d", v.Round, v.Outcome.Message(), v.PlayerEffectiveSum, v.DealerEffectiveSum)
	m.history = append(m.history, entry)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.logger.Info("Round over", "round", v.Round, "outcome", v.Outcome, "player", v.PlayerEffectiveSum, "dealer", v.DealerEffectiveSum)
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Header.Render(fmt.Sprintf("BlackJack  Round %d", m.view.Round)))
	if id := shortID(m.view.RoundID); id != "" {
		b.WriteString(" ")
		b.WriteString(m.styles.Info.Render(id))
	}
	b.WriteString("\n\n")

	b.WriteString(RenderRound(m.styles, m.view, m.hideSums))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.styles.Error.Render(m.status))
		b.WriteString("\n\n")
	}

	if len(m.history) > 0 {
		b.WriteString(m.styles.Info.Render("Recent rounds"))
		b.WriteString("\n")
		for _, entry := range m.history {
			b.WriteString(m.styles.Info.Render("  " + entry))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// RenderRound draws both hands and, once the round is over, the outcome
// banner. It only reads the view.
func RenderRound(styles Styles, v blackjack.RoundView, hideSums bool) string {
	out := styles.Table.Render(renderDealer(styles, v, hideSums) + "\n\n" + renderPlayer(styles, v, hideSums))
	if v.IsOver() {
		out += "\n\n" + renderBanner(styles, v)
	}
	return out
}

func renderDealer(styles Styles, v blackjack.RoundView, hideSums bool) string {
	concealed := v.State != blackjack.Idle && !v.HiddenCardRevealed

	faces := make([]string, 0, len(v.DealerVisibleCards)+1)
	if concealed {
		faces = append(faces, styles.CardBack.Render("[BACK]"))
	}
	for _, c := range v.DealerVisibleCards {
		faces = append(faces, formatCard(styles, c))
	}

	line := styles.Label.Render("Dealer") + "  " + strings.Join(faces, " ")
	if !hideSums {
		sum := fmt.Sprintf("(%d)", v.DealerEffectiveSum)
		if concealed {
			sum = fmt.Sprintf("(%d + ?)", v.DealerEffectiveSum)
		}
		line += "  " + styles.Sum.Render(sum)
	}
	return line
}

func renderPlayer(styles Styles, v blackjack.RoundView, hideSums bool) string {
	faces := make([]string, 0, len(v.PlayerCards))
	for _, c := range v.PlayerCards {
		faces = append(faces, formatCard(styles, c))
	}

	line := styles.Label.Render("You   ") + "  " + strings.Join(faces, " ")
	if !hideSums {
		line += "  " + styles.Sum.Render(fmt.Sprintf("(%d)", v.PlayerEffectiveSum))
	}
	return line
}

func renderBanner(styles Styles, v blackjack.RoundView) string {
	style := styles.Tie
	switch v.Outcome {
	case blackjack.PlayerWin:
		style = styles.Win
	case blackjack.DealerWin:
		style = styles.Lose
	}
	return style.Render(v.Outcome.Message())
}

func formatCard(styles Styles, c cards.Card) string {
	face := "[" + c.String() + "]"
	if c.IsRed() {
		return styles.RedCard.Render(face)
	}
	return styles.BlackCard.Render(face)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
