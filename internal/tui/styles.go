package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds every style the model renders with.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	Sum       lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	CardBack  lipgloss.Style
	Win       lipgloss.Style
	Lose      lipgloss.Style
	Tie       lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Table     lipgloss.Style
}

type palette struct {
	headerFg, headerBg lipgloss.Color
	text, muted        lipgloss.Color
	red, black         lipgloss.Color
	back               lipgloss.Color
	win, lose, tie     lipgloss.Color
	border             lipgloss.Color
}

var palettes = map[string]palette{
	"default": {
		headerFg: "#FAFAFA", headerBg: "#7D56F4",
		text: "#FAFAFA", muted: "#626262",
		red: "#FF6B6B", black: "#000000",
		back: "#4ECDC4",
		win: "#96CEB4", lose: "#FF6B6B", tie: "#FFEAA7",
		border: "#04B575",
	},
	"dark": {
		headerFg: "#FAFAFA", headerBg: "#303030",
		text: "#DADADA", muted: "#5F5F5F",
		red: "#FF5F5F", black: "#BCBCBC",
		back: "#5F87AF",
		win: "#87D787", lose: "#FF5F5F", tie: "#FFD700",
		border: "#444444",
	},
	"light": {
		headerFg: "#1C1C1C", headerBg: "#D7D7FF",
		text: "#1C1C1C", muted: "#8A8A8A",
		red: "#D70000", black: "#000000",
		back: "#005F87",
		win: "#008700", lose: "#D70000", tie: "#AF8700",
		border: "#5F5FAF",
	},
}

// StylesFor returns the styles for a named theme, falling back to "default".
func StylesFor(theme string) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["default"]
	}

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(p.headerFg).
			Background(p.headerBg).
			Bold(true).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(p.text).
			Bold(true),
		Sum: lipgloss.NewStyle().
			Foreground(p.muted),
		RedCard: lipgloss.NewStyle().
			Foreground(p.red).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Foreground(p.black).
			Bold(true),
		CardBack: lipgloss.NewStyle().
			Foreground(p.back).
			Bold(true),
		Win: lipgloss.NewStyle().
			Foreground(p.win).
			Bold(true),
		Lose: lipgloss.NewStyle().
			Foreground(p.lose).
			Bold(true),
		Tie: lipgloss.NewStyle().
			Foreground(p.tie).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(p.lose),
		Info: lipgloss.NewStyle().
			Foreground(p.muted),
		Table: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
	}
}
