package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Main content panels
	SurfaceAlt string // Secondary surfaces

	// Table colors
	SelectionBg   string // Cursor row background
	SelectionText string // Cursor row text

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Status colors
	StatusColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Marked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		PaneBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),

		PaneBorderFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Surface lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header          lipgloss.Style
	Footer          lipgloss.Style
	Logo            lipgloss.Style
	Cursor          lipgloss.Style
	Marked          lipgloss.Style
	PaneBorder      lipgloss.Style
	PaneBorderFocus lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for the given machine status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula":  draculaTheme(),
	"Nightfox": nightfoxTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Dracula", "Nightfox", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func draculaTheme() Theme {
	// Dracula palette: https://draculatheme.com/contribute
	return Theme{
		Name: "Dracula",

		Background: "#191a21",
		Surface:    "#282a36",
		SurfaceAlt: "#343746",

		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",

		Border:      "#44475a",
		BorderFocus: "#bd93f9",

		Text:    "#f8f8f2",
		Muted:   "#6272a4",
		Faint:   "#565b76",
		Accent:  "#bd93f9",
		Success: "#50fa7b",
		Warning: "#f1fa8c",
		Danger:  "#ff5555",
		Info:    "#8be9fd",

		StatusColors: map[string]string{
			"new":                  "#6272a4",
			"commissioning":        "#8be9fd",
			"failed_commissioning": "#ff5555",
			"testing":              "#8be9fd",
			"failed_testing":       "#ff5555",
			"ready":                "#50fa7b",
			"allocated":            "#bd93f9",
			"deploying":            "#ffb86c",
			"deployed":             "#50fa7b",
			"failed_deployment":    "#ff5555",
			"releasing":            "#ffb86c",
			"rescue_mode":          "#f1fa8c",
			"broken":               "#ff5555",
		},
	}
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		StatusColors: map[string]string{
			"new":                  "#738091",
			"commissioning":        "#63cdcf",
			"failed_commissioning": "#c94f6d",
			"testing":              "#63cdcf",
			"failed_testing":       "#c94f6d",
			"ready":                "#81b29a",
			"allocated":            "#9d79d6",
			"deploying":            "#f4a261",
			"deployed":             "#81b29a",
			"failed_deployment":    "#c94f6d",
			"releasing":            "#f4a261",
			"rescue_mode":          "#dbc074",
			"broken":               "#c94f6d",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800

		SelectionBg:   "#334155", // slate-700
		SelectionText: "#f1f5f9", // slate-100

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#e2e8f0", // slate-200
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#4ade80", // green-400
		Warning: "#facc15", // yellow-400
		Danger:  "#f87171", // red-400
		Info:    "#22d3ee", // cyan-400

		StatusColors: map[string]string{
			"new":                  "#94a3b8",
			"commissioning":        "#22d3ee",
			"failed_commissioning": "#f87171",
			"testing":              "#22d3ee",
			"failed_testing":       "#f87171",
			"ready":                "#4ade80",
			"allocated":            "#38bdf8",
			"deploying":            "#fb923c",
			"deployed":             "#4ade80",
			"failed_deployment":    "#f87171",
			"releasing":            "#fb923c",
			"rescue_mode":          "#facc15",
			"broken":               "#f87171",
		},
	}
}
