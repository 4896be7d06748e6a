package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the full-screen help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keys := m.keys

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("rackline keys"))
	b.WriteString("\n\n")

	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(renderBinding(styles, binding))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderBinding(styles Styles, b key.Binding) string {
	help := b.Help()
	return styles.InfoText.Render(pad(help.Key, 12)) + styles.Text.Render(help.Desc)
}

// renderLogs renders the log overlay: the tail of rackline's own log.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("rackline log"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(m.config.LogPath()))
	b.WriteString("\n\n")
	if len(m.logLines) == 0 {
		b.WriteString(styles.FaintText.Render("log is empty"))
		b.WriteString("\n")
	}
	for _, line := range m.logLines {
		b.WriteString(styles.MutedText.Render(truncate(line, m.width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("esc close"))
	return b.String()
}
