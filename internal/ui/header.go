package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the full UI: header, tab bar, content, status line.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderHeader renders the logo plus connection summary.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	logo := styles.Logo.Render(" rackline ")
	server := styles.MutedText.Render(m.config.ServerAddr)

	counts := fmt.Sprintf("%d machines · %d devices · %d controllers",
		m.fleet.Machines.Store().Len(),
		m.fleet.Devices.Store().Len(),
		m.fleet.Controllers.Store().Len())

	left := logo + " " + server
	right := styles.MutedText.Render(counts)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Render(left + strings.Repeat(" ", gap) + right)
}

// renderTabBar renders the tab strip with the active tab highlighted.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles()

	var parts []string
	for i, tab := range tabOrder {
		label := fmt.Sprintf(" %d %s ", i+1, tab.Name())
		if tab == m.tab {
			parts = append(parts, styles.Cursor.Render(label))
		} else {
			parts = append(parts, styles.MutedText.Render(label))
		}
	}
	if expr := m.filters[m.tab]; expr != "" && !m.filtering {
		parts = append(parts, styles.InfoText.Render(" /"+expr))
	}
	return strings.Join(parts, "")
}

// renderContent renders the body: list pane plus detail pane, or the
// filter prompt / action menu when one is open.
func (m Model) renderContent() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 3 // header + tab bar + status line
	if contentHeight < 3 {
		contentHeight = 3
	}

	if m.filtering {
		prompt := styles.AccentText.Render("filter> ") + m.filterInput.View()
		return prompt + "\n" + m.renderList(m.width, contentHeight-1)
	}
	if m.editKind != editNone {
		prompt := styles.AccentText.Render(m.editPrompt()) + m.editInput.View()
		return prompt + "\n" + m.renderList(m.width, contentHeight-1)
	}
	if m.showActions {
		return m.renderActions()
	}

	// Split: 55% list, 45% detail on wide terminals; list only when
	// narrow.
	if m.width < 100 {
		if m.focusedPane == 1 {
			return m.renderDetail(m.width, contentHeight)
		}
		return m.renderList(m.width, contentHeight)
	}

	listWidth := m.width * 55 / 100
	detailWidth := m.width - listWidth - 1

	list := m.renderList(listWidth, contentHeight)
	detail := m.renderDetail(detailWidth, contentHeight)

	border := styles.PaneBorder
	if m.focusedPane == 1 {
		border = styles.PaneBorderFocus
	}
	detailPane := border.Width(detailWidth - 2).Render(detail)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, detailPane)
}

// renderStatusLine renders the bottom line: last call result or hints.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.statusLine != "" {
		return styles.WarningText.Render(m.statusLine)
	}
	return styles.Footer.Render("space select · enter open · x actions · / filter · ? help · Q quit")
}
