package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rackline/rackline/internal/store"
)

// column describes one list column: header, width, and extractor.
type column struct {
	title string
	width int
	value func(it *store.Item) string
}

func machineColumns() []column {
	return []column{
		{"HOSTNAME", 24, func(it *store.Item) string { return it.StringField("hostname") }},
		{"STATUS", 20, func(it *store.Item) string { return it.StringField("status") }},
		{"POWER", 8, func(it *store.Item) string { return it.StringField("power_state") }},
		{"OWNER", 12, func(it *store.Item) string { return it.StringField("owner") }},
		{"ZONE", 12, func(it *store.Item) string { return it.StringField("zone") }},
		{"ARCH", 14, func(it *store.Item) string { return it.StringField("architecture") }},
	}
}

func deviceColumns() []column {
	return []column{
		{"HOSTNAME", 24, func(it *store.Item) string { return it.StringField("hostname") }},
		{"IP", 18, func(it *store.Item) string { return it.StringField("ip_address") }},
		{"MAC", 20, func(it *store.Item) string { return it.StringField("primary_mac") }},
		{"ZONE", 12, func(it *store.Item) string { return it.StringField("zone") }},
	}
}

func controllerColumns() []column {
	return []column{
		{"HOSTNAME", 24, func(it *store.Item) string { return it.StringField("hostname") }},
		{"TYPE", 18, func(it *store.Item) string { return it.StringField("node_type_display") }},
		{"STATUS", 16, func(it *store.Item) string { return it.StringField("status") }},
		{"VERSION", 14, func(it *store.Item) string { return it.StringField("version") }},
	}
}

func switchColumns() []column {
	return []column{
		{"HOSTNAME", 24, func(it *store.Item) string { return it.StringField("hostname") }},
		{"STATUS", 16, func(it *store.Item) string { return it.StringField("status") }},
		{"MODEL", 20, func(it *store.Item) string { return it.StringField("hardware_model") }},
		{"ZONE", 12, func(it *store.Item) string { return it.StringField("zone") }},
	}
}

func subnetColumns() []column {
	return []column{
		{"CIDR", 20, func(it *store.Item) string { return it.StringField("cidr") }},
		{"NAME", 20, func(it *store.Item) string { return it.StringField("name") }},
		{"VLAN", 8, func(it *store.Item) string { return fmt.Sprintf("%d", it.IntField("vlan")) }},
		{"SPACE", 14, func(it *store.Item) string { return it.StringField("space") }},
	}
}

func imageColumns() []column {
	return []column{
		{"NAME", 28, func(it *store.Item) string { return it.StringField("name") }},
		{"ARCH", 14, func(it *store.Item) string { return it.StringField("architecture") }},
		{"SIZE", 10, func(it *store.Item) string { return it.StringField("size") }},
		{"STATUS", 14, func(it *store.Item) string { return it.StringField("status") }},
	}
}

func (m Model) columnsForTab() []column {
	switch m.tab {
	case TabDevices:
		return deviceColumns()
	case TabControllers:
		return controllerColumns()
	case TabSwitches:
		return switchColumns()
	case TabSubnets:
		return subnetColumns()
	case TabImages:
		return imageColumns()
	default:
		return machineColumns()
	}
}

// renderList renders the active tab's item table.
func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	items := m.visibleItems()
	cols := m.columnsForTab()
	st := m.currentStore()

	var b strings.Builder

	// Header row. Two leading cells: cursor and selection marker.
	var header strings.Builder
	header.WriteString("    ")
	for _, col := range cols {
		header.WriteString(pad(col.title, col.width))
	}
	b.WriteString(styles.MutedText.Render(truncate(header.String(), width)))
	b.WriteString("\n")

	if len(items) == 0 {
		empty := "No " + m.tab.Name()
		if m.filters[m.tab] != "" {
			empty += " match " + m.filters[m.tab]
		}
		b.WriteString(styles.FaintText.Render(empty))
		return b.String()
	}

	// Keep the cursor row inside the window.
	cursorIdx := m.cursor[m.tab]
	if cursorIdx >= len(items) {
		cursorIdx = len(items) - 1
	}
	top := 0
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	if cursorIdx >= rows {
		top = cursorIdx - rows + 1
	}

	for i := top; i < len(items) && i < top+rows; i++ {
		it := items[i]

		marker := " "
		if st.IsSelected(it.Key()) {
			marker = "*"
		}
		cursor := " "
		if i == cursorIdx {
			cursor = ">"
		}

		var row strings.Builder
		row.WriteString(cursor + " " + marker + " ")
		for _, col := range cols {
			row.WriteString(pad(col.value(it), col.width))
		}
		line := truncate(row.String(), width)

		switch {
		case i == cursorIdx && m.focusedPane == 0:
			b.WriteString(styles.Cursor.Render(line))
		case st.IsSelected(it.Key()):
			b.WriteString(styles.Marked.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return truncate(s, width-1) + " "
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
