package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rackline/rackline/internal/storageview"
)

// handleDetailKey processes keyboard input while the detail pane is
// focused. For machines the pane doubles as the storage panel: rows in
// the available section can be selected and deleted.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tab != TabMachines {
		return m, nil
	}
	section := m.storage.Available

	if m.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmDelete = false
			targets := section.Selected()
			section.LeaveAction()
			return m, m.deleteStorageCmd(targets)
		case key.Matches(msg, m.keys.Escape):
			m.confirmDelete = false
			section.LeaveAction()
			return m, nil
		}
		return m, nil
	}

	rows := len(section.Rows)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.storageRow < rows-1 {
			m.storageRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.storageRow > 0 {
			m.storageRow--
		}

	case key.Matches(msg, m.keys.ToggleSelect):
		if m.storageRow < rows {
			section.Toggle(section.Rows[m.storageRow].Key)
		}

	case key.Matches(msg, m.keys.SelectAll):
		section.SelectAll(!section.AllSelected())

	case key.Matches(msg, m.keys.Rename):
		if active := m.fleet.Machines.Store().Active(); active != nil {
			return m.beginRename(active)
		}

	case msg.String() == "D":
		if err := section.EnterAction(storageview.ModeDelete); err != nil {
			m.statusLine = err.Error()
			return m, nil
		}
		m.confirmDelete = true
	}

	return m, nil
}

// deleteStorageCmd deletes the given storage rows on the active
// machine: partitions via their own call, anything else as a block
// device.
func (m Model) deleteStorageCmd(rows []*storageview.Row) tea.Cmd {
	active := m.fleet.Machines.Store().Active()
	if active == nil {
		return nil
	}
	systemID := active.Key()
	machines := m.fleet.Machines
	ctx := m.ctx
	label := fmt.Sprintf("delete storage (%d)", len(rows))
	return func() tea.Msg {
		for _, row := range rows {
			var err error
			if row.Type == "partition" {
				err = machines.DeletePartition(ctx, systemID, row.ID)
			} else {
				err = machines.DeleteDisk(ctx, systemID, row.ID)
			}
			if err != nil {
				return actionDoneMsg{label: label, err: err}
			}
		}
		return actionDoneMsg{label: label}
	}
}

// renderDetail renders the detail pane for the active item.
func (m Model) renderDetail(width, height int) string {
	styles := m.theme.Styles()
	active := m.currentStore().Active()
	if active == nil {
		return styles.FaintText.Render("No item open")
	}

	var b strings.Builder

	switch m.tab {
	case TabMachines:
		b.WriteString(m.renderMachineDetail(width))
	case TabSubnets:
		b.WriteString(m.renderFieldLines(width, "cidr", "name", "vlan", "space", "gateway_ip", "dns_servers", "managed"))
	case TabImages:
		b.WriteString(m.renderFieldLines(width, "name", "architecture", "size", "status", "lastUpdate"))
	default:
		b.WriteString(m.renderFieldLines(width, "hostname", "status", "zone", "owner", "architecture", "cpu_count", "memory"))
	}

	return b.String()
}

// renderMachineDetail renders the full machine view: summary, then the
// three storage sections.
func (m Model) renderMachineDetail(width int) string {
	styles := m.theme.Styles()
	active := m.fleet.Machines.Store().Active()

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(active.StringField("fqdn")))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(active.StringField("status")).Render(active.StringField("status")))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s · %d cores · %s · power %s",
		active.StringField("architecture"),
		active.IntField("cpu_count"),
		storageview.FormatSize(active.IntField("memory")*1000*1000),
		active.StringField("power_state"))))
	b.WriteString("\n\n")

	b.WriteString(m.renderStorageSection("FILESYSTEMS", m.storage.Filesystems, false, width))
	b.WriteString(m.renderStorageSection("AVAILABLE", m.storage.Available, true, width))
	b.WriteString(m.renderStorageSection("USED", m.storage.Used, false, width))

	if m.confirmDelete {
		n := len(m.storage.Available.Selected())
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %d storage item(s)? enter confirm · esc cancel", n)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderStorageSection(title string, section *storageview.Section, interactive bool, width int) string {
	styles := m.theme.Styles()

	var b strings.Builder
	header := title
	if section.Mode() != storageview.ModeNone {
		header += " [" + section.Mode().String() + "]"
	}
	b.WriteString(styles.MutedText.Render(header))
	b.WriteString("\n")

	if len(section.Rows) == 0 {
		b.WriteString(styles.FaintText.Render("  none"))
		b.WriteString("\n\n")
		return b.String()
	}

	for i, row := range section.Rows {
		marker := " "
		if row.Selected {
			marker = "*"
		}
		cursor := " "
		if interactive && m.focusedPane == 1 && i == m.storageRow {
			cursor = ">"
		}

		desc := fmt.Sprintf("%s %s %s  %s  %s", cursor, marker, pad(row.Name, 18), pad(storageview.FormatSize(row.Size), 10), row.Type)
		if row.Fstype != "" {
			desc += "  " + row.Fstype
			if row.MountPoint != "" {
				desc += " on " + row.MountPoint
			}
		}
		if row.UsedFor != "" {
			desc += "  " + row.UsedFor
		}
		if row.BootDisk {
			desc += "  [boot]"
		}

		line := truncate(desc, width)
		switch {
		case interactive && m.focusedPane == 1 && i == m.storageRow:
			b.WriteString(styles.Cursor.Render(line))
		case row.Selected:
			b.WriteString(styles.Marked.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderFieldLines renders a plain field/value listing for the simpler
// detail panes.
func (m Model) renderFieldLines(width int, fields ...string) string {
	styles := m.theme.Styles()
	active := m.currentStore().Active()

	var b strings.Builder
	for _, field := range fields {
		v, ok := active.Field(field)
		if !ok {
			continue
		}
		b.WriteString(styles.MutedText.Render(pad(field, 16)))
		b.WriteString(styles.Text.Render(truncate(fmt.Sprintf("%v", v), width-16)))
		b.WriteString("\n")
	}
	return b.String()
}
