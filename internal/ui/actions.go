package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rackline/rackline/internal/store"
)

// machineActions are the lifecycle actions offered for machines, in
// menu order.
var machineActions = []string{
	"commission",
	"acquire",
	"deploy",
	"release",
	"abort",
	"on",
	"off",
	"mark-broken",
	"mark-fixed",
	"delete",
}

// deviceActions are the lifecycle actions offered for devices.
var deviceActions = []string{
	"delete",
}

func (m Model) availableActions() []string {
	if m.tab == TabDevices {
		return deviceActions
	}
	return machineActions
}

// handleActionsKey processes keyboard input while the action menu is
// open.
func (m Model) handleActionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	actions := m.availableActions()

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.showActions = false
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.actionCursor < len(actions)-1 {
			m.actionCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.actionCursor > 0 {
			m.actionCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.showActions = false
		action := actions[m.actionCursor]
		targets := m.currentStore().SelectedItems()
		return m, m.runActionCmd(action, targets)
	}

	return m, nil
}

// runActionCmd runs one lifecycle action against every selected item.
// Failures are collected rather than aborting the batch; one bad
// machine should not strand the rest.
func (m Model) runActionCmd(action string, targets []*store.Item) tea.Cmd {
	st := m.currentStore()
	ctx := m.ctx
	label := fmt.Sprintf("%s (%d)", action, len(targets))
	return func() tea.Msg {
		var failed []string
		for _, it := range targets {
			if _, err := st.PerformAction(ctx, it.Key(), action, nil); err != nil {
				failed = append(failed, it.Key()+": "+err.Error())
			}
		}
		if len(failed) > 0 {
			return actionDoneMsg{label: label, err: fmt.Errorf("%s", strings.Join(failed, "; "))}
		}
		return actionDoneMsg{label: label}
	}
}

// renderActions renders the action menu overlay content.
func (m Model) renderActions() string {
	styles := m.theme.Styles()
	actions := m.availableActions()
	count := len(m.currentStore().SelectedItems())

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(fmt.Sprintf("Actions (%d selected)", count)))
	b.WriteString("\n")
	for i, action := range actions {
		line := "  " + action
		if i == m.actionCursor {
			line = styles.Cursor.Render("> " + action)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("enter run · esc cancel"))
	return b.String()
}
