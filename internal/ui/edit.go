package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rackline/rackline/internal/forms"
	"github.com/rackline/rackline/internal/store"
)

// editKind identifies which edit flow owns the input line.
type editKind int

const (
	editNone editKind = iota
	editRename
	editDeviceCreate
)

// formDoneMsg reports the outcome of a form submission.
type formDoneMsg struct {
	label string
	err   error
}

// renameForm builds the hostname edit form over a machine.
func renameForm(it *store.Item) *forms.Form {
	f := forms.New(it)
	f.Validate("hostname", forms.Required, forms.Hostname)
	return f
}

// deviceCreateForm builds the registration form for a new device.
func deviceCreateForm() *forms.Form {
	f := forms.Blank()
	f.Validate("hostname", forms.Required, forms.Hostname)
	f.Validate("primary_mac", forms.Required, forms.MAC)
	return f
}

// beginRename opens the hostname editor over a machine, prefilled with
// the mirrored value.
func (m Model) beginRename(it *store.Item) (tea.Model, tea.Cmd) {
	m.editKind = editRename
	m.editForm = renameForm(it)
	m.editField = "hostname"
	m.editInput = textinput.New()
	m.editInput.CharLimit = 253
	m.editInput.SetValue(m.editForm.Value("hostname"))
	m.editInput.Focus()
	return m, textinput.Blink
}

// beginDeviceCreate opens the device registration form: hostname first,
// then the primary MAC.
func (m Model) beginDeviceCreate() (tea.Model, tea.Cmd) {
	m.editKind = editDeviceCreate
	m.editForm = deviceCreateForm()
	m.editField = "hostname"
	m.editInput = textinput.New()
	m.editInput.CharLimit = 253
	m.editInput.Focus()
	return m, textinput.Blink
}

func (m Model) closeEdit() Model {
	m.editKind = editNone
	m.editForm = nil
	m.editField = ""
	m.editInput.Blur()
	return m
}

// handleEditKey routes keys to the edit input until the form is
// submitted or abandoned.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeEdit(), nil
	case "enter":
		return m.submitEditField()
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

// submitEditField validates the current field, then advances to the
// next field or dispatches the call. A validation failure keeps the
// editor open with the objection on the status line.
func (m Model) submitEditField() (tea.Model, tea.Cmd) {
	m.editForm.Set(m.editField, m.editInput.Value())
	if !m.editForm.Valid() {
		m.statusLine = formErrorSummary(m.editForm)
		return m, nil
	}
	m.statusLine = ""

	switch m.editKind {
	case editRename:
		if !m.editForm.Dirty() {
			return m.closeEdit(), nil
		}
		return m, m.renameCmd(m.editForm)

	case editDeviceCreate:
		if m.editField == "hostname" {
			m.editField = "primary_mac"
			m.editInput.SetValue("")
			return m, nil
		}
		return m, m.createDeviceCmd(m.editForm)
	}
	return m.closeEdit(), nil
}

// renameCmd issues the hostname update. Only changed fields go on the
// wire, plus the primary key the call requires.
func (m Model) renameCmd(f *forms.Form) tea.Cmd {
	st := m.fleet.Machines.Store()
	ctx := m.ctx
	params := f.Changed()
	params["system_id"] = f.Key()
	return func() tea.Msg {
		_, err := st.Update(ctx, params)
		return formDoneMsg{label: "rename", err: err}
	}
}

// createDeviceCmd registers the new device.
func (m Model) createDeviceCmd(f *forms.Form) tea.Cmd {
	devices := m.fleet.Devices
	ctx := m.ctx
	params := f.Changed()
	return func() tea.Msg {
		_, err := devices.Create(ctx, params)
		return formDoneMsg{label: "create device", err: err}
	}
}

// formErrorSummary flattens a form's errors into one status line.
func formErrorSummary(f *forms.Form) string {
	var parts []string
	parts = append(parts, f.FormErrors()...)
	for _, field := range f.ErrorFields() {
		parts = append(parts, field+": "+strings.Join(f.FieldErrors(field), ", "))
	}
	return strings.Join(parts, " · ")
}

// editPrompt labels the input line for the current field.
func (m Model) editPrompt() string {
	switch m.editKind {
	case editRename:
		return "hostname> "
	case editDeviceCreate:
		if m.editField == "primary_mac" {
			return "primary mac> "
		}
		return "device hostname> "
	}
	return "> "
}
