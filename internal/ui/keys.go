package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// Tab switching
	TabMachines    key.Binding
	TabDevices     key.Binding
	TabControllers key.Binding
	TabSwitches    key.Binding
	TabSubnets     key.Binding
	TabImages      key.Binding

	// List actions
	ToggleSelect key.Binding
	SelectAll    key.Binding
	Open         key.Binding
	Filter       key.Binding
	Actions      key.Binding
	Refresh      key.Binding
	Logs         key.Binding
	Rename       key.Binding
	New          key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "Q"),
			key.WithHelp("Q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle tabs"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		TabMachines: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Machines"),
		),
		TabDevices: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Devices"),
		),
		TabControllers: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Controllers"),
		),
		TabSwitches: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Switches"),
		),
		TabSubnets: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Subnets"),
		),
		TabImages: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Boot images"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select all / none"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open detail"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter"),
		),
		Actions: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Actions"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log overlay"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Rename hostname"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New device"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.TabMachines, k.TabDevices, k.TabControllers, k.TabSwitches, k.TabSubnets, k.TabImages},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.ToggleSelect, k.SelectAll, k.Open, k.Filter, k.Actions, k.Rename, k.New, k.Refresh, k.Logs},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
