package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rackline/rackline/internal/config"
	"github.com/rackline/rackline/internal/fleet"
	"github.com/rackline/rackline/internal/forms"
	"github.com/rackline/rackline/internal/logtail"
	"github.com/rackline/rackline/internal/prefs"
	"github.com/rackline/rackline/internal/store"
	"github.com/rackline/rackline/internal/storageview"
)

// Tab identifies one of the collection list views.
type Tab int

const (
	TabMachines Tab = iota
	TabDevices
	TabControllers
	TabSwitches
	TabSubnets
	TabImages
)

var tabOrder = []Tab{TabMachines, TabDevices, TabControllers, TabSwitches, TabSubnets, TabImages}

// Name returns the tab's display and preferences key.
func (t Tab) Name() string {
	switch t {
	case TabMachines:
		return "machines"
	case TabDevices:
		return "devices"
	case TabControllers:
		return "controllers"
	case TabSwitches:
		return "switches"
	case TabSubnets:
		return "subnets"
	case TabImages:
		return "images"
	}
	return "unknown"
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Fleet     *fleet.Fleet
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Tick      time.Duration

	// Events signals that a push notification changed a store; each
	// signal triggers an immediate re-render instead of waiting for the
	// next tick. Nil disables the bridge.
	Events <-chan struct{}
}

// Model is the root application state for Bubble Tea. Collection data
// lives in the fleet stores and is mutated by the channel's read
// goroutine; the model only holds view state and re-reads the stores
// on every render tick.
type Model struct {
	// Configuration
	ctx       context.Context
	fleet     *fleet.Fleet
	config    *config.Config
	userPrefs prefs.Prefs
	prefsPath string
	tick      time.Duration
	events    <-chan struct{}

	// UI state
	theme       Theme
	keys        keyMap
	width       int
	height      int
	ready       bool
	tab         Tab
	cursor      map[Tab]int
	focusedPane int // 0 = list, 1 = detail
	statusLine  string

	// Filter state
	filterInput textinput.Model
	filtering   bool
	filters     map[Tab]string

	// Action menu state
	showActions  bool
	actionCursor int

	// Edit form state
	editKind  editKind
	editForm  *forms.Form
	editField string
	editInput textinput.Model

	// Detail state
	storage       *storageview.View
	storageRow    int
	confirmDelete bool

	// Help overlay
	showHelp bool

	// Log overlay
	showLogs bool
	logLines []string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "hostname, status:deployed, zone:east ..."
	input.CharLimit = 120

	filters := make(map[Tab]string, len(tabOrder))
	for _, tab := range tabOrder {
		filters[tab] = opts.Prefs.RetrieveFilters(tab.Name())
	}

	return Model{
		ctx:         ctx,
		events:      opts.Events,
		fleet:       opts.Fleet,
		config:      opts.Config,
		userPrefs:   opts.Prefs,
		prefsPath:   prefsPath,
		tick:        tick,
		theme:       GetTheme(opts.Prefs.Theme),
		keys:        DefaultKeyMap(),
		tab:         TabMachines,
		cursor:      make(map[Tab]int),
		filterInput: input,
		filters:     filters,
		storage:     storageview.NewView(),
	}
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// storesChangedMsg reports that a push notification changed a store.
type storesChangedMsg struct{}

// waitEventCmd blocks on the notification bridge and converts the next
// signal into a message. Re-armed after every delivery.
func waitEventCmd(events <-chan struct{}) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return storesChangedMsg{}
	}
}

// actionDoneMsg reports the outcome of a lifecycle or storage call.
type actionDoneMsg struct {
	label string
	err   error
}

// activatedMsg reports a SetActive fetch finishing.
type activatedMsg struct {
	key string
	err error
}

// loadedMsg reports a manual reload finishing.
type loadedMsg struct {
	err error
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.tick),
		waitEventCmd(m.events),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		m.refreshStorage()
		if m.showLogs {
			m.refreshLogs()
		}
		return m, tickCmd(m.tick)

	case storesChangedMsg:
		m.refreshStorage()
		return m, waitEventCmd(m.events)

	case actionDoneMsg:
		if msg.err != nil {
			m.statusLine = msg.label + " failed: " + msg.err.Error()
		} else {
			m.statusLine = msg.label + " ok"
		}
		return m, nil

	case activatedMsg:
		if msg.err != nil {
			m.statusLine = "open " + msg.key + " failed: " + msg.err.Error()
			return m, nil
		}
		m.focusedPane = 1
		m.refreshStorage()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.statusLine = "reload failed: " + msg.err.Error()
		} else {
			m.statusLine = "reloaded"
		}
		return m, nil

	case formDoneMsg:
		if msg.err != nil {
			// The editor stays open with the server's objections mapped
			// onto the form, so the operator can correct and resubmit.
			if m.editForm != nil {
				m.editForm.ApplyError(msg.err)
				m.statusLine = formErrorSummary(m.editForm)
			} else {
				m.statusLine = msg.label + " failed: " + msg.err.Error()
			}
			return m, nil
		}
		m = m.closeEdit()
		m.statusLine = msg.label + " ok"
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
			m.showLogs = false
		}
		return m, nil
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.editKind != editNone {
		return m.handleEditKey(msg)
	}
	if m.showActions {
		return m.handleActionsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.userPrefs.Theme = m.theme.Name
		_ = prefs.Save(m.prefsPath, m.userPrefs)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.tab = tabOrder[(int(m.tab)+1)%len(tabOrder)]
		m.focusedPane = 0
		return m, nil

	case key.Matches(msg, m.keys.TabMachines):
		return m.switchTab(TabMachines)
	case key.Matches(msg, m.keys.TabDevices):
		return m.switchTab(TabDevices)
	case key.Matches(msg, m.keys.TabControllers):
		return m.switchTab(TabControllers)
	case key.Matches(msg, m.keys.TabSwitches):
		return m.switchTab(TabSwitches)
	case key.Matches(msg, m.keys.TabSubnets):
		return m.switchTab(TabSubnets)
	case key.Matches(msg, m.keys.TabImages):
		return m.switchTab(TabImages)

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.filters[m.tab])
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.refreshLogs()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.focusedPane == 1 {
			m.focusedPane = 0
			m.confirmDelete = false
			return m, nil
		}
		m.statusLine = ""
		return m, nil
	}

	if m.focusedPane == 1 {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.tab = tab
	m.focusedPane = 0
	return m, nil
}

// handleFilterKey routes keys to the filter input until confirmed or
// cancelled. Confirming persists the expression per tab.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filters[m.tab] = m.filterInput.Value()
		m.userPrefs.StoreFilters(m.tab.Name(), m.filterInput.Value())
		_ = prefs.Save(m.prefsPath, m.userPrefs)
		m.filterInput.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// handleListKey processes keyboard input for the focused list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleItems()
	count := len(items)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.tab] < count-1 {
			m.cursor[m.tab]++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor[m.tab] = 0
	case key.Matches(msg, m.keys.Bottom):
		if count > 0 {
			m.cursor[m.tab] = count - 1
		}

	case key.Matches(msg, m.keys.ToggleSelect):
		if it := m.cursorItem(items); it != nil {
			st := m.currentStore()
			if st.IsSelected(it.Key()) {
				st.Unselect(it.Key())
			} else {
				st.Select(it.Key())
			}
		}

	case key.Matches(msg, m.keys.SelectAll):
		st := m.currentStore()
		all := count > 0
		for _, it := range items {
			if !st.IsSelected(it.Key()) {
				all = false
				break
			}
		}
		for _, it := range items {
			if all {
				st.Unselect(it.Key())
			} else {
				st.Select(it.Key())
			}
		}

	case key.Matches(msg, m.keys.Open):
		if it := m.cursorItem(items); it != nil {
			return m, m.activateCmd(it.Key())
		}

	case key.Matches(msg, m.keys.New):
		if m.tab == TabDevices {
			return m.beginDeviceCreate()
		}

	case key.Matches(msg, m.keys.Actions):
		if m.tab == TabMachines || m.tab == TabDevices {
			if len(m.currentStore().SelectedItems()) > 0 {
				m.showActions = true
				m.actionCursor = 0
			} else {
				m.statusLine = "nothing selected"
			}
		}
	}

	return m, nil
}

// currentStore returns the store backing the active tab.
func (m Model) currentStore() *store.Store {
	switch m.tab {
	case TabDevices:
		return m.fleet.Devices.Store()
	case TabControllers:
		return m.fleet.Controllers.Store()
	case TabSwitches:
		return m.fleet.Switches.Store()
	case TabSubnets:
		return m.fleet.Subnets.Store()
	case TabImages:
		return m.fleet.BootImages.Store()
	default:
		return m.fleet.Machines.Store()
	}
}

// visibleItems returns the active tab's items with its filter applied.
func (m Model) visibleItems() []*store.Item {
	items := m.currentStore().Items()
	expr := m.filters[m.tab]
	if expr == "" {
		return items
	}
	var out []*store.Item
	for _, it := range items {
		if matchesFilter(it, expr) {
			out = append(out, it)
		}
	}
	return out
}

func (m Model) cursorItem(items []*store.Item) *store.Item {
	idx := m.cursor[m.tab]
	if idx < 0 || idx >= len(items) {
		return nil
	}
	return items[idx]
}

// activateCmd opens an item's detail pane, fetching the full record.
func (m Model) activateCmd(key string) tea.Cmd {
	st := m.currentStore()
	ctx := m.ctx
	return func() tea.Msg {
		_, err := st.SetActive(ctx, key)
		return activatedMsg{key: key, err: err}
	}
}

// reloadCmd re-lists the active tab's collection.
func (m Model) reloadCmd() tea.Cmd {
	st := m.currentStore()
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{err: st.Load(ctx)}
	}
}

// refreshLogs re-reads the tail of rackline's own log file for the log
// overlay.
func (m *Model) refreshLogs() {
	lines, err := logtail.Read(m.config.LogPath(), m.height-4)
	if err != nil {
		m.logLines = []string{"read log: " + err.Error()}
		return
	}
	m.logLines = lines
}

// refreshStorage rebuilds the derived storage view from the active
// machine, if any. Switching machines resets the view along with the
// cursor and any open confirmation, since both refer to the previous
// machine's rows.
func (m *Model) refreshStorage() {
	if m.tab != TabMachines {
		return
	}
	active := m.fleet.Machines.Store().Active()
	if active == nil {
		if m.storage.SetMachine("") {
			m.storageRow = 0
			m.confirmDelete = false
		}
		m.storage.Recompute(nil)
		return
	}
	if m.storage.SetMachine(active.Key()) {
		m.storageRow = 0
		m.confirmDelete = false
	}
	m.storage.Recompute(storageview.ParseDisks(active))
}
