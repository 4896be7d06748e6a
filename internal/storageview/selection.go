package storageview

import "fmt"

// Mode is the selection state of a section. The first three values are
// selection modes driven purely by how many rows are selected; the rest
// are action modes the UI enters explicitly while a confirmation or
// parameter form is open.
type Mode int

const (
	ModeNone Mode = iota
	ModeSingle
	ModeMulti

	ModeUnmount
	ModeUnformat
	ModeDelete
	ModeFormatAndMount
	ModePartition
	ModeBcache
	ModeRAID
	ModeVolumeGroup
	ModeLogicalVolume
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	case ModeUnmount:
		return "unmount"
	case ModeUnformat:
		return "unformat"
	case ModeDelete:
		return "delete"
	case ModeFormatAndMount:
		return "format-and-mount"
	case ModePartition:
		return "partition"
	case ModeBcache:
		return "bcache"
	case ModeRAID:
		return "raid"
	case ModeVolumeGroup:
		return "volume-group"
	case ModeLogicalVolume:
		return "logical-volume"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// IsAction reports whether the mode is an action mode rather than a
// plain selection mode.
func (m Mode) IsAction() bool {
	return m > ModeMulti
}

// Section holds the rows of one storage section plus its selection
// state machine.
type Section struct {
	Rows []*Row
	mode Mode
}

func newSection() *Section {
	return &Section{mode: ModeNone}
}

// Mode returns the section's current selection or action mode.
func (s *Section) Mode() Mode {
	return s.mode
}

// Toggle flips the selection of the row with the given key. Toggling is
// ignored while an action mode is open so a form cannot have its target
// set changed underneath it.
func (s *Section) Toggle(key string) {
	if s.mode.IsAction() {
		return
	}
	for _, row := range s.Rows {
		if row.Key == key {
			row.Selected = !row.Selected
			break
		}
	}
	s.updateMode()
}

// SelectAll selects or deselects every row in the section.
func (s *Section) SelectAll(on bool) {
	if s.mode.IsAction() {
		return
	}
	for _, row := range s.Rows {
		row.Selected = on
	}
	s.updateMode()
}

// AllSelected reports whether every currently present row is selected.
// It is recomputed over the live rows, so a selected row dropping out of
// the derived view releases its claim on the flag.
func (s *Section) AllSelected() bool {
	if len(s.Rows) == 0 {
		return false
	}
	for _, row := range s.Rows {
		if !row.Selected {
			return false
		}
	}
	return true
}

// Selected returns the selected rows in section order.
func (s *Section) Selected() []*Row {
	var out []*Row
	for _, row := range s.Rows {
		if row.Selected {
			out = append(out, row)
		}
	}
	return out
}

// EnterAction moves the section into an action mode. The transition is
// only legal from a selection mode with at least one row selected;
// there is no path from an empty selection into an action.
func (s *Section) EnterAction(m Mode) error {
	if !m.IsAction() {
		return fmt.Errorf("storageview: %s is not an action mode", m)
	}
	if s.mode.IsAction() {
		return fmt.Errorf("storageview: already in %s", s.mode)
	}
	if s.mode == ModeNone {
		return fmt.Errorf("storageview: no rows selected")
	}
	s.mode = m
	return nil
}

// LeaveAction returns from an action mode to the selection mode implied
// by the current selection. Called on both cancel and completion.
func (s *Section) LeaveAction() {
	if !s.mode.IsAction() {
		return
	}
	s.updateMode()
}

// setRows installs a freshly derived row set. A section holding an open
// action keeps it as long as any of its targets survived; otherwise the
// mode falls back to whatever the remaining selection implies.
func (s *Section) setRows(rows []*Row) {
	s.Rows = rows
	if s.mode.IsAction() && len(s.Selected()) > 0 {
		return
	}
	s.updateMode()
}

func (s *Section) updateMode() {
	switch len(s.Selected()) {
	case 0:
		s.mode = ModeNone
	case 1:
		s.mode = ModeSingle
	default:
		s.mode = ModeMulti
	}
}
