package storageview

import (
	"strconv"

	"github.com/rackline/rackline/internal/store"
)

// Disk is one storage row as the server reports it on a machine: a
// physical disk, a partition, or a virtual device (RAID, bcache, LVM).
type Disk struct {
	ID            int64
	Type          string // "physical", "partition", "virtual"
	Name          string
	Model         string
	Serial        string
	Size          int64
	UsedSize      int64
	AvailableSize int64
	Fstype        string
	MountPoint    string
	UsedFor       string
	Tags          []string
	BootDisk      bool
}

// Mounted reports whether the disk carries a mounted filesystem.
func (d Disk) Mounted() bool {
	return d.Fstype != "" && d.MountPoint != ""
}

// DerivedKey is the stable identity of a row across recomputations.
// Derived rows are rebuilt each pass, so object identity cannot be used;
// the type-qualified id can, because partition and disk ids live in
// separate namespaces.
func (d Disk) DerivedKey() string {
	return d.Type + "-" + strconv.FormatInt(d.ID, 10)
}

// Row is a Disk annotated with transient UI state. The transient fields
// are carried forward across recomputations by DerivedKey.
type Row struct {
	Disk
	Key      string
	Selected bool
	NameEdit string // in-progress rename buffer
	Editing  bool
}

// View is the derived projection of one machine's storage: three
// sections the panel renders and operates on independently.
type View struct {
	Filesystems *Section // rows carrying a formatted filesystem
	Available   *Section // unformatted rows with space left
	Used        *Section // fully allocated rows

	machine string
}

// NewView returns an empty view with sections in their initial state.
func NewView() *View {
	return &View{
		Filesystems: newSection(),
		Available:   newSection(),
		Used:        newSection(),
	}
}

// SetMachine binds the view to one machine and reports whether that
// changed the binding. Derived keys are only unique within a machine
// (disk and partition ids restart per machine), so a machine switch
// resets every section: no selection, edit buffer, or open action may
// carry over to another machine's rows.
func (v *View) SetMachine(key string) bool {
	if key == v.machine {
		return false
	}
	v.machine = key
	v.Filesystems = newSection()
	v.Available = newSection()
	v.Used = newSection()
	return true
}

// Recompute rebuilds the three sections from fresh disk data. Derived
// rows are never patched in place: every pass rebuilds them wholesale,
// then copies the transient UI state forward from the previous pass by
// derived key. Rows that vanished simply drop out, which also updates
// each section's computed all-selected state.
func (v *View) Recompute(disks []Disk) {
	prev := make(map[string]*Row)
	for _, section := range v.sections() {
		for _, row := range section.Rows {
			prev[row.Key] = row
		}
	}

	var filesystems, available, used []*Row
	for _, d := range disks {
		row := &Row{Disk: d, Key: d.DerivedKey()}
		if p := prev[row.Key]; p != nil {
			row.Selected = p.Selected
			row.NameEdit = p.NameEdit
			row.Editing = p.Editing
		}
		switch {
		case d.Fstype != "":
			filesystems = append(filesystems, row)
		case d.AvailableSize > 0:
			available = append(available, row)
		default:
			used = append(used, row)
		}
	}
	v.Filesystems.setRows(filesystems)
	v.Available.setRows(available)
	v.Used.setRows(used)
}

func (v *View) sections() []*Section {
	return []*Section{v.Filesystems, v.Available, v.Used}
}

// ParseDisks extracts the storage rows from a mirrored machine item,
// flattening each disk's partitions into rows of their own. Unknown or
// malformed entries are skipped rather than failing the whole view.
func ParseDisks(it *store.Item) []Disk {
	raw, ok := it.Field("disks")
	if !ok {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	var disks []Disk
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		d := parseDisk(fields)
		disks = append(disks, d)
		if parts, ok := fields["partitions"].([]any); ok {
			for _, p := range parts {
				pf, ok := p.(map[string]any)
				if !ok {
					continue
				}
				part := parseDisk(pf)
				part.Type = "partition"
				disks = append(disks, part)
			}
		}
	}
	return disks
}

func parseDisk(fields map[string]any) Disk {
	d := Disk{
		ID:            asInt64(fields["id"]),
		Type:          asString(fields["type"]),
		Name:          asString(fields["name"]),
		Model:         asString(fields["model"]),
		Serial:        asString(fields["serial"]),
		Size:          asInt64(fields["size"]),
		UsedSize:      asInt64(fields["used_size"]),
		AvailableSize: asInt64(fields["available_size"]),
		UsedFor:       asString(fields["used_for"]),
		BootDisk:      asBool(fields["is_boot"]),
	}
	if fs, ok := fields["filesystem"].(map[string]any); ok {
		d.Fstype = asString(fs["fstype"])
		d.MountPoint = asString(fs["mount_point"])
	}
	if tags, ok := fields["tags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				d.Tags = append(d.Tags, s)
			}
		}
	}
	return d
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// IsWholeDiskDefault reports whether a requested size means "use the
// whole disk". The comparison is byte-exact against the known available
// size; display strings are never compared, so locale or formatting
// changes cannot break the detection.
func IsWholeDiskDefault(requested, available int64) bool {
	return requested == available
}
