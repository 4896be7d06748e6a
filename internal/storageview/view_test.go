package storageview

import (
	"reflect"
	"testing"

	"github.com/rackline/rackline/internal/store"
)

func disk(id int64, typ, name string, size, used, avail int64) Disk {
	return Disk{ID: id, Type: typ, Name: name, Size: size, UsedSize: used, AvailableSize: avail}
}

func sectionKeys(s *Section) []string {
	var keys []string
	for _, row := range s.Rows {
		keys = append(keys, row.Key)
	}
	return keys
}

func TestRecomputeSplitsSections(t *testing.T) {
	v := NewView()
	formatted := disk(1, "partition", "sda-part1", 1000, 1000, 0)
	formatted.Fstype = "ext4"
	formatted.MountPoint = "/srv"
	v.Recompute([]Disk{
		formatted,
		disk(2, "physical", "sdb", 2000, 0, 2000),
		disk(3, "physical", "sdc", 2000, 2000, 0),
	})

	if got := sectionKeys(v.Filesystems); !reflect.DeepEqual(got, []string{"partition-1"}) {
		t.Fatalf("filesystems = %v", got)
	}
	if got := sectionKeys(v.Available); !reflect.DeepEqual(got, []string{"physical-2"}) {
		t.Fatalf("available = %v", got)
	}
	if got := sectionKeys(v.Used); !reflect.DeepEqual(got, []string{"physical-3"}) {
		t.Fatalf("used = %v", got)
	}
}

func TestRecomputeCarriesTransientState(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
		disk(2, "physical", "sdb", 1000, 0, 1000),
	})
	v.Available.Toggle("physical-1")
	v.Available.Rows[0].NameEdit = "fastdisk"
	v.Available.Rows[0].Editing = true

	// Server push rebuilds the rows in a different order.
	v.Recompute([]Disk{
		disk(2, "physical", "sdb", 1000, 0, 1000),
		disk(1, "physical", "sda", 1000, 0, 1000),
	})

	row := v.Available.Rows[1]
	if row.Key != "physical-1" {
		t.Fatalf("row order: got %q", row.Key)
	}
	if !row.Selected || !row.Editing || row.NameEdit != "fastdisk" {
		t.Fatalf("transient state lost: %+v", row)
	}
	if v.Available.Rows[0].Selected {
		t.Fatal("selection leaked to wrong row")
	}
	if v.Available.Mode() != ModeSingle {
		t.Fatalf("mode = %v, want single", v.Available.Mode())
	}
}

func TestSetMachineResetsTransientState(t *testing.T) {
	v := NewView()
	v.SetMachine("abc")
	v.Recompute([]Disk{disk(1, "physical", "sda", 1000, 0, 1000)})
	v.Available.Toggle("physical-1")
	v.Available.Rows[0].NameEdit = "fastdisk"

	// Re-binding the same machine keeps everything.
	if v.SetMachine("abc") {
		t.Fatal("SetMachine with the same key must report no change")
	}
	if !v.Available.Rows[0].Selected {
		t.Fatal("selection lost without a machine switch")
	}

	// Another machine's first disk also has id 1: same derived key,
	// different hardware. Nothing may carry over.
	if !v.SetMachine("def") {
		t.Fatal("SetMachine with a new key must report a change")
	}
	v.Recompute([]Disk{disk(1, "physical", "nvme0n1", 4000, 0, 4000)})
	row := v.Available.Rows[0]
	if row.Selected || row.NameEdit != "" {
		t.Fatalf("transient state leaked across machines: %+v", row)
	}
	if v.Available.Mode() != ModeNone {
		t.Fatalf("mode = %v, want none", v.Available.Mode())
	}
}

func TestCarryForwardKeyedByType(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{disk(7, "physical", "sda", 1000, 0, 1000)})
	v.Available.Toggle("physical-7")

	// A partition with the same numeric id must not inherit the
	// physical disk's selection.
	v.Recompute([]Disk{disk(7, "partition", "sda-part1", 1000, 0, 1000)})
	if v.Available.Rows[0].Selected {
		t.Fatal("selection crossed type namespace")
	}
}

func TestAllSelectedRecomputedOverLiveRows(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
		disk(2, "physical", "sdb", 1000, 0, 1000),
		disk(3, "physical", "sdc", 1000, 0, 1000),
	})
	v.Available.Toggle("physical-1")
	v.Available.Toggle("physical-2")
	if v.Available.AllSelected() {
		t.Fatal("all-selected with one row unselected")
	}

	// The unselected row leaves the view; the remaining rows are all
	// selected, so the flag flips to true.
	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
		disk(2, "physical", "sdb", 1000, 0, 1000),
	})
	if !v.Available.AllSelected() {
		t.Fatal("all-selected should be true after unselected row dropped out")
	}

	// A selected row leaving keeps the flag true too.
	v.Recompute([]Disk{disk(1, "physical", "sda", 1000, 0, 1000)})
	if !v.Available.AllSelected() {
		t.Fatal("all-selected should survive a selected row dropping out")
	}
}

func TestSelectionModeTransitions(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
		disk(2, "physical", "sdb", 1000, 0, 1000),
	})
	s := v.Available

	if s.Mode() != ModeNone {
		t.Fatalf("initial mode = %v", s.Mode())
	}
	s.Toggle("physical-1")
	if s.Mode() != ModeSingle {
		t.Fatalf("after one selection mode = %v", s.Mode())
	}
	s.Toggle("physical-2")
	if s.Mode() != ModeMulti {
		t.Fatalf("after two selections mode = %v", s.Mode())
	}
	s.Toggle("physical-2")
	s.Toggle("physical-1")
	if s.Mode() != ModeNone {
		t.Fatalf("after deselect-all mode = %v", s.Mode())
	}
}

func TestEnterActionRequiresSelection(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{disk(1, "physical", "sda", 1000, 0, 1000)})
	s := v.Available

	if err := s.EnterAction(ModeDelete); err == nil {
		t.Fatal("entered action mode with nothing selected")
	}
	s.Toggle("physical-1")
	if err := s.EnterAction(ModeSingle); err == nil {
		t.Fatal("entered a non-action mode via EnterAction")
	}
	if err := s.EnterAction(ModeDelete); err != nil {
		t.Fatalf("EnterAction: %v", err)
	}
	if err := s.EnterAction(ModeRAID); err == nil {
		t.Fatal("entered a second action mode while one is open")
	}

	// Selection is frozen while the action is open.
	s.Toggle("physical-1")
	if !s.Rows[0].Selected {
		t.Fatal("toggle changed selection during an open action")
	}

	s.LeaveAction()
	if s.Mode() != ModeSingle {
		t.Fatalf("after leave mode = %v, want single", s.Mode())
	}
}

func TestActionSurvivesRecomputeWhileTargetPresent(t *testing.T) {
	v := NewView()
	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
		disk(2, "physical", "sdb", 1000, 0, 1000),
	})
	v.Available.Toggle("physical-1")
	if err := v.Available.EnterAction(ModePartition); err != nil {
		t.Fatalf("EnterAction: %v", err)
	}

	v.Recompute([]Disk{
		disk(1, "physical", "sda", 1000, 0, 1000),
	})
	if v.Available.Mode() != ModePartition {
		t.Fatalf("mode = %v, want partition", v.Available.Mode())
	}

	// The target disappearing cancels the action.
	v.Recompute([]Disk{disk(2, "physical", "sdb", 1000, 0, 1000)})
	if v.Available.Mode() != ModeNone {
		t.Fatalf("mode = %v, want none after target vanished", v.Available.Mode())
	}
}

func TestParseDisksFlattensPartitions(t *testing.T) {
	it := store.NewItem("abc", map[string]any{
		"disks": []any{
			map[string]any{
				"id":   float64(10),
				"type": "physical",
				"name": "sda",
				"size": float64(4000),
				"filesystem": map[string]any{
					"fstype":      "",
					"mount_point": "",
				},
				"tags":    []any{"ssd", "rotary"},
				"is_boot": true,
				"partitions": []any{
					map[string]any{
						"id":   float64(3),
						"name": "sda-part1",
						"size": float64(2000),
						"filesystem": map[string]any{
							"fstype":      "ext4",
							"mount_point": "/",
						},
					},
				},
			},
		},
	})

	disks := ParseDisks(it)
	if len(disks) != 2 {
		t.Fatalf("len(disks) = %d", len(disks))
	}
	d := disks[0]
	if d.Name != "sda" || d.ID != 10 || !d.BootDisk || len(d.Tags) != 2 {
		t.Fatalf("disk = %+v", d)
	}
	p := disks[1]
	if p.Type != "partition" || p.Fstype != "ext4" || !p.Mounted() {
		t.Fatalf("partition = %+v", p)
	}
}

func TestIsWholeDiskDefault(t *testing.T) {
	if !IsWholeDiskDefault(999999999, 999999999) {
		t.Fatal("exact byte match should be whole-disk")
	}
	// Two sizes that round to the same display string are still
	// distinct requests.
	if IsWholeDiskDefault(1000000001, 1000000002) {
		t.Fatal("near-equal sizes must not be whole-disk")
	}
}
