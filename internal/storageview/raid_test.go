package storageview

import "testing"

func TestRAIDSize(t *testing.T) {
	const min = int64(1000 * 1000 * 1000) // smallest member, 1 GB

	cases := []struct {
		level string
		disks int
		want  int64
	}{
		{"raid-0", 2, 2 * min},
		{"raid-0", 5, 5 * min},
		{"raid-1", 2, min},
		{"raid-1", 4, min},
		{"raid-5", 3, 2 * min},
		{"raid-5", 6, 5 * min},
		{"raid-6", 4, 2 * min},
		{"raid-6", 7, 5 * min},
		{"raid-10", 4, 2 * min},
		{"raid-10", 5, 5 * min / 2},
	}
	for _, tc := range cases {
		got, err := RAIDSize(tc.level, min, tc.disks)
		if err != nil {
			t.Errorf("RAIDSize(%s, %d): %v", tc.level, tc.disks, err)
			continue
		}
		if got != tc.want {
			t.Errorf("RAIDSize(%s, %d) = %d, want %d", tc.level, tc.disks, got, tc.want)
		}
	}
}

func TestRAIDSizeRejectsTooFewMembers(t *testing.T) {
	cases := []struct {
		level string
		disks int
	}{
		{"raid-0", 1},
		{"raid-1", 1},
		{"raid-5", 2},
		{"raid-6", 3},
		{"raid-10", 2},
	}
	for _, tc := range cases {
		if _, err := RAIDSize(tc.level, 1000, tc.disks); err == nil {
			t.Errorf("RAIDSize(%s, %d) accepted too few members", tc.level, tc.disks)
		}
	}
}

func TestRAIDSizeUnknownLevel(t *testing.T) {
	if _, err := RAIDSize("raid-2", 1000, 4); err == nil {
		t.Fatal("unknown level accepted")
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{4000, "4 kB"},
		{250 * 1000 * 1000, "250 MB"},
		{1000 * 1000 * 1000, "1.0 GB"},
		{1500 * 1000 * 1000, "1.5 GB"},
		{2 * 1000 * 1000 * 1000 * 1000, "2.0 TB"},
	}
	for _, tc := range cases {
		if got := FormatSize(tc.bytes); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
