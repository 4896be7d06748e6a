package storageview

import "fmt"

// Minimum member counts for each supported RAID level.
var raidMinMembers = map[string]int{
	"raid-0":  2,
	"raid-1":  2,
	"raid-5":  3,
	"raid-6":  4,
	"raid-10": 3,
}

// RAIDSize returns the usable size of an array built from numDisks
// members whose smallest member holds minSize bytes. Every member
// contributes at most the smallest member's size, so minSize is the
// only size that matters.
func RAIDSize(level string, minSize int64, numDisks int) (int64, error) {
	min, ok := raidMinMembers[level]
	if !ok {
		return 0, fmt.Errorf("storageview: unknown RAID level %q", level)
	}
	if numDisks < min {
		return 0, fmt.Errorf("storageview: %s needs at least %d disks, have %d", level, min, numDisks)
	}
	n := int64(numDisks)
	switch level {
	case "raid-0":
		return minSize * n, nil
	case "raid-1":
		return minSize, nil
	case "raid-5":
		return minSize * (n - 1), nil
	case "raid-6":
		return minSize * (n - 2), nil
	case "raid-10":
		return minSize * n / 2, nil
	}
	return 0, fmt.Errorf("storageview: unknown RAID level %q", level)
}

// FormatSize renders a byte count the way the fleet controller does:
// decimal units, one fractional digit from GB up.
func FormatSize(bytes int64) string {
	const (
		kb = 1000
		mb = kb * 1000
		gb = mb * 1000
		tb = gb * 1000
	)
	switch {
	case bytes >= tb:
		return fmt.Sprintf("%.1f TB", float64(bytes)/float64(tb))
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.0f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.0f kB", float64(bytes)/float64(kb))
	}
	return fmt.Sprintf("%d B", bytes)
}
