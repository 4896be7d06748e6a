// Package logtail reads the tail of rackline's own log file.
//
// # Overview
//
// The UI owns the terminal, so everything rackline logs goes to a file.
// This package extracts the last N lines of that file for the in-app
// log overlay, without loading the whole file into memory.
//
// # Ring Buffer Algorithm
//
// Read uses a circular buffer of size maxLines:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines:
//	   - Return first 'count' entries from buffer
//	4. If total >= maxLines:
//	   - Return buffer starting from current index (oldest line)
//
// This keeps memory at O(maxLines), not O(file size), and returns the
// lines in chronological order in one pass.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files; the log simply has not
// been written yet. Other errors (permission denied, I/O errors) are
// returned wrapped.
//
// # Design Rationale
//
// This package is intentionally simple and focused: no streaming or
// file watching, no log rotation handling, no filtering. The UI polls
// it on its render tick while the overlay is open, which is cheap at
// overlay sizes.
package logtail
