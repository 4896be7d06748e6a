// Package ui provides the Bubble Tea terminal interface for rackline.
//
// The model holds view state only. Collection data lives in the fleet
// stores, which the channel's read goroutine keeps current; the UI
// re-reads them on every render rather than owning a copy. Push
// notifications arrive through an event bridge that triggers an
// immediate re-render, with a slow tick as a fallback refresh.
// Selection travels through the store's selection set so it survives
// server pushes, and the storage panel is rebuilt from the active
// machine via the storageview package.
//
// Layout: a header with connection info, a tab strip over the mirrored
// collections, a split list/detail body, and a status line carrying the
// outcome of the last call. The filter prompt, edit forms, and action
// menu replace the body while open.
package ui
