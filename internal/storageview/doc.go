// Package storageview derives the storage panel's row model from a
// mirrored machine's block device data.
//
// The mirrored machine item carries raw disk and partition maps; this
// package projects them into three sections (filesystems, available,
// used) of Row values the UI can render directly. Derived rows are
// rebuilt wholesale on every change, with transient UI state (selection,
// rename buffers) carried forward by a stable per-row key, so the panel
// survives server pushes without losing what the operator was doing.
//
// Each section owns a small state machine: selection modes (none,
// single, multi) track how many rows are picked, and action modes hold
// the section still while a confirmation or parameter form is open.
package storageview
