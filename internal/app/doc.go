// Package app provides the orchestration layer for rackline.
//
// # Overview
//
// This package wires together configuration, the duplex channel, the
// collection stores, and the UI to create the complete rackline TUI.
// It serves as the composition root where all dependencies are
// initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load rackline configuration from ~/.config/rackline/config.toml
//  2. Load user preferences (theme, saved filters)
//  3. Open the log file; the UI owns the terminal, so logs never go to
//     stderr
//  4. Dial the Foundry controller's duplex channel
//  5. Build the fleet stores and subscribe them to push notifications
//  6. Perform the initial list call for every collection
//  7. Start the TUI and block until the user exits, the context is
//     cancelled, or the channel drops
//
// # Data Flow
//
// The channel's read goroutine applies push notifications to the
// stores as they arrive. The UI never copies collection data: it
// re-reads the stores on its render tick. There is no polling loop;
// after the initial lists, every change reaches the mirror by push.
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable configuration, a failed
// dial, or a failed initial load. A channel that drops later also ends
// the run, reported as a connection-lost error; the mirror is stale
// the moment pushes stop arriving, and reconnecting is the operator's
// call.
//
// Recoverable errors: individual method calls that the server rejects
// surface in the UI's status line and leave the mirror untouched. A
// missing prefs file or an unwritable log dir degrade silently.
package app
