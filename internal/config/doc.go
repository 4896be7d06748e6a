// Package config handles loading the rackline configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rackline/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Apply RACKLINE_* environment variable overrides last
//
// # TOML Format
//
// Example config.toml:
//
//	server = "10.14.0.2:5240"
//	log_dir = "~/.local/share/rackline/logs"
//	dial_timeout = "10s"
//
// All fields are optional. Tilde expansion is performed automatically
// on paths.
//
// # Environment Overrides
//
// RACKLINE_SERVER, RACKLINE_LOG_DIR, and RACKLINE_DIAL_TIMEOUT override
// the corresponding file values. Overrides apply whether or not a
// config file exists, so rackline works against an ad-hoc controller
// with nothing on disk.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors
// (except os.ErrNotExist, which triggers defaults), and TOML parsing
// errors. A missing config file is NOT an error; rackline should work
// out of the box against a controller on localhost.
package config
