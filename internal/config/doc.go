// Package config loads numdeck's own configuration file.
//
// # Overview
//
// Configuration lives at ~/.config/numdeck/config.toml and covers the
// four things an installation actually varies: where the sheet service
// listens, which country-code prefix to strip for display, where the log
// file goes, and the two polling cadences.
//
// # TOML Format
//
// Example config.toml:
//
//	sheet_url = "127.0.0.1:8090"
//	country_code = "971"
//	log_dir = "~/.local/share/numdeck/logs"
//	active_poll_ms = 1000
//	idle_poll_ms = 2000
//
// Every field is optional. Tilde paths expand to the home directory and
// resolve to absolute.
//
// # Resolution Order
//
//  1. An explicitly provided path is used as given
//  2. Otherwise ~/.config/numdeck/config.toml
//  3. A missing file yields the built-in defaults
//  4. Present-but-empty or non-positive fields fall back field by field
//
// A missing file is not an error; numdeck works out of the box against a
// local sheet service. A file that exists but does not parse IS an
// error: silently ignoring a typo in sheet_url would point the tool at
// the wrong service, which is worse than refusing to start.
//
// # Usage
//
//	cfg, err := config.Load("") // default path
//	if err != nil {
//		return err
//	}
//	client, err := sheet.NewClient(cfg.SheetURL)
//	logPath := cfg.LogPath()
//
// The package is read-only and stateless: Load runs once at startup and
// returns a value struct. Nothing here watches the file for changes.
package config
