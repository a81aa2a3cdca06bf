// Package cli implements the otokonime command line.
//
// Without a subcommand the interactive TUI is started. The subcommands
// cover the scriptable parts: managing the personal list, searching the
// catalog and downloading episodes.
package cli
