// Package render formats scan results for the terminal.
//
// Three formats are supported: a styled table for interactive use, a
// tab-separated plain format for pipelines, and JSON for tooling. The
// table format automatically falls back to plain when stdout is not a
// terminal, so redirected output never contains ANSI escape sequences.
package render
