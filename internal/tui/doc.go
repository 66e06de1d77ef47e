// Package tui implements the full-screen live scan view for the watch command.
//
// The screen repeatedly probes the network and fills a list with services
// as their replies arrive, rather than waiting for the whole listen window
// to elapse. Built on the Bubble Tea framework with the Elm architecture:
// a Model-Update-View loop with immutable state updates.
//
// # Framework Components
//
//   - bubbles/spinner: Scan-in-progress indicator
//   - bubbles/list: Service list with filtering
//   - bubbles/help: Context-aware key binding help
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	cfg := ssdp.DefaultConfig()
//	if err := tui.Run(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming
//
// Each scan runs in its own goroutine and streams unique records over a
// channel; the Update loop drains the channel one message at a time, so
// the list grows live while the socket is still listening. When the scan
// completes the channel is closed and the final result (including the
// dropped-datagram count) lands as a single completion message.
//
// # Key Bindings
//
//   - While scanning: q quit
//   - After a scan: ↑/↓ navigate, / filter, r rescan, q quit
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine; the scan goroutine only
// touches the model indirectly via messages.
package tui
