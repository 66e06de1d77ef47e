package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/ssdp"
)

// Messages for async operations
type scanStartMsg struct{}
type recordMsg struct {
	record *ssdp.ServiceRecord
}
type scanCompleteMsg struct {
	result *ssdp.Result
	err    error
}

// watchKeyMap defines key bindings for the results view
type watchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Rescan, k.Quit},
	}
}

// scanningKeyMap defines key bindings while a scan is in flight
type scanningKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Quit},
	}
}

// serviceItem wraps a ServiceRecord for use with bubbles/list
type serviceItem struct {
	record *ssdp.ServiceRecord
}

// Implement list.Item interface
func (s serviceItem) FilterValue() string {
	return s.record.ServiceType + " " + s.record.USN + " " + s.record.Location
}

// Title returns the service type for list display
func (s serviceItem) Title() string {
	if s.record.ServiceType == "" {
		return "(unknown service type)"
	}
	return s.record.ServiceType
}

// Description returns service details for list display
func (s serviceItem) Description() string {
	parts := []string{s.record.SourceAddr}
	if s.record.Location != "" {
		parts = append(parts, s.record.Location)
	}
	if s.record.MaxAge >= 0 {
		parts = append(parts, fmt.Sprintf("max-age %ds", s.record.MaxAge))
	}
	return strings.Join(parts, " • ")
}

// WatchModel represents the live scan screen state
type WatchModel struct {
	// Scan state
	Config      ssdp.Config
	Scanning    bool
	ServiceList list.Model
	Dropped     int
	ScanCount   int
	Err         error

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          watchKeyMap
	ScanningKeys  scanningKeyMap

	events chan tea.Msg
}

// NewWatchModel creates a new live scan screen model
func NewWatchModel(cfg ssdp.Config) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(HighlightColor).
		BorderForeground(HighlightColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(SubtleColor).
		BorderForeground(HighlightColor)

	serviceList := list.New([]list.Item{}, delegate, 0, 0)
	serviceList.Title = "Discovered Services"
	serviceList.SetShowStatusBar(false)
	serviceList.SetFilteringEnabled(true)
	serviceList.Styles.Title = TitleStyle

	keys := watchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	scanningKeys := scanningKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return WatchModel{
		Config:       cfg,
		ServiceList:  serviceList,
		Spinner:      s,
		Help:         help.New(),
		Keys:         keys,
		ScanningKeys: scanningKeys,
		events:       make(chan tea.Msg, 16),
	}
}

// Init starts the first scan immediately
func (m WatchModel) Init() tea.Cmd {
	return beginScan(m.Config, m.events, m.Spinner)
}

// beginScan starts the scan goroutine and arms the event drain. Records
// stream in one at a time as replies arrive on the wire, so the list
// fills while the probe is still listening.
func beginScan(cfg ssdp.Config, events chan tea.Msg, sp spinner.Model) tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		runScan(cfg, events),
		waitForEvent(events),
		sp.Tick,
	)
}

// Update handles messages and updates the model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "r":
			if !m.Scanning {
				m.ServiceList.SetItems([]list.Item{})
				m.Dropped = 0
				m.Err = nil
				m.events = make(chan tea.Msg, 16)
				return m, beginScan(m.Config, m.events, m.Spinner)
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ServiceList.SetWidth(msg.Width - 4)
		m.ServiceList.SetHeight(msg.Height - 10) // Leave room for header/footer

	case scanStartMsg:
		m.Scanning = true
		m.ScanCount++
		m.ScanStartTime = time.Now()

	case recordMsg:
		cmd = m.ServiceList.InsertItem(len(m.ServiceList.Items()), serviceItem{record: msg.record})
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		if msg.result != nil {
			m.Dropped = msg.result.Dropped
		}

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.Scanning {
		m.ServiceList, cmd = m.ServiceList.Update(msg)
	}

	return m, cmd
}

// View renders the watch screen
func (m WatchModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content string
	if m.Err != nil {
		content = m.renderError()
	} else {
		content = m.renderResults(width)
	}

	var helpText string
	if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderResults renders the service list with a status line above it
func (m WatchModel) renderResults(width int) string {
	var b strings.Builder

	b.WriteString("\n")

	if m.Scanning {
		elapsed := time.Since(m.ScanStartTime).Round(time.Second)
		status := fmt.Sprintf("%s Probing %s for %q... (%s)",
			m.Spinner.View(), ssdp.MulticastHost(m.Config.IPv6), m.Config.SearchTarget, elapsed)
		b.WriteString("  ")
		b.WriteString(SpinnerStyle.Render(status))
		b.WriteString("\n\n")
	} else {
		status := fmt.Sprintf("Scan #%d complete: %d service(s)", m.ScanCount, len(m.ServiceList.Items()))
		if m.Dropped > 0 {
			status += fmt.Sprintf(", %d datagram(s) dropped", m.Dropped)
		}
		b.WriteString("  ")
		b.WriteString(SubtitleStyle.Render(status))
		b.WriteString("\n\n")
	}

	if len(m.ServiceList.Items()) == 0 && !m.Scanning {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warningStyle.Render("⚠ No services responded"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Check that you are on the same network segment as the devices\n")
		b.WriteString("    • Some firewalls block multicast; allow UDP port 1900\n")
		b.WriteString("    • Try a broader search target such as ssdp:all ('r' to rescan)\n")
	} else {
		b.WriteString(m.ServiceList.View())
	}

	return b.String()
}

// renderError renders the scan failure state with recovery hints
func (m WatchModel) renderError() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderError(fmt.Sprintf("Scan failed: %s", ssdp.GetShortErrorMessage(m.Err))))
	b.WriteString("\n\n")
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Another process may be holding the socket\n")
	b.WriteString("    • Verify you have a usable network interface\n")
	b.WriteString("    • Press 'r' to retry, 'q' to quit\n")

	return b.String()
}

// runScan performs one full discovery flow, streaming each unique record
// onto events before the final result lands. The channel is closed when
// the scan completes so the pending waitForEvent unblocks.
func runScan(cfg ssdp.Config, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(events)

		session, err := ssdp.NewSession(cfg)
		if err != nil {
			return scanCompleteMsg{err: err}
		}
		session.OnRecord(func(rec *ssdp.ServiceRecord) {
			events <- recordMsg{record: rec}
		})

		result, err := session.Run(context.Background())
		return scanCompleteMsg{result: result, err: err}
	}
}

// waitForEvent blocks until the scan goroutine produces the next record
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Run launches the watch screen and blocks until the user quits
func Run(cfg ssdp.Config) error {
	p := tea.NewProgram(NewWatchModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run watch screen: %w", err)
	}
	return nil
}
