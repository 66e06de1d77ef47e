package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/ssdp"
)

// Output formats accepted by Records.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
)

// ValidFormats lists the accepted values for the --format flag.
var ValidFormats = []string{FormatTable, FormatPlain, FormatJSON}

// IsValidFormat reports whether format names a supported output format.
func IsValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatPlain, FormatJSON:
		return true
	}
	return false
}

// Records writes the scan result to w in the requested format. The table
// format degrades to plain when stdout is not a terminal, so piped output
// never carries ANSI escapes.
func Records(w io.Writer, result *ssdp.Result, format string) error {
	switch format {
	case FormatTable:
		if !isTerminal() {
			return writePlain(w, result)
		}
		return writeTable(w, result)
	case FormatPlain:
		return writePlain(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	default:
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
	}
}

func writeTable(w io.Writer, result *ssdp.Result) error {
	if result.Len() == 0 {
		fmt.Fprintln(w, SummaryStyle.Render("No services discovered."))
		return nil
	}

	width := terminalWidth()

	typeWidth := columnWidth(result.Records, func(r *ssdp.ServiceRecord) string { return r.ServiceType })
	// Location gets whatever the type column leaves over, source is fixed.
	const sourceWidth = 21 // fits "255.255.255.255:65535"
	locWidth := width - typeWidth - sourceWidth - 4
	if locWidth < 20 {
		locWidth = 20
	}

	fmt.Fprintf(w, "%s  %s  %s\n",
		HeaderStyle.Render(pad("SERVICE TYPE", typeWidth)),
		HeaderStyle.Render(pad("LOCATION", locWidth)),
		HeaderStyle.Render("SOURCE"))

	for _, rec := range result.Records {
		fmt.Fprintf(w, "%s  %s  %s\n",
			TypeStyle.Render(pad(truncate(rec.ServiceType, typeWidth), typeWidth)),
			LocationStyle.Render(pad(truncate(rec.Location, locWidth), locWidth)),
			DetailStyle.Render(rec.SourceAddr))
	}

	fmt.Fprintln(w, SummaryStyle.Render(summaryLine(result)))
	return nil
}

func writePlain(w io.Writer, result *ssdp.Result) error {
	for _, rec := range result.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ServiceType, rec.Location, rec.USN, rec.SourceAddr)
	}
	return nil
}

func writeJSON(w io.Writer, result *ssdp.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Records)
}

// summaryLine builds the trailing count line, mentioning dropped
// datagrams only when there were any.
func summaryLine(result *ssdp.Result) string {
	line := fmt.Sprintf("%d service(s) discovered", result.Len())
	if result.Dropped > 0 {
		line += fmt.Sprintf(", %d datagram(s) dropped", result.Dropped)
	}
	return line
}

// columnWidth returns the widest value of field across records, clamped
// so one long service type cannot starve the location column.
func columnWidth(records []*ssdp.ServiceRecord, field func(*ssdp.ServiceRecord) string) int {
	width := len("SERVICE TYPE")
	for _, rec := range records {
		if n := len(field(rec)); n > width {
			width = n
		}
	}
	if width > 45 {
		width = 45
	}
	return width
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
