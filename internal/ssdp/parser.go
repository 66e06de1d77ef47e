package ssdp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// cache-control directives other than max-age are ignored
const maxAgePrefix = "max-age="

// ParseResponse turns one raw inbound datagram plus its source address into
// a ServiceRecord, or rejects it as malformed. It is a pure function over
// the byte buffer: no I/O, no logging.
//
// Parsing is deliberately tolerant. Devices in the wild are non-conformant,
// so individual header lines that don't match the "Name: value" shape are
// skipped rather than aborting the whole parse. Only two conditions reject
// a datagram outright: a status line that is not an HTTP 200, and a header
// set carrying neither LOCATION nor USN (not enough identity to report).
//
// The returned diagnostics describe why lines were skipped or the datagram
// was rejected; callers surface them only in verbose mode.
func ParseResponse(data []byte, src net.Addr) (*ServiceRecord, []string) {
	var diags []string

	lines := strings.Split(string(data), "\r\n")
	// some devices terminate lines with bare LF
	if len(lines) == 1 {
		lines = strings.Split(string(data), "\n")
	}

	if len(lines) == 0 || !isOKStatusLine(lines[0]) {
		status := ""
		if len(lines) > 0 {
			status = strings.TrimSpace(lines[0])
		}
		diags = append(diags, fmt.Sprintf("not an HTTP 200 response (status line %q)", status))
		return nil, diags
	}

	headers := make(map[string]string)
	for _, line := range lines[1:] {
		if line == "" {
			break // end of header section
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			diags = append(diags, fmt.Sprintf("skipping malformed header line %q", line))
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if _, dup := headers[name]; dup {
			// first occurrence wins
			continue
		}
		headers[name] = value
	}

	location := headers["LOCATION"]
	usn := headers["USN"]
	if location == "" && usn == "" {
		diags = append(diags, "response carries neither LOCATION nor USN")
		return nil, diags
	}

	serviceType := headers["ST"]
	if serviceType == "" {
		// NOTIFY-style replies advertise the type under NT instead
		serviceType = headers["NT"]
	}

	maxAge := -1
	if cc, ok := headers["CACHE-CONTROL"]; ok {
		if age, err := parseMaxAge(cc); err == nil {
			maxAge = age
		} else {
			diags = append(diags, fmt.Sprintf("ignoring malformed CACHE-CONTROL %q", cc))
		}
	}

	rec := &ServiceRecord{
		Location:     location,
		ServiceType:  serviceType,
		USN:          usn,
		Server:       headers["SERVER"],
		MaxAge:       maxAge,
		Source:       src,
		DiscoveredAt: time.Now(),
	}
	if src != nil {
		rec.SourceAddr = src.String()
	}

	return rec, diags
}

// isOKStatusLine reports whether the first line of a datagram is an
// HTTP-style 200 status line. Any HTTP/1.x version is accepted; some
// devices still answer M-SEARCH with HTTP/1.0.
func isOKStatusLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	if !strings.HasPrefix(fields[0], "HTTP/1.") {
		return false
	}
	return fields[1] == "200"
}

// parseMaxAge extracts the max-age seconds from a CACHE-CONTROL value such
// as "max-age=1800" or "no-cache, max-age=1800".
func parseMaxAge(value string) (int, error) {
	for _, directive := range strings.Split(value, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))
		if !strings.HasPrefix(directive, maxAgePrefix) {
			continue
		}
		age, err := strconv.Atoi(strings.TrimSpace(directive[len(maxAgePrefix):]))
		if err != nil {
			return 0, fmt.Errorf("invalid max-age: %w", err)
		}
		if age < 0 {
			return 0, fmt.Errorf("negative max-age %d", age)
		}
		return age, nil
	}
	return 0, fmt.Errorf("no max-age directive in %q", value)
}
