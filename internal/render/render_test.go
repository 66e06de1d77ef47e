package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/ssdp"
)

func sampleResult() *ssdp.Result {
	return &ssdp.Result{
		Records: []*ssdp.ServiceRecord{
			{
				ServiceType: "upnp:rootdevice",
				Location:    "http://10.0.0.5:80/desc.xml",
				USN:         "uuid:abc::upnp:rootdevice",
				SourceAddr:  "10.0.0.5:1900",
				MaxAge:      1800,
			},
			{
				ServiceType: "urn:schemas-upnp-org:service:ContentDirectory:1",
				Location:    "http://10.0.0.9:8200/rootDesc.xml",
				USN:         "uuid:def::urn:schemas-upnp-org:service:ContentDirectory:1",
				SourceAddr:  "10.0.0.9:1900",
				MaxAge:      -1,
			},
		},
		Dropped: 1,
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{FormatTable, true},
		{FormatPlain, true},
		{FormatJSON, true},
		{"yaml", false},
		{"", false},
		{"TABLE", false},
	}

	for _, tt := range tests {
		if got := IsValidFormat(tt.format); got != tt.want {
			t.Errorf("IsValidFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestRecords_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Records(&buf, sampleResult(), "yaml")
	if err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("error should name the bad format, got %q", err.Error())
	}
}

func TestRecords_Plain(t *testing.T) {
	var buf bytes.Buffer
	if err := Records(&buf, sampleResult(), FormatPlain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	fields := strings.Split(lines[0], "\t")
	if len(fields) != 4 {
		t.Fatalf("expected 4 tab-separated fields, got %d: %q", len(fields), lines[0])
	}
	if fields[0] != "upnp:rootdevice" {
		t.Errorf("field 0 = %q, want service type", fields[0])
	}
	if fields[1] != "http://10.0.0.5:80/desc.xml" {
		t.Errorf("field 1 = %q, want location", fields[1])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("plain output should not contain ANSI escapes")
	}
}

func TestRecords_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Records(&buf, sampleResult(), FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0]["location"] != "http://10.0.0.5:80/desc.xml" {
		t.Errorf("location = %v, want first record's location", decoded[0]["location"])
	}
	if decoded[1]["maxAge"] != float64(-1) {
		t.Errorf("maxAge = %v, want -1 for absent cache-control", decoded[1]["maxAge"])
	}
}

func TestWriteTable_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SERVICE TYPE", "LOCATION", "SOURCE", "upnp:rootdevice", "10.0.0.9:1900", "2 service(s) discovered", "1 datagram(s) dropped"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, &ssdp.Result{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No services discovered") {
		t.Errorf("empty result should say so, got %q", buf.String())
	}
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name   string
		result *ssdp.Result
		want   string
	}{
		{
			name:   "no drops",
			result: &ssdp.Result{Records: []*ssdp.ServiceRecord{{}}},
			want:   "1 service(s) discovered",
		},
		{
			name:   "with drops",
			result: &ssdp.Result{Records: []*ssdp.ServiceRecord{{}, {}}, Dropped: 3},
			want:   "2 service(s) discovered, 3 datagram(s) dropped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryLine(tt.result); got != tt.want {
				t.Errorf("summaryLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is far too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
