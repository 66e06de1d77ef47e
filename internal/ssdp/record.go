package ssdp

import (
	"fmt"
	"net"
	"time"
)

// ServiceRecord represents one SSDP service parsed from a single unicast
// reply. Records are never mutated after construction; deduplication keeps
// the first record seen for each identity and discards the rest.
type ServiceRecord struct {
	// Location is the URI where the device description can be fetched
	Location string `json:"location,omitempty"`

	// ServiceType is the ST header echoed back by the device, falling back
	// to NT when ST is absent
	ServiceType string `json:"serviceType,omitempty"`

	// USN is the Unique Service Name, the stable identity of a service
	// instance (e.g. "uuid:abc::urn:schemas-upnp-org:device:MediaRenderer:1")
	USN string `json:"usn,omitempty"`

	// Server identifies the responding software/hardware, if reported
	Server string `json:"server,omitempty"`

	// MaxAge is the max-age value from CACHE-CONTROL in seconds,
	// or -1 when the header was absent or malformed
	MaxAge int `json:"maxAge"`

	// Source is the network address the reply arrived from
	Source net.Addr `json:"-"`

	// SourceAddr is Source rendered as "host:port" for display and JSON output
	SourceAddr string `json:"sourceAddr,omitempty"`

	// DiscoveredAt is when the reply was parsed
	DiscoveredAt time.Time `json:"discoveredAt"`
}

// String returns a human-readable one-line representation of the record
func (r *ServiceRecord) String() string {
	id := r.USN
	if id == "" {
		id = r.Location
	}
	return fmt.Sprintf("SSDP Service %s (%s) from %s", id, r.ServiceType, r.SourceAddr)
}

// key returns the deduplication key: USN when present, else Location.
// An empty key means the record carries no stable identity and is treated
// as always unique.
func (r *ServiceRecord) key() string {
	if r.USN != "" {
		return "usn:" + r.USN
	}
	if r.Location != "" {
		return "loc:" + r.Location
	}
	return ""
}

// Result is the aggregate outcome of one discovery session.
type Result struct {
	// Records holds the unique services in first-seen order. Order reflects
	// the arrival of the first reply from each service, nothing else.
	Records []*ServiceRecord

	// Dropped counts datagrams that were received but rejected as malformed
	Dropped int
}

// Len returns the number of unique services discovered
func (r *Result) Len() int {
	return len(r.Records)
}
