package ssdp

import (
	"fmt"
	"strings"
)

// SSDP multicast constants
const (
	// MulticastAddr4 is the IPv4 SSDP multicast group
	MulticastAddr4 = "239.255.255.250"

	// MulticastAddr6 is the IPv6 link-local SSDP multicast group
	MulticastAddr6 = "FF02::C"

	// MulticastPort is the SSDP multicast port
	MulticastPort = 1900

	// SearchTargetAll matches every SSDP service on the network
	SearchTargetAll = "ssdp:all"

	// SearchTargetRootDevice matches UPnP root devices only
	SearchTargetRootDevice = "upnp:rootdevice"

	// MinMaxWait and MaxMaxWait bound the MX response-wait window. Devices
	// randomize their reply delay within MX seconds; values above 5 only
	// slow discovery down (UPnP Device Architecture 1.1 §1.3.2).
	MinMaxWait = 1
	MaxMaxWait = 5
)

// MulticastHost returns the "host:port" of the SSDP multicast group for
// the requested address family, as it appears in the HOST header.
func MulticastHost(ipv6 bool) string {
	if ipv6 {
		return fmt.Sprintf("[%s]:%d", MulticastAddr6, MulticastPort)
	}
	return fmt.Sprintf("%s:%d", MulticastAddr4, MulticastPort)
}

// BuildSearchRequest constructs the exact bytes of an SSDP M-SEARCH probe
// for the given search target and MX window. It is a pure function with no
// side effects.
//
// The request is HTTP/1.1-framed with CRLF line endings and terminated by a
// blank line:
//
//	M-SEARCH * HTTP/1.1
//	HOST: 239.255.255.250:1900
//	MAN: "ssdp:discover"
//	MX: 3
//	ST: ssdp:all
//
// Returns a configuration error when searchTarget is empty or maxWait is
// outside the 1-5 second bound.
func BuildSearchRequest(searchTarget string, maxWait int, ipv6 bool) ([]byte, error) {
	if strings.TrimSpace(searchTarget) == "" {
		return nil, NewConfigError("search target must not be empty")
	}
	if maxWait < MinMaxWait || maxWait > MaxMaxWait {
		return nil, NewConfigError(fmt.Sprintf(
			"MX value %d out of range (%d-%d)", maxWait, MinMaxWait, MaxMaxWait))
	}

	var b strings.Builder
	b.WriteString("M-SEARCH * HTTP/1.1\r\n")
	fmt.Fprintf(&b, "HOST: %s\r\n", MulticastHost(ipv6))
	b.WriteString("MAN: \"ssdp:discover\"\r\n")
	fmt.Fprintf(&b, "MX: %d\r\n", maxWait)
	fmt.Fprintf(&b, "ST: %s\r\n", searchTarget)
	b.WriteString("\r\n")

	return []byte(b.String()), nil
}
