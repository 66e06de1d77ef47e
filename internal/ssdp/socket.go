package ssdp

import (
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// multicastTTL is the TTL / hop limit for outgoing probes. SSDP traffic is
// local-scope; the UPnP Device Architecture recommends 2.
const multicastTTL = 2

// openSocket binds an ephemeral UDP socket for the requested address
// family, configures it for multicast send, and returns it with the SSDP
// group address. Replies come back unicast to the ephemeral port, so the
// socket does not join the group.
func openSocket(useIPv6 bool) (conn, net.Addr, error) {
	network := "udp4"
	groupIP := net.ParseIP(MulticastAddr4)
	if useIPv6 {
		network = "udp6"
		groupIP = net.ParseIP(MulticastAddr6)
	}
	group := &net.UDPAddr{IP: groupIP, Port: MulticastPort}

	c, err := net.ListenUDP(network, &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, nil, NewSocketError("cannot bind UDP socket", err)
	}

	// Best-effort socket tuning: a failed TTL or buffer adjustment is not
	// worth aborting discovery over.
	_ = c.SetReadBuffer(1 << 16)
	if useIPv6 {
		_ = ipv6.NewPacketConn(c).SetMulticastHopLimit(multicastTTL)
	} else {
		_ = ipv4.NewPacketConn(c).SetMulticastTTL(multicastTTL)
	}

	return c, group, nil
}
