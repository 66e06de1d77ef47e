// Package ssdp implements active SSDP (Simple Service Discovery Protocol)
// discovery of UPnP devices and services on the local network.
//
// The package multicasts an M-SEARCH probe to the SSDP group
// (239.255.255.250:1900, or FF02::C for IPv6), collects the unicast 200 OK
// replies devices send back, parses them into ServiceRecords, and returns
// the deduplicated set to the caller.
//
// # Discovery Process
//
// A discovery session works as follows:
//  1. Validates the configuration (search target, MX window, timeout)
//  2. Opens one UDP socket and multicasts an M-SEARCH probe
//  3. Listens for unicast replies for the full per-round timeout
//  4. Repeats the probe for each configured retry round
//  5. Returns the unique services in first-seen order
//
// # Usage Example
//
//	result, err := ssdp.Discover(ssdp.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range result.Records {
//	    fmt.Printf("%s  %s\n", rec.ServiceType, rec.Location)
//	}
//
// # Deduplication
//
// Devices repeat identical replies across retry rounds and often answer
// once per network interface. Replies are collapsed on USN when present,
// falling back to LOCATION; the first reply for each identity wins, and
// result order is first-seen arrival order.
//
// # Network Requirements
//
// - Requires multicast send on a local interface
// - Devices must be on the same local network segment
// - Firewall must allow SSDP (UDP port 1900) and unicast UDP replies
//
// # Thread Safety
//
// Each Session owns its socket exclusively and runs single-flow, so no
// locking is involved. Multiple sessions (e.g. for different search
// targets) can run concurrently; they share no state.
package ssdp
