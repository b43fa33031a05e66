// Package ssdp implements SSDP-based discovery of UPnP media renderers.
//
// This package sends an M-SEARCH request on the SSDP multicast group and
// collects responses for the duration of one scan. Each response carries a
// description URL; the scanner resolves it into a device descriptor
// (see the upnp package) concurrently with continued listening.
//
// # Discovery Process
//
// One scan works as follows:
//  1. Opens a UDP socket and joins the SSDP multicast group 239.255.255.250
//  2. Sends an M-SEARCH for the AVTransport service target, with a
//     randomized MX so responders spread their replies
//  3. Parses each inbound datagram into a header map and dedups by the
//     exact location string
//  4. Resolves new locations concurrently; each success is appended to the
//     result set in arrival order
//  5. Returns the result set when the timeout elapses and releases the
//     socket unconditionally
//
// # Failure Policy
//
// Discovery never fails the caller. Socket bind or multicast join failure
// aborts the scan with an empty result; send errors leave a listen-only
// scan running; malformed datagrams and per-device resolution failures are
// logged and skipped. A single bad device never aborts a scan.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow SSDP (UDP port 1900)
//
// # Thread Safety
//
// A Scanner is safe for concurrent use. No state survives across Discover
// calls; concurrent scans use independent sockets and result sets.
package ssdp
