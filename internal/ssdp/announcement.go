package ssdp

import (
	"net"
	"strings"
)

// announcement is one parsed SSDP response datagram. It is consumed
// immediately by the scanner and never outlives the receive loop iteration.
type announcement struct {
	// sender is the UDP source address of the datagram
	sender *net.UDPAddr

	// headers maps lower-cased header names to trimmed values
	headers map[string]string
}

// parseAnnouncement parses an SSDP datagram into a header mapping.
//
// SSDP responses are an HTTP-style header block: each line is split at its
// first colon, the key lower-cased and the value trimmed. Lines without a
// colon (including the status line) are discarded rather than failing the
// whole datagram; responders in the wild emit all kinds of garbage.
func parseAnnouncement(data []byte, sender *net.UDPAddr) announcement {
	headers := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return announcement{sender: sender, headers: headers}
}

// location returns the device-description URL carried by the datagram, or
// "" if the responder sent none.
func (a announcement) location() string {
	return a.headers["location"]
}
