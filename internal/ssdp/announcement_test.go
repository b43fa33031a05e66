package ssdp

import (
	"net"
	"testing"
)

func TestParseAnnouncement(t *testing.T) {
	sender := &net.UDPAddr{IP: net.ParseIP("192.168.1.9"), Port: 1900}

	tests := []struct {
		name    string
		data    string
		wantLoc string
		verify  func(t *testing.T, a announcement)
	}{
		{
			name: "typical response",
			data: "HTTP/1.1 200 OK\r\n" +
				"CACHE-CONTROL: max-age=1800\r\n" +
				"LOCATION: http://192.168.1.9:49152/desc.xml\r\n" +
				"ST: urn:schemas-upnp-org:service:AVTransport:1\r\n" +
				"USN: uuid:abc::urn:schemas-upnp-org:service:AVTransport:1\r\n\r\n",
			wantLoc: "http://192.168.1.9:49152/desc.xml",
			verify: func(t *testing.T, a announcement) {
				if got := a.headers["st"]; got != SearchTarget {
					t.Errorf("st header = %q", got)
				}
			},
		},
		{
			name:    "keys lower-cased and values trimmed",
			data:    "Location:   http://10.0.0.2/d.xml  \r\nServer: foo UPnP/1.1\r\n",
			wantLoc: "http://10.0.0.2/d.xml",
			verify: func(t *testing.T, a announcement) {
				if got := a.headers["server"]; got != "foo UPnP/1.1" {
					t.Errorf("server header = %q", got)
				}
			},
		},
		{
			name:    "value keeps embedded colons",
			data:    "LOCATION: http://192.168.1.9:49152/desc.xml\r\n",
			wantLoc: "http://192.168.1.9:49152/desc.xml",
		},
		{
			name:    "malformed lines discarded, rest kept",
			data:    "garbage without colon\r\nLOCATION: http://h/d.xml\r\nmore garbage\r\n",
			wantLoc: "http://h/d.xml",
		},
		{
			name:    "bare LF line endings tolerated",
			data:    "HTTP/1.1 200 OK\nLOCATION: http://h/d.xml\n",
			wantLoc: "http://h/d.xml",
		},
		{
			name:    "no location",
			data:    "HTTP/1.1 200 OK\r\nST: upnp:rootdevice\r\n",
			wantLoc: "",
		},
		{
			name:    "empty datagram",
			data:    "",
			wantLoc: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := parseAnnouncement([]byte(tt.data), sender)
			if got := a.location(); got != tt.wantLoc {
				t.Errorf("location() = %q, want %q", got, tt.wantLoc)
			}
			if a.sender != sender {
				t.Error("sender not carried through")
			}
			if tt.verify != nil {
				tt.verify(t, a)
			}
		})
	}
}
