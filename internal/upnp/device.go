package upnp

import "fmt"

// AVTransport describes the AVTransport service endpoint of a renderer.
type AVTransport struct {
	// ServiceType is the full service URN as advertised by the device
	// (e.g., "urn:schemas-upnp-org:service:AVTransport:1")
	ServiceType string

	// ControlURL is the absolute URL SOAP actions are POSTed to
	ControlURL string
}

// Device represents a discovered UPnP media renderer.
type Device struct {
	// Location is the device-description URL from the SSDP response.
	// It is the unique key for a device within one discovery run.
	Location string

	// Name is the friendly name from the description document
	Name string

	// Manufacturer is the manufacturer string from the description document
	Manufacturer string

	// DeviceType is the device-class segment of the deviceType URN
	// (e.g., "MediaRenderer")
	DeviceType string

	// AVTransport is the playback control endpoint
	AVTransport AVTransport

	// Address is the IP the SSDP response arrived from (populated from the
	// UDP sender, never from the XML body)
	Address string

	// Port is the UDP source port of the SSDP response
	Port int
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s) at %s", d.Name, d.DeviceType, d.Address)
}
