package upnp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// AVTransportPrefix matches any version of the AVTransport service URN
	// (":1", ":2", and whatever vendors invent next)
	AVTransportPrefix = "urn:schemas-upnp-org:service:AVTransport:"

	// DefaultName is used when a device advertises no friendly name
	DefaultName = "Unknown device"

	// DefaultManufacturer is used when a device advertises no manufacturer
	DefaultManufacturer = "Unknown"

	// DefaultDeviceClass is used when the deviceType URN is malformed
	DefaultDeviceClass = "MediaRenderer"

	// DefaultFetchTimeout is the default timeout for description fetches
	DefaultFetchTimeout = 5 * time.Second

	// maxDescriptionSize caps description bodies; real documents are a few KB
	maxDescriptionSize = 1 << 20
)

// Resolver fetches and parses UPnP device-description documents.
type Resolver struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewResolver creates a resolver with default settings
func NewResolver() *Resolver {
	return &Resolver{
		HTTPClient: &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// Resolve fetches the description document at location and extracts the
// fields needed to control playback. sender is the UDP source the SSDP
// response arrived from; it is authoritative for the device address (the
// XML body is never trusted for that) and may be nil when unknown.
//
// Resolution fails with a *ResolveError when the location is not an
// absolute http/https URL, the fetch returns non-2xx, the body is not
// parseable XML, no device node exists, or the control URL cannot be made
// absolute. A device without an AVTransport service fails with
// ErrTypeNoService, which is the expected outcome for non-renderer devices.
func (r *Resolver) Resolve(ctx context.Context, location string, sender *net.UDPAddr) (*Device, error) {
	locURL, err := url.Parse(location)
	if err != nil {
		return nil, newURLError(location, "invalid location URL", err)
	}
	if (locURL.Scheme != "http" && locURL.Scheme != "https") || locURL.Host == "" {
		return nil, newURLError(location, "location is not an absolute http/https URL", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, newFetchError(location, "failed to create GET request", 0, err)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, newFetchError(location, "description fetch failed", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newFetchError(location, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	root, err := decodeTree(io.LimitReader(resp.Body, maxDescriptionSize))
	if err != nil {
		return nil, newParseError(location, "failed to parse description XML", err)
	}

	return r.extract(root, location, sender)
}

// extract pulls the control-relevant fields out of a parsed description
// tree. Split from Resolve so tests can exercise extraction without HTTP.
func (r *Resolver) extract(root *Node, location string, sender *net.UDPAddr) (*Device, error) {
	// Documents come as either root>device or a bare device element
	deviceNode := root.First("device")
	if deviceNode == nil {
		return nil, newParseError(location, "description has no device node", nil)
	}

	// Search the service list subtree in document order; first AVTransport
	// match wins. Some devices omit the serviceList wrapper, so fall back
	// to the whole device subtree.
	scope := deviceNode.First("serviceList")
	if scope == nil {
		scope = deviceNode
	}
	service := scope.FirstFunc(func(n *Node) bool {
		return strings.HasPrefix(serviceTypeOf(n), AVTransportPrefix)
	})
	if service == nil {
		return nil, newNoServiceError(location)
	}

	controlRef := controlURLOf(service)
	if controlRef == "" {
		return nil, newURLError(location, "AVTransport service has no controlURL", nil)
	}
	controlURL, err := ResolveControlURL(location, controlRef)
	if err != nil {
		return nil, newURLError(location, "failed to resolve controlURL", err)
	}

	name := strings.TrimSpace(deviceNode.ChildText("friendlyName"))
	if name == "" {
		name = DefaultName
	}
	manufacturer := strings.TrimSpace(deviceNode.ChildText("manufacturer"))
	if manufacturer == "" {
		manufacturer = DefaultManufacturer
	}

	device := &Device{
		Location:     location,
		Name:         name,
		Manufacturer: manufacturer,
		DeviceType:   DeviceClass(deviceNode.ChildText("deviceType")),
		AVTransport: AVTransport{
			ServiceType: serviceTypeOf(service),
			ControlURL:  controlURL,
		},
	}
	if sender != nil {
		device.Address = sender.IP.String()
		device.Port = sender.Port
	}
	return device, nil
}

// DeviceClass reduces a deviceType URN to its device-class segment:
// "urn:schemas-upnp-org:device:MediaRenderer:1" yields "MediaRenderer".
// A URN with fewer than four colon-separated segments yields the
// MediaRenderer default.
func DeviceClass(urn string) string {
	parts := strings.Split(strings.TrimSpace(urn), ":")
	if len(parts) < 4 {
		return DefaultDeviceClass
	}
	return parts[3]
}

// serviceTypeOf returns the service type of a service element, whether it
// is carried as an attribute or as a child element.
func serviceTypeOf(n *Node) string {
	if v, ok := n.Attr["serviceType"]; ok {
		return strings.TrimSpace(v)
	}
	for _, child := range n.Children {
		if child.Name == "serviceType" {
			return strings.TrimSpace(child.Text)
		}
	}
	return ""
}

// controlURLOf returns the control URL of a service element, whether it is
// carried as an attribute or as a child element.
func controlURLOf(n *Node) string {
	if v, ok := n.Attr["controlURL"]; ok {
		return strings.TrimSpace(v)
	}
	for _, child := range n.Children {
		if child.Name == "controlURL" {
			return strings.TrimSpace(child.Text)
		}
	}
	return ""
}
