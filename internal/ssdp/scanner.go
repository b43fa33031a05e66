package ssdp

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/upnpcast/internal/logging"
	"github.com/muurk/upnpcast/internal/upnp"
)

const (
	// MulticastAddr is the SSDP multicast group all UPnP devices listen on
	MulticastAddr = "239.255.255.250:1900"

	// mdnsGroup is joined best-effort for responders that announce on the
	// mDNS group instead of the SSDP one
	mdnsGroup = "224.0.0.251"

	// SearchTarget restricts the search to AVTransport-capable devices
	SearchTarget = "urn:schemas-upnp-org:service:AVTransport:1"

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 3 * time.Second

	// maxDatagramSize bounds one SSDP response datagram
	maxDatagramSize = 8192
)

// resolveFunc turns one SSDP location into a device descriptor. Swappable
// so tests can run the scanner without a network.
type resolveFunc func(ctx context.Context, location string, sender *net.UDPAddr) (*upnp.Device, error)

// Scanner handles SSDP device discovery.
//
// A Scanner holds no state between scans: every Discover call opens a fresh
// socket and starts an empty result set, and everything is released when
// the scan deadline fires.
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// Broadcast additionally sends the M-SEARCH to the broadcast address,
	// a fallback for responders that do not honor multicast
	Broadcast bool

	resolve resolveFunc
}

// NewScanner creates an SSDP scanner with default settings
func NewScanner() *Scanner {
	resolver := upnp.NewResolver()
	return &Scanner{
		Timeout:   DefaultScanTimeout,
		Broadcast: true,
		resolve:   resolver.Resolve,
	}
}

// Discover scans the local network for UPnP media renderers and returns the
// devices found before the timeout, in arrival order.
//
// Discovery never fails the caller: transport setup errors abort the scan
// and yield an empty result, per-device resolution errors are logged and
// skipped. Resolutions still in flight when the deadline fires are
// cancelled; their results are discarded.
func (s *Scanner) Discover(ctx context.Context) []*upnp.Device {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		logging.Warn("SSDP socket bind failed, aborting scan", zap.Error(err))
		return nil
	}
	defer func() { _ = conn.Close() }()

	group, err := net.ResolveUDPAddr("udp4", MulticastAddr)
	if err != nil {
		logging.Warn("invalid multicast address", zap.Error(err))
		return nil
	}

	packetConn := ipv4.NewPacketConn(conn)
	if err := packetConn.JoinGroup(nil, &net.UDPAddr{IP: group.IP}); err != nil {
		logging.Warn("SSDP multicast join failed, aborting scan", zap.Error(err))
		return nil
	}
	// Best-effort: some renderers only respond when queried via the mDNS
	// group. Failure here is not fatal.
	_ = packetConn.JoinGroup(nil, &net.UDPAddr{IP: net.ParseIP(mdnsGroup)})
	_ = packetConn.SetMulticastTTL(2)

	s.sendSearch(conn, group)

	set := newResultSet()
	deadline, _ := ctx.Deadline()

	go s.listen(ctx, conn, deadline, set)

	// Wait for timeout or caller cancellation, then freeze the result set.
	// In-flight resolutions see the cancelled context and terminate on
	// their own; anything completing late is discarded by the closed set.
	<-ctx.Done()
	return set.close()
}

// sendSearch transmits the M-SEARCH request. Send errors are logged but do
// not abort the scan: a listen-only scan still picks up announcements.
func (s *Scanner) sendSearch(conn net.PacketConn, group *net.UDPAddr) {
	// MX is randomized per scan so responders spread their replies
	mx := 1 + rand.Intn(3)
	request := fmt.Sprintf("M-SEARCH * HTTP/1.1\r\n"+
		"HOST: %s\r\n"+
		"MAN: \"ssdp:discover\"\r\n"+
		"MX: %d\r\n"+
		"ST: %s\r\n\r\n", MulticastAddr, mx, SearchTarget)

	if _, err := conn.WriteTo([]byte(request), group); err != nil {
		logging.Warn("M-SEARCH multicast send failed", zap.Error(err))
	}
	if s.Broadcast {
		bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: group.Port}
		if _, err := conn.WriteTo([]byte(request), bcast); err != nil {
			logging.Debug("M-SEARCH broadcast send failed", zap.Error(err))
		}
	}
}

// listen receives datagrams until the deadline and dispatches resolution
// work. Resolution is an HTTP fetch plus XML parse and can take hundreds of
// milliseconds, so it runs in its own goroutine; the receive loop never
// blocks on it.
func (s *Scanner) listen(ctx context.Context, conn net.PacketConn, deadline time.Time, set *resultSet) {
	buf := make([]byte, maxDatagramSize)
	for {
		_ = conn.SetReadDeadline(deadline)
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			// Deadline elapsed or the socket was torn down
			return
		}
		sender, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		s.handleDatagram(ctx, data, sender, set)
	}
}

// handleDatagram parses one response and, for a location not seen before in
// this scan, starts its resolution. Dedup key is the exact location string,
// claimed at receipt time so duplicates arriving while a resolution is in
// flight are dropped too.
func (s *Scanner) handleDatagram(ctx context.Context, data []byte, sender *net.UDPAddr, set *resultSet) {
	ann := parseAnnouncement(data, sender)
	location := ann.location()
	if location == "" {
		logging.Debug("SSDP response without location discarded",
			zap.String("sender", sender.String()))
		return
	}
	if !set.claim(location) {
		return
	}

	logging.Debug("resolving SSDP location",
		zap.String("location", location),
		zap.String("sender", sender.String()))

	go func() {
		device, err := s.resolve(ctx, location, sender)
		if err != nil {
			if upnp.IsNoService(err) {
				logging.Debug("device has no AVTransport service",
					zap.String("location", location))
			} else {
				logging.Debug("device resolution failed",
					zap.String("location", location), zap.Error(err))
			}
			return
		}
		if set.add(device) {
			logging.Info("renderer discovered",
				zap.String("name", device.Name),
				zap.String("address", device.Address),
				zap.String("location", device.Location))
		}
	}()
}

// Discover is a convenience function to scan with a custom timeout
func Discover(ctx context.Context, timeout time.Duration) []*upnp.Device {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Discover(ctx)
}

// resultSet is the shared result map of one scan: claimed by the receive
// loop, written by N resolution goroutines, read once at the deadline.
type resultSet struct {
	mu      sync.Mutex
	closed  bool
	seen    map[string]bool
	devices []*upnp.Device
}

func newResultSet() *resultSet {
	return &resultSet{seen: make(map[string]bool)}
}

// claim reserves a location for resolution. Returns false if the location
// was already seen in this scan or the scan has ended.
func (rs *resultSet) claim(location string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed || rs.seen[location] {
		return false
	}
	rs.seen[location] = true
	return true
}

// add appends a resolved device, preserving arrival order. Returns false if
// the scan has already ended; the late result is discarded.
func (rs *resultSet) add(device *upnp.Device) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.closed {
		return false
	}
	rs.devices = append(rs.devices, device)
	return true
}

// close freezes the set and returns its contents. Safe to call while
// resolutions are still in flight; their results are simply dropped.
func (rs *resultSet) close() []*upnp.Device {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.closed = true
	devices := make([]*upnp.Device, len(rs.devices))
	copy(devices, rs.devices)
	return devices
}
