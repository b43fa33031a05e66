package config

import "time"

// Registry represents the entire user configuration file.
// It stores user-defined metadata for renderers and application preferences.
// Discovery results themselves are never persisted; every scan starts empty.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by description URL
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single renderer.
// This is keyed by the device's description URL in the Registry.
type Device struct {
	Nickname    string    `yaml:"nickname,omitempty"`     // User-friendly name override
	LastAddress string    `yaml:"last_address,omitempty"` // Last known IP address
	LastSeen    time.Time `yaml:"last_seen,omitempty"`    // Last discovery time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	ScanTimeout int  `yaml:"scan_timeout"` // SSDP scan timeout in seconds
	Broadcast   bool `yaml:"broadcast"`    // Also send M-SEARCH to the broadcast address
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			ScanTimeout: 3,
			Broadcast:   true,
		},
	}
}

// GetDevice retrieves device metadata by description URL.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(location string) *Device {
	return r.Devices[location]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the entry, existing or newly created.
func (r *Registry) EnsureDevice(location string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[location]; exists {
		return device
	}
	device := &Device{}
	r.Devices[location] = device
	return device
}

// NoteSeen updates the last seen timestamp and address for a device.
func (r *Registry) NoteSeen(location, address string) {
	device := r.EnsureDevice(location)
	device.LastSeen = time.Now()
	device.LastAddress = address
}
