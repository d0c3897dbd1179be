package model

import "fmt"

// ProcessingCapacityKey is the capability-map key used throughout the
// scheduler as the primary scalar processing rate for a VM.
const ProcessingCapacityKey = "processingCapacity"

// VM is an immutable execution host: a non-negative id, a named
// capability map (processing rate, and any auxiliary capabilities the
// caller wants to carry), and a bandwidth vector to every peer VM.
// Self-bandwidth is always 0 regardless of what Bandwidth[ID] holds.
type VM struct {
	ID           int
	Capabilities map[string]float64
	Bandwidth    map[int]float64
}

// VMOption configures a VM at construction time.
type VMOption func(*VM)

// WithCapability sets a named capability value.
func WithCapability(name string, value float64) VMOption {
	return func(v *VM) { v.Capabilities[name] = value }
}

// WithProcessingCapacity is shorthand for the primary capability.
func WithProcessingCapacity(value float64) VMOption {
	return WithCapability(ProcessingCapacityKey, value)
}

// WithBandwidth sets the bandwidth from this VM to peer.
func WithBandwidth(peer int, bandwidth float64) VMOption {
	return func(v *VM) { v.Bandwidth[peer] = bandwidth }
}

// NewVM builds a VM, validating id, capability values, and bandwidth
// values. The primary processing-capacity capability must be positive
// if set; auxiliary capabilities follow the same rule.
func NewVM(id int, opts ...VMOption) (*VM, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: vm id %d", ErrInvalidID, id)
	}

	v := &VM{
		ID:           id,
		Capabilities: make(map[string]float64),
		Bandwidth:    make(map[int]float64),
	}
	for _, opt := range opts {
		opt(v)
	}
	for name, val := range v.Capabilities {
		if val <= 0 {
			return nil, fmt.Errorf("%w: vm %d capability %q = %v", ErrInvalidCapability, id, name, val)
		}
	}
	for peer, bw := range v.Bandwidth {
		if peer != id && bw < 0 {
			return nil, fmt.Errorf("%w: vm %d -> %d = %v", ErrInvalidBandwidth, id, peer, bw)
		}
	}
	v.Bandwidth[id] = 0 // self-bandwidth is always 0

	return v, nil
}

// ProcessingCapacity returns the VM's primary processing rate, or 0 if
// unset (callers treat 0 as "cannot execute", per the metric kernel's
// ET convention).
func (v *VM) ProcessingCapacity() float64 {
	return v.Capabilities[ProcessingCapacityKey]
}

// BandwidthTo returns the bandwidth from v to peer; 0 for peer == v.ID.
func (v *VM) BandwidthTo(peer int) float64 {
	if peer == v.ID {
		return 0
	}
	return v.Bandwidth[peer]
}
