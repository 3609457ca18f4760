package entities

// Address families and interface types accepted in requests. The parser
// itself is permissive and stores whatever the file says.
const (
	AddrFamilyInet  = "inet"
	AddrFamilyInet6 = "inet6"

	IfaceTypeDHCP   = "dhcp"
	IfaceTypeManual = "manual"
	IfaceTypeStatic = "static"
)

// AddressBlock holds the directives of one `iface <name> <family> <type>`
// stanza.
type AddressBlock struct {
	// Scalars maps a directive keyword to its raw value. Keys are unique;
	// a later occurrence overwrites an earlier one.
	Scalars map[string]string

	// Commands keeps up/down/pre-up/post-up/pre-down/post-down lines
	// verbatim, in the order they were seen. Duplicates are kept.
	Commands []string
}

// NewAddressBlock creates an empty address block.
func NewAddressBlock() *AddressBlock {
	return &AddressBlock{
		Scalars:  map[string]string{},
		Commands: []string{},
	}
}

// Equal reports structural equality: scalar keys and values regardless of
// order, commands as an order-sensitive sequence.
func (b *AddressBlock) Equal(other *AddressBlock) bool {
	if b == nil || other == nil {
		return b == nil && other == nil
	}
	if len(b.Scalars) != len(other.Scalars) || len(b.Commands) != len(other.Commands) {
		return false
	}
	for key, value := range b.Scalars {
		got, ok := other.Scalars[key]
		if !ok || got != value {
			return false
		}
	}
	for i, command := range b.Commands {
		if other.Commands[i] != command {
			return false
		}
	}
	return true
}

// InterfaceEntry is the recorded state of one named interface in the file.
type InterfaceEntry struct {
	// Auto records an `auto <name>` line.
	Auto bool

	// Hotplug records an `allow-hotplug <name>` line.
	Hotplug bool

	// IfaceType is kept once per interface; when the file declares several
	// family stanzas with different types, the last one parsed wins.
	IfaceType string

	// Families maps an address family identifier to its stanza block.
	Families map[string]*AddressBlock
}

// NewInterfaceEntry creates an entry with defaults: dhcp type, no families.
func NewInterfaceEntry() *InterfaceEntry {
	return &InterfaceEntry{
		IfaceType: IfaceTypeDHCP,
		Families:  map[string]*AddressBlock{},
	}
}

// NewEmptyInterfaceEntry creates the removal marker: an entry that
// serializes to nothing.
func NewEmptyInterfaceEntry() *InterfaceEntry {
	return &InterfaceEntry{}
}

// IsEmpty reports whether the entry carries no flags, no type and no
// families.
func (e *InterfaceEntry) IsEmpty() bool {
	return e != nil && !e.Auto && !e.Hotplug && e.IfaceType == "" && len(e.Families) == 0
}

// Equal reports deep structural equality with another entry.
func (e *InterfaceEntry) Equal(other *InterfaceEntry) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	if e.Auto != other.Auto || e.Hotplug != other.Hotplug || e.IfaceType != other.IfaceType {
		return false
	}
	if len(e.Families) != len(other.Families) {
		return false
	}
	for family, block := range e.Families {
		if !block.Equal(other.Families[family]) {
			return false
		}
	}
	return true
}

// Registry maps interface names to entries. An entry left empty marks the
// interface for removal; the serializer writes nothing for it.
type Registry map[string]*InterfaceEntry

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return Registry{}
}

// Ensure returns the entry for name, creating it with defaults when absent.
func (r Registry) Ensure(name string) *InterfaceEntry {
	entry, ok := r[name]
	if !ok {
		entry = NewInterfaceEntry()
		r[name] = entry
	}
	return entry
}

// ReconcileResult reports one reconciliation of the managed file. Registry
// and IgnoredLines are best-effort populated even when the run fails, so
// callers can always report what was recovered from the file.
type ReconcileResult struct {
	Changed      bool
	Registry     Registry
	IgnoredLines []string
}
