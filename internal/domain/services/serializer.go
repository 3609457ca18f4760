package services

import (
	"sort"
	"strings"

	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/entities"
)

// updownKey is the virtual directive key under which command lines sort
// relative to the scalar keys of a block.
const updownKey = "updown"

// InterfacesSerializer renders a registry back into the file grammar.
type InterfacesSerializer struct{}

// NewInterfacesSerializer creates a new InterfacesSerializer.
func NewInterfacesSerializer() *InterfacesSerializer {
	return &InterfacesSerializer{}
}

// Serialize renders the whole registry deterministically: interface names
// descending, families ascending, directive keys ascending, commands in
// stored order. The layout of the source file never influences the output,
// so re-serializing a parse of this output reproduces it exactly.
func (s *InterfacesSerializer) Serialize(registry entities.Registry) string {
	var b strings.Builder
	b.WriteString(constants.ManagedFileHeader)
	b.WriteByte('\n')

	for _, name := range sortedNamesDescending(registry) {
		entry := registry[name]
		// Entry keys are emitted in descending order of the internal key
		// names; the interface type is folded into each iface line instead
		// of standing alone.
		if entry.Auto {
			b.WriteString("auto " + name + "\n")
		}
		if entry.Hotplug {
			b.WriteString("allow-hotplug " + name + "\n")
		}
		for _, family := range sortedFamiliesAscending(entry) {
			writeFamilyBlock(&b, name, family, entry)
		}
	}

	return b.String()
}

// writeFamilyBlock emits one iface stanza followed by a separating blank
// line.
func writeFamilyBlock(b *strings.Builder, name, family string, entry *entities.InterfaceEntry) {
	block := entry.Families[family]

	b.WriteString("iface " + name + " " + family + " " + entry.IfaceType + "\n")
	for _, key := range sortedDirectiveKeysAscending(block) {
		if key == updownKey {
			for _, command := range block.Commands {
				b.WriteString(constants.DirectiveIndent + command + "\n")
			}
			continue
		}
		b.WriteString(constants.DirectiveIndent + key + " " + block.Scalars[key] + "\n")
	}
	b.WriteByte('\n')
}

// sortedNamesDescending orders interface names for stanza emission.
func sortedNamesDescending(registry entities.Registry) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names
}

// sortedFamiliesAscending orders the address families of one entry.
func sortedFamiliesAscending(entry *entities.InterfaceEntry) []string {
	families := make([]string, 0, len(entry.Families))
	for family := range entry.Families {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// sortedDirectiveKeysAscending orders the scalar keys of a block together
// with the updown slot.
func sortedDirectiveKeysAscending(block *entities.AddressBlock) []string {
	keys := make([]string, 0, len(block.Scalars)+1)
	for key := range block.Scalars {
		keys = append(keys, key)
	}
	keys = append(keys, updownKey)
	sort.Strings(keys)
	return keys
}
