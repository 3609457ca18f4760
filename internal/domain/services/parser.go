package services

import (
	"strings"

	"ifupdown-agent/internal/domain/entities"
)

// directiveKeywords are the directive lines recognized inside a family block.
var directiveKeywords = map[string]bool{
	"address":         true,
	"netmask":         true,
	"gateway":         true,
	"dns-nameservers": true,
	"up":              true,
	"down":            true,
	"pre-up":          true,
	"post-up":         true,
	"pre-down":        true,
	"post-down":       true,
}

// InterfacesParser recovers a Registry from the raw text of an interfaces
// file.
type InterfacesParser struct{}

// NewInterfacesParser creates a new InterfacesParser.
func NewInterfacesParser() *InterfacesParser {
	return &InterfacesParser{}
}

// cursor is the parse state: the family block that directive lines attach
// to. A zero cursor means no block is open.
type cursor struct {
	currentName   string
	currentFamily string
}

func (c cursor) open() bool {
	return c.currentName != ""
}

// Parse scans text line by line and returns the recovered registry together
// with every line it could not classify. Malformed input never fails the
// parse; unknown constructs are collected so the caller can decide whether
// rewriting the file is safe.
func (p *InterfacesParser) Parse(text string) (entities.Registry, []string) {
	registry := entities.NewRegistry()
	ignored := []string{}
	cur := cursor{}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		// Comments are dropped and leave any open block open.
		if strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		keyword := tokens[0]

		switch {
		case (keyword == "auto" || keyword == "allow-hotplug") && len(tokens) >= 2:
			entry := registry.Ensure(tokens[1])
			if keyword == "auto" {
				entry.Auto = true
			} else {
				entry.Hotplug = true
			}
			// A flag line always closes the open block.
			cur = cursor{}

		case keyword == "iface" && len(tokens) >= 4:
			name, family := tokens[1], tokens[2]
			entry := registry.Ensure(name)
			entry.IfaceType = tokens[3]
			if _, ok := entry.Families[family]; !ok {
				entry.Families[family] = entities.NewAddressBlock()
			}
			cur = cursor{currentName: name, currentFamily: family}

		case directiveKeywords[keyword]:
			if !cur.open() {
				ignored = append(ignored, line)
				continue
			}
			block := registry[cur.currentName].Families[cur.currentFamily]
			if isCommandKeyword(keyword) {
				block.Commands = append(block.Commands, line)
			} else {
				block.Scalars[keyword] = strings.TrimSpace(strings.TrimPrefix(line, keyword))
			}

		default:
			ignored = append(ignored, line)
		}
	}

	return registry, ignored
}

// isCommandKeyword reports whether keyword names an up/down command
// directive rather than a scalar one.
func isCommandKeyword(keyword string) bool {
	return keyword == "up" || keyword == "down" ||
		strings.HasPrefix(keyword, "pre-") || strings.HasPrefix(keyword, "post-")
}
