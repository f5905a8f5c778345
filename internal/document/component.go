// Package document turns chunks into typed components and assembles them,
// in arrival order, into a validated document with rendered HTML fragments.
package document

import (
	"strings"

	"github.com/propdown/propdown/internal/chunker"
)

// Component is one typed document component, produced from one finalized
// chunk. The concrete types are PropertyAssignment, StartAppendix,
// Proposition, Paragraph, ItemList and Heading.
type Component interface {
	component()
}

// PropertyAssignment sets a named document property.
type PropertyAssignment struct {
	Name  string
	Value string
}

// StartAppendix marks the transition into the appendix section.
type StartAppendix struct{}

// Proposition is a headline claim.
type Proposition struct {
	Text string
}

// Paragraph is an explanation paragraph, optionally critique-flagged or
// carrying a qualified tag.
type Paragraph struct {
	Text     string
	Critique bool
	Tag      string
}

// ItemList is an unordered list of text items.
type ItemList struct {
	Items    []string
	Critique bool
}

// Heading is an appendix heading.
type Heading struct {
	Text string
}

func (PropertyAssignment) component() {}
func (StartAppendix) component()      {}
func (Proposition) component()        {}
func (Paragraph) component()          {}
func (ItemList) component()           {}
func (Heading) component()            {}

// Translate converts one finalized chunk into its component.
func Translate(c chunker.Chunk) Component {
	switch c.Kind {
	case chunker.KindSpecial:
		name, value := splitProperty(c.Lines[0])
		if name == "appendix" {
			return StartAppendix{}
		}
		if len(c.Lines) > 1 {
			value = strings.Join(append([]string{value}, c.Lines[1:]...), "\n")
		}
		return PropertyAssignment{Name: name, Value: value}

	case chunker.KindProposition:
		return Proposition{Text: strings.Join(c.Lines, "\n")}

	case chunker.KindList:
		return ItemList{Items: splitItems(c.Lines), Critique: c.Critique}

	case chunker.KindHeading:
		return Heading{Text: c.Lines[0]}

	default:
		return Paragraph{Text: strings.Join(c.Lines, "\n"), Critique: c.Critique, Tag: c.Tag}
	}
}

// splitProperty splits "name value" on the first space. The chunker has
// already stripped the "##" marker.
func splitProperty(s string) (string, string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// splitItems re-splits a list chunk's lines on the "* " item marker. An
// item's continuation lines are individually trimmed and newline-joined.
func splitItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		if strings.HasPrefix(line, "* ") {
			items = append(items, line[2:])
		} else if len(items) > 0 {
			items[len(items)-1] += "\n" + strings.TrimSpace(line)
		} else {
			items = append(items, strings.TrimSpace(line))
		}
	}
	return items
}
