package document

import (
	"fmt"

	"github.com/propdown/propdown/internal/inline"
)

// Section is the assembler's cursor. It only ever moves forward:
// intro, propositions, appendix.
type Section int

const (
	SectionIntro Section = iota
	SectionPropositions
	SectionAppendix
)

func (s Section) String() string {
	switch s {
	case SectionIntro:
		return "intro"
	case SectionPropositions:
		return "propositions"
	case SectionAppendix:
		return "appendix"
	}
	return "unknown"
}

// StructureError reports a component arriving in a section that does not
// admit it.
type StructureError struct {
	Msg string
}

func (e *StructureError) Error() string {
	return "document structure: " + e.Msg
}

// MissingPropertyError reports a required property absent at validation.
type MissingPropertyError struct {
	Name string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("required property %q is not set", e.Name)
}

// EmptyDocumentError reports a document with no propositions.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string {
	return "document has no propositions"
}

// requiredProperties must all be set, in-text or via overrides, before a
// document validates.
var requiredProperties = []string{"title", "author", "date"}

type propositionEntry struct {
	heading string
	items   []Component // Paragraph and ItemList explanation items
}

// Document is the assembled document: properties, section lists and the
// footnote registry. It is exclusively owned by the compilation that builds
// it; rendering happens once, in source order, via Render.
type Document struct {
	props   map[string]string
	section Section

	intro        []Component
	propositions []*propositionEntry
	appendix     []Component

	footnotes *inline.Footnotes

	rendered         bool
	introHTML        string
	propositionsHTML string
	appendixHTML     string
}

// New creates an empty document. Overrides pre-seed the property map;
// property tags encountered in the source overwrite them.
func New(overrides map[string]string) *Document {
	props := make(map[string]string, len(overrides))
	for k, v := range overrides {
		props[k] = v
	}
	return &Document{
		props:     props,
		footnotes: inline.NewFootnotes(),
	}
}

// Apply feeds one component through the assembler's transition table.
func (d *Document) Apply(c Component) error {
	switch v := c.(type) {
	case PropertyAssignment:
		d.props[v.Name] = v.Value

	case StartAppendix:
		switch d.section {
		case SectionIntro:
			return &StructureError{Msg: "appendix before any proposition"}
		case SectionAppendix:
			return &StructureError{Msg: "already in appendix"}
		}
		d.section = SectionAppendix

	case Proposition:
		if d.section == SectionAppendix {
			return &StructureError{Msg: "proposition after appendix"}
		}
		d.section = SectionPropositions
		d.propositions = append(d.propositions, &propositionEntry{heading: v.Text})

	case Paragraph, ItemList:
		switch d.section {
		case SectionIntro:
			d.intro = append(d.intro, c)
		case SectionPropositions:
			last := d.propositions[len(d.propositions)-1]
			last.items = append(last.items, c)
		case SectionAppendix:
			d.appendix = append(d.appendix, c)
		}

	case Heading:
		if d.section != SectionAppendix {
			return &StructureError{Msg: "heading outside appendix"}
		}
		d.appendix = append(d.appendix, c)

	default:
		return fmt.Errorf("unhandled component %T", c)
	}
	return nil
}

// Validate checks the structural invariants after all components have been
// applied: every required property set, at least one proposition.
func (d *Document) Validate() error {
	for _, name := range requiredProperties {
		if _, ok := d.props[name]; !ok {
			return &MissingPropertyError{Name: name}
		}
	}
	if d.section == SectionIntro {
		return &EmptyDocumentError{}
	}
	return nil
}

// Property returns a document property ("" if unset).
func (d *Document) Property(name string) string {
	return d.props[name]
}

func (d *Document) Title() string  { return d.props["title"] }
func (d *Document) Author() string { return d.props["author"] }
func (d *Document) Date() string   { return d.props["date"] }

// Section returns the cursor position, for tests and diagnostics.
func (d *Document) Section() Section {
	return d.section
}

// IntroHTML returns the rendered intro fragment. Render must have run.
func (d *Document) IntroHTML() string { return d.introHTML }

// PropositionsHTML returns the rendered propositions fragment.
func (d *Document) PropositionsHTML() string { return d.propositionsHTML }

// AppendixHTML returns the rendered appendix fragment, "" if unused.
func (d *Document) AppendixHTML() string { return d.appendixHTML }
