// Package chunker splits propositional-writing source into block-level chunks.
//
// A chunk is a maximal run of source lines forming one block construct. The
// first line of a chunk decides its kind; continuation lines extend it until a
// terminator. Blank lines terminate every chunk kind; special (property) chunks
// additionally terminate on the next "##" line, so consecutive property lines
// form separate chunks.
package chunker

import (
	"bufio"
	"fmt"
	"strings"
)

// Kind classifies a finalized chunk.
type Kind int

const (
	KindSpecial Kind = iota // "##name value" property or marker line
	KindProposition
	KindList
	KindParagraph
	KindHeading // paragraph reclassified by an all-dashes underline
)

func (k Kind) String() string {
	switch k {
	case KindSpecial:
		return "special"
	case KindProposition:
		return "proposition"
	case KindList:
		return "list"
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	}
	return "unknown"
}

// ParagraphTags is the closed table of qualified-paragraph tags ("#:<tag>")
// and the HTML element each renders as.
var ParagraphTags = map[string]string{
	"quote": "blockquote",
}

// Chunk is a finalized block of source lines.
//
// Start markers are stripped from the first line for special, proposition and
// qualified-paragraph chunks. List chunks keep their "* " item markers so the
// translator can re-split items.
type Chunk struct {
	Kind     Kind
	Lines    []string
	Critique bool   // the chunk opened with a "?? " marker
	Tag      string // qualified-paragraph tag, empty otherwise
	Line     int    // 1-based source line where the chunk starts
}

// UnknownTagError reports a qualified-paragraph tag that is not in the
// recognized table.
type UnknownTagError struct {
	Tag  string
	Line int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("line %d: unknown paragraph tag %q", e.Line, e.Tag)
}

// Split chunks the whole source in a single pass.
func Split(src string) ([]Chunk, error) {
	var chunks []Chunk
	var open *Chunk

	flush := func() {
		if open == nil {
			return
		}
		finalize(open)
		chunks = append(chunks, *open)
		open = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		blank := strings.TrimSpace(line) == ""

		if open != nil {
			// A special chunk ends on the next property line or a blank;
			// every other kind ends only on a blank line.
			if open.Kind == KindSpecial && strings.HasPrefix(line, "##") {
				flush()
				// The terminating line starts the next chunk below.
			} else if blank {
				flush()
				continue
			} else {
				open.Lines = append(open.Lines, line)
				continue
			}
		}

		if blank {
			continue
		}

		c, err := classify(line, lineNo)
		if err != nil {
			return nil, err
		}
		open = c
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return chunks, nil
}

// classify opens a chunk from its first line. Tried in priority order:
// property, qualified paragraph, proposition, critique marker, list item,
// plain paragraph. The critique marker strips its prefix and reclassifies
// the remainder; it applies only to a chunk's first line.
func classify(line string, lineNo int) (*Chunk, error) {
	switch {
	case strings.HasPrefix(line, "##"):
		return &Chunk{Kind: KindSpecial, Lines: []string{line[2:]}, Line: lineNo}, nil

	case strings.HasPrefix(line, "#:"):
		tag, rest := splitMarker(line[2:])
		if _, ok := ParagraphTags[tag]; !ok {
			return nil, &UnknownTagError{Tag: tag, Line: lineNo}
		}
		return &Chunk{Kind: KindParagraph, Tag: tag, Lines: []string{rest}, Line: lineNo}, nil

	case strings.HasPrefix(line, "# "):
		return &Chunk{Kind: KindProposition, Lines: []string{line[2:]}, Line: lineNo}, nil

	case strings.HasPrefix(line, "?? "):
		c, err := classify(line[3:], lineNo)
		if err != nil {
			return nil, err
		}
		c.Critique = true
		return c, nil

	case strings.HasPrefix(line, "* "):
		return &Chunk{Kind: KindList, Lines: []string{line}, Line: lineNo}, nil

	default:
		return &Chunk{Kind: KindParagraph, Lines: []string{line}, Line: lineNo}, nil
	}
}

// finalize applies termination post-processing: a two-line plain paragraph
// whose second line is all dashes becomes a heading.
func finalize(c *Chunk) {
	if c.Kind == KindParagraph && c.Tag == "" && len(c.Lines) == 2 && allDashes(c.Lines[1]) {
		c.Kind = KindHeading
		c.Lines = c.Lines[:1]
	}
}

func allDashes(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			return false
		}
	}
	return true
}

// splitMarker splits "tag rest of line" on the first space.
func splitMarker(s string) (string, string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
