// Package inline renders a text span to HTML: escapes, entities, emphasis
// toggles, links, anchors and footnotes.
//
// The scanner is a single greedy pass. At each position a fixed, priority-
// ordered list of rules is tried and the first match wins; a position no rule
// matches is a grammar error.
package inline

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// GrammarError reports source text no scan rule could match.
type GrammarError struct {
	Text string // unmatched remainder of the span
}

func (e *GrammarError) Error() string {
	rest := e.Text
	if len(rest) > 40 {
		rest = rest[:40] + "..."
	}
	return fmt.Sprintf("cannot parse text at %q", rest)
}

// UnclosedSpanError reports a bold or italic toggle left open at span end.
type UnclosedSpanError struct {
	Markup string // "**" or "*"
}

func (e *UnclosedSpanError) Error() string {
	return fmt.Sprintf("unclosed %s span", e.Markup)
}

// Compiler renders text spans, sharing one footnote registry across every
// span of a document so numbering follows first-reference order.
type Compiler struct {
	Footnotes *Footnotes
}

func New(f *Footnotes) *Compiler {
	if f == nil {
		f = NewFootnotes()
	}
	return &Compiler{Footnotes: f}
}

// Compile renders one top-level span. Literal double-hyphens become the
// en-dash entity once, after scanning, so entity-form dashes in the source
// pass through untouched.
func (c *Compiler) Compile(text string) (string, error) {
	out, err := c.compileSpan(text, false)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, "--", "&ndash;"), nil
}

// entityPat matches a named or numeric character reference at the start of
// the remaining input.
var entityPat = regexp.MustCompile(`^&(?:#[0-9]+|[A-Za-z][A-Za-z0-9]*);`)

// span is the scan state for one compileSpan call.
type span struct {
	c          *Compiler
	src        string
	pos        int
	insideLink bool
	bold       bool
	italic     bool
	out        strings.Builder
}

// rules in priority order; first match wins. Assigned in init to avoid an
// initialization cycle through compileSpan.
var rules []func(*span) (bool, error)

func init() {
	rules = []func(*span) (bool, error){
		(*span).scanText,
		(*span).scanEscape,
		(*span).scanEntity,
		(*span).scanBold,
		(*span).scanItalic,
		(*span).scanBracket,
	}
}

func (c *Compiler) compileSpan(text string, insideLink bool) (string, error) {
	s := &span{c: c, src: text, insideLink: insideLink}
	for s.pos < len(s.src) {
		matched := false
		for _, rule := range rules {
			ok, err := rule(s)
			if err != nil {
				return "", err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return "", &GrammarError{Text: s.src[s.pos:]}
		}
	}
	if s.bold {
		return "", &UnclosedSpanError{Markup: "**"}
	}
	if s.italic {
		return "", &UnclosedSpanError{Markup: "*"}
	}
	return s.out.String(), nil
}

// scanText consumes a run of ordinary characters and emits it HTML-escaped.
// Backslash, star and ampersand always end the run; an opening bracket ends
// it only outside links, which is what makes nested brackets literal inside
// link labels.
func (s *span) scanText() (bool, error) {
	start := s.pos
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch == '\\' || ch == '*' || ch == '&' {
			break
		}
		if ch == '[' && !s.insideLink {
			break
		}
		s.pos++
	}
	if s.pos == start {
		return false, nil
	}
	s.out.WriteString(html.EscapeString(s.src[start:s.pos]))
	return true, nil
}

// scanEscape handles "\c": the escaped character is emitted as plain text.
// A trailing backslash with nothing after it matches no rule.
func (s *span) scanEscape() (bool, error) {
	if s.src[s.pos] != '\\' || s.pos+1 >= len(s.src) {
		return false, nil
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos+1:])
	s.out.WriteString(html.EscapeString(string(r)))
	s.pos += 1 + size
	return true, nil
}

// scanEntity passes a character reference ("&name;" or "&#digits;") through
// verbatim, unescaped.
func (s *span) scanEntity() (bool, error) {
	if s.src[s.pos] != '&' {
		return false, nil
	}
	m := entityPat.FindString(s.src[s.pos:])
	if m == "" {
		return false, nil
	}
	s.out.WriteString(m)
	s.pos += len(m)
	return true, nil
}

func (s *span) scanBold() (bool, error) {
	if !strings.HasPrefix(s.src[s.pos:], "**") {
		return false, nil
	}
	if s.bold {
		s.out.WriteString("</b>")
	} else {
		s.out.WriteString("<b>")
	}
	s.bold = !s.bold
	s.pos += 2
	return true, nil
}

func (s *span) scanItalic() (bool, error) {
	if s.src[s.pos] != '*' {
		return false, nil
	}
	if s.italic {
		s.out.WriteString("</i>")
	} else {
		s.out.WriteString("<i>")
	}
	s.italic = !s.italic
	s.pos++
	return true, nil
}

// scanBracket handles "[ref]" with an optional "(label)": links, anchors and
// footnotes. Suppressed inside link labels.
func (s *span) scanBracket() (bool, error) {
	if s.insideLink || s.src[s.pos] != '[' {
		return false, nil
	}
	end := strings.IndexByte(s.src[s.pos+1:], ']')
	if end < 0 {
		return false, nil
	}
	ref := s.src[s.pos+1 : s.pos+1+end]
	s.pos += end + 2

	if s.pos < len(s.src) && s.src[s.pos] == '(' {
		closing := strings.IndexByte(s.src[s.pos+1:], ')')
		if closing < 0 {
			return false, &GrammarError{Text: s.src[s.pos:]}
		}
		label := s.src[s.pos+1 : s.pos+1+closing]
		s.pos += closing + 2
		return true, s.emitLink(ref, label)
	}
	return true, s.emitAnchor(ref)
}

// emitAnchor renders a target-less bracket: "name:" is a named anchor,
// "name::" a footnote definition (number looked up, never allocated).
func (s *span) emitAnchor(ref string) error {
	switch {
	case strings.HasSuffix(ref, "::") && len(ref) > 2:
		name := ref[:len(ref)-2]
		s.out.WriteString(`<span class="footnote-number">`)
		s.out.WriteString(s.c.Footnotes.Lookup(name))
		s.out.WriteString(`</span><a id="fn-`)
		s.out.WriteString(html.EscapeString(name))
		s.out.WriteString(`"></a>`)
	case strings.HasSuffix(ref, ":") && len(ref) > 1:
		s.out.WriteString(`<a id="`)
		s.out.WriteString(html.EscapeString(ref[:len(ref)-1]))
		s.out.WriteString(`"></a>`)
	default:
		return &GrammarError{Text: "[" + ref + "]"}
	}
	return nil
}

// emitLink renders a bracket with a label: "name::" is a footnote reference
// (number allocated in first-reference order, label ignored), "name:" a
// same-document link, anything else an external link. The label is compiled
// recursively with the bracket rule suppressed.
func (s *span) emitLink(ref, label string) error {
	switch {
	case strings.HasSuffix(ref, "::") && len(ref) > 2:
		name := ref[:len(ref)-2]
		n := s.c.Footnotes.Allocate(name)
		s.out.WriteString(`<a class="footnote" href="#fn-`)
		s.out.WriteString(html.EscapeString(name))
		s.out.WriteString(`">`)
		s.out.WriteString(strconv.Itoa(n))
		s.out.WriteString(`</a>`)
		return nil
	case strings.HasSuffix(ref, ":") && len(ref) > 1:
		inner, err := s.c.compileSpan(label, true)
		if err != nil {
			return err
		}
		s.out.WriteString(`<a href="#`)
		s.out.WriteString(html.EscapeString(ref[:len(ref)-1]))
		s.out.WriteString(`">`)
		s.out.WriteString(inner)
		s.out.WriteString(`</a>`)
		return nil
	default:
		inner, err := s.c.compileSpan(label, true)
		if err != nil {
			return err
		}
		s.out.WriteString(`<a href="`)
		s.out.WriteString(html.EscapeString(ref))
		s.out.WriteString(`">`)
		s.out.WriteString(inner)
		s.out.WriteString(`</a>`)
		return nil
	}
}
