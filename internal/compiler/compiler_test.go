package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/propdown/propdown/internal/document"
	"github.com/propdown/propdown/internal/inline"
	"golang.org/x/net/html"
)

const sample = `##title Example
##author A. Person
##date 1 Jan 2024

# First proposition
Some **bold** and *italic* text.
`

func TestCompile_EndToEnd(t *testing.T) {
	doc, err := Compile(sample, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title() != "Example" {
		t.Errorf("expected title %q, got %q", "Example", doc.Title())
	}
	if doc.Author() != "A. Person" {
		t.Errorf("expected author %q, got %q", "A. Person", doc.Author())
	}
	if doc.Date() != "1 Jan 2024" {
		t.Errorf("expected date %q, got %q", "1 Jan 2024", doc.Date())
	}

	props := doc.PropositionsHTML()
	for _, want := range []string{
		`<div class="proposition">First proposition</div>`,
		"<p>Some <b>bold</b> and <i>italic</i> text.</p>",
	} {
		if !strings.Contains(props, want) {
			t.Errorf("propositions fragment missing %q in:\n%s", want, props)
		}
	}
	if doc.AppendixHTML() != "" {
		t.Errorf("unused appendix must render empty, got %q", doc.AppendixHTML())
	}
}

func TestCompile_FragmentIsWellFormedHTML(t *testing.T) {
	doc, err := Compile(sample, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Parse the fragment and check the element structure survives a real
	// HTML parser.
	root, err := html.Parse(strings.NewReader(doc.PropositionsHTML()))
	if err != nil {
		t.Fatalf("fragment does not parse: %v", err)
	}
	var ol, li, div int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "ol":
				ol++
			case "li":
				li++
			case "div":
				div++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if ol != 1 || li != 1 || div != 1 {
		t.Errorf("expected 1 ol / 1 li / 1 div, got %d/%d/%d", ol, li, div)
	}
}

func TestCompile_OverridesCoverMissingProperties(t *testing.T) {
	src := "# Claim\n"
	if _, err := Compile(src, nil); err == nil {
		t.Fatal("expected missing property error")
	}

	doc, err := Compile(src, map[string]string{
		"title": "T", "author": "A", "date": "D",
	})
	if err != nil {
		t.Fatalf("unexpected error with overrides: %v", err)
	}
	if doc.Title() != "T" {
		t.Errorf("expected override title, got %q", doc.Title())
	}
}

func TestCompile_AppendixPlacement(t *testing.T) {
	overrides := map[string]string{"title": "T", "author": "A", "date": "D"}

	_, err := Compile("##appendix\n", overrides)
	var se *document.StructureError
	if !errors.As(err, &se) {
		t.Fatalf("appendix before proposition: expected StructureError, got %v", err)
	}

	doc, err := Compile("# Claim\n\n##appendix\n\nAppendix text\n", overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.AppendixHTML() != "<p>Appendix text</p>" {
		t.Errorf("unexpected appendix fragment %q", doc.AppendixHTML())
	}

	_, err = Compile("# Claim\n\n##appendix\n\n# Late claim\n", overrides)
	if !errors.As(err, &se) {
		t.Fatalf("proposition after appendix: expected StructureError, got %v", err)
	}
}

func TestCompile_FootnoteNumbersFollowReferences(t *testing.T) {
	src := `##title T
##author A
##date D

# Claim
Uses x[x::](note) before y[y::](note).

##appendix

[y::] y is defined first
[x::] but x was referenced first
`
	doc, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app := doc.AppendixHTML()
	if !strings.Contains(app, `<span class="footnote-number">1</span><a id="fn-x"></a>`) {
		t.Errorf("x should be footnote 1:\n%s", app)
	}
	if !strings.Contains(app, `<span class="footnote-number">2</span><a id="fn-y"></a>`) {
		t.Errorf("y should be footnote 2:\n%s", app)
	}
}

func TestCompile_InlineErrorsAbort(t *testing.T) {
	overrides := map[string]string{"title": "T", "author": "A", "date": "D"}

	_, err := Compile("# Claim\n\n*unterminated\n", overrides)
	var ue *inline.UnclosedSpanError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnclosedSpanError, got %v", err)
	}

	_, err = Compile("# Claim\n\nbare & ampersand\n", overrides)
	var ge *inline.GrammarError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GrammarError, got %v", err)
	}
}

func TestCompile_IntroAndHeading(t *testing.T) {
	src := `##title T
##author A
##date D

Intro paragraph before any claim.

# Claim

##appendix

Further Reading
---------------

* item one
* item two
`
	doc, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.IntroHTML() != "<p>Intro paragraph before any claim.</p>" {
		t.Errorf("unexpected intro %q", doc.IntroHTML())
	}
	app := doc.AppendixHTML()
	if !strings.Contains(app, "<h2>Further Reading</h2>") {
		t.Errorf("appendix missing heading:\n%s", app)
	}
	if !strings.Contains(app, "<li>item one</li>") {
		t.Errorf("appendix missing list:\n%s", app)
	}
}
