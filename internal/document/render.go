package document

import (
	"fmt"
	"strings"

	"github.com/propdown/propdown/internal/chunker"
	"github.com/propdown/propdown/internal/inline"
)

// Render compiles every leaf text field to HTML, in source order (intro,
// propositions, appendix), and memoizes the three fragments. Source order
// matters: footnote numbers are allocated by first reference, so fragments
// are never compiled on demand.
func (d *Document) Render() error {
	if d.rendered {
		return nil
	}
	ic := inline.New(d.footnotes)

	introHTML, err := renderBlocks(ic, d.intro)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("<ol class=\"propositions\">\n")
	for _, p := range d.propositions {
		heading, err := ic.Compile(p.heading)
		if err != nil {
			return err
		}
		b.WriteString("<li>\n<div class=\"proposition\">")
		b.WriteString(heading)
		b.WriteString("</div>\n")
		if len(p.items) > 0 {
			items, err := renderBlocks(ic, p.items)
			if err != nil {
				return err
			}
			b.WriteString(items)
			b.WriteString("\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>")

	appendixHTML, err := renderBlocks(ic, d.appendix)
	if err != nil {
		return err
	}

	d.introHTML = introHTML
	d.propositionsHTML = b.String()
	d.appendixHTML = appendixHTML
	d.rendered = true
	return nil
}

// renderBlocks renders a run of explanation items, one element per line.
func renderBlocks(ic *inline.Compiler, blocks []Component) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, c := range blocks {
		html, err := renderBlock(ic, c)
		if err != nil {
			return "", err
		}
		parts = append(parts, html)
	}
	return strings.Join(parts, "\n"), nil
}

func renderBlock(ic *inline.Compiler, c Component) (string, error) {
	switch v := c.(type) {
	case Paragraph:
		element := "p"
		if v.Tag != "" {
			element = chunker.ParagraphTags[v.Tag]
		}
		body, err := ic.Compile(v.Text)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<%s%s>%s</%s>", element, critiqueClass(v.Critique), body, element), nil

	case ItemList:
		var b strings.Builder
		fmt.Fprintf(&b, "<ul%s>\n", critiqueClass(v.Critique))
		for _, item := range v.Items {
			body, err := ic.Compile(item)
			if err != nil {
				return "", err
			}
			b.WriteString("<li>")
			b.WriteString(body)
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>")
		return b.String(), nil

	case Heading:
		body, err := ic.Compile(v.Text)
		if err != nil {
			return "", err
		}
		return "<h2>" + body + "</h2>", nil

	default:
		return "", fmt.Errorf("unrenderable component %T", c)
	}
}

func critiqueClass(critique bool) string {
	if critique {
		return ` class="critique"`
	}
	return ""
}
