package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown files using goldmark. The first h1
// becomes the title property, every other heading a headline claim, body
// blocks explanation paragraphs and lists.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	// First h1 is the document title; it does not become a claim.
	title := baseTitle(filename)
	var titleNode ast.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = string(h.Text(src))
			titleNode = n
			break
		}
	}

	var w sourceWriter
	w.property("title", title)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n == titleNode {
			continue
		}
		switch n.(type) {
		case *ast.Heading:
			w.proposition(string(n.Text(src)))

		case *ast.List:
			var items []string
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if t := extractText(item, src); t != "" {
					items = append(items, t)
				}
			}
			w.list(items)

		default:
			if t := extractText(n, src); t != "" {
				w.paragraph(t)
			}
		}
	}

	return w.source(), nil
}

// extractText gets the plain text content of a goldmark AST node. Inline
// children carry the text once inline parsing has run; blocks without inline
// children (code blocks) fall back to their raw lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if !n.HasChildren() && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
