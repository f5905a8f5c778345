// Package render combines a compiled document's HTML fragments with a page
// template into a self-contained HTML page.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/propdown/propdown/internal/document"
)

//go:embed page.html
var defaultPage string

// pageData is what templates see. The fragments are pre-rendered, trusted
// HTML from the compiler.
type pageData struct {
	Title        string
	Author       string
	Date         string
	Intro        template.HTML
	Propositions template.HTML
	Appendix     template.HTML
}

// Page renders doc with the template at templatePath, or the embedded
// default when templatePath is empty.
func Page(doc *document.Document, templatePath string) (string, error) {
	src := defaultPage
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		src = string(data)
	}

	tmpl, err := template.New("page").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var b strings.Builder
	err = tmpl.Execute(&b, pageData{
		Title:        doc.Title(),
		Author:       doc.Author(),
		Date:         doc.Date(),
		Intro:        template.HTML(doc.IntroHTML()),
		Propositions: template.HTML(doc.PropositionsHTML()),
		Appendix:     template.HTML(doc.AppendixHTML()),
	})
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return b.String(), nil
}
