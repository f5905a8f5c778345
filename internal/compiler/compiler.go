// Package compiler runs the full pipeline: chunk, translate, assemble,
// validate, render. One linear, synchronous pass per document.
package compiler

import (
	"github.com/propdown/propdown/internal/chunker"
	"github.com/propdown/propdown/internal/document"
)

// Compile builds a document from propositional-writing source. Overrides
// pre-seed properties (title, author, date, ...); property tags in the
// source overwrite them. Any error aborts the compilation with no partial
// output.
func Compile(src string, overrides map[string]string) (*document.Document, error) {
	chunks, err := chunker.Split(src)
	if err != nil {
		return nil, err
	}

	doc := document.New(overrides)
	for _, c := range chunks {
		if err := doc.Apply(document.Translate(c)); err != nil {
			return nil, err
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Render(); err != nil {
		return nil, err
	}
	return doc, nil
}
