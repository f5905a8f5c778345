package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter handles plain text files. Every blank-line-separated
// paragraph becomes an explanation paragraph under one claim drawn from the
// first paragraph.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	var w sourceWriter
	w.property("title", baseTitle(filename))

	if len(paragraphs) == 0 {
		return w.source(), nil
	}

	// The first paragraph's first line reads best as the headline claim.
	first := strings.SplitN(paragraphs[0], "\n", 2)
	w.proposition(first[0])
	if len(first) > 1 {
		w.paragraph(first[1])
	}
	for _, para := range paragraphs[1:] {
		w.paragraph(para)
	}

	return w.source(), nil
}
