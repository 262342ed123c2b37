package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// TextParser handles plain text files. The whole file becomes one "Full
// Documentation" section with one content item per paragraph; the heading
// structure inside the text is recovered later by the docs normalizer.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (wikidoc.Document, error) {
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
		return wikidoc.Document{}, err
	}

	doc := wikidoc.Document{Title: baseTitle(filename)}
	if len(paragraphs) > 0 {
		doc.Sections = []wikidoc.Section{{
			Heading: "Full Documentation",
			Content: paragraphs,
		}}
	}
	return doc, nil
}
