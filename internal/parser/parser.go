// Package parser loads long-form documentation files (mod manuals, patch
// notes) into the intermediate wikidoc form so they can flow through the
// same normalizers as scraped pages.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// Parser converts raw file bytes into an intermediate document.
type Parser interface {
	Parse(r io.Reader, filename string) (wikidoc.Document, error)
}

// SupportedExtensions lists file extensions the loaders can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// baseTitle strips the directory and extension from a filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sectionBuilder accumulates heading/paragraph pairs into flat sections.
// Text before the first heading lands in an "Introduction" section.
type sectionBuilder struct {
	sections []wikidoc.Section
	heading  string
	content  []string
}

func (b *sectionBuilder) startSection(heading string) {
	b.flush()
	b.heading = heading
}

func (b *sectionBuilder) addParagraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.content = append(b.content, text)
}

func (b *sectionBuilder) flush() {
	if len(b.content) > 0 {
		heading := b.heading
		if heading == "" {
			heading = "Introduction"
		}
		b.sections = append(b.sections, wikidoc.Section{Heading: heading, Content: b.content})
	}
	b.heading = ""
	b.content = nil
}

func (b *sectionBuilder) build() []wikidoc.Section {
	b.flush()
	return b.sections
}
