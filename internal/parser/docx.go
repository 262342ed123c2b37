package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// DOCXParser handles .docx files. Heading-styled paragraphs open sections.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (wikidoc.Document, error) {
	// go-docx needs a ReadSeeker plus size, so spool to disk.
	tmp, err := os.CreateTemp("", "civharvest-docx-*.docx")
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return wikidoc.Document{}, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return wikidoc.Document{}, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("parse docx: %w", err)
	}

	doc := wikidoc.Document{Title: baseTitle(filename)}
	var b sectionBuilder

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if docxHeadingLevel(para) > 0 {
			b.startSection(text)
		} else {
			b.addParagraph(text)
		}
	}

	doc.Sections = b.build()
	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
