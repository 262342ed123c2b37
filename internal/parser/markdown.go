package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// MarkdownParser handles Markdown files using goldmark. Each heading opens
// a section; nesting is flattened since the normalizers work on flat
// heading/content pairs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (wikidoc.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return wikidoc.Document{}, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := wikidoc.Document{Title: baseTitle(filename)}
	var b sectionBuilder

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if node.Level == 1 && doc.Title == baseTitle(filename) && len(b.sections) == 0 && len(b.content) == 0 {
				// A leading h1 is the document title, not a section.
				doc.Title = title
				continue
			}
			b.startSection(title)
		default:
			b.addParagraph(markdownText(n, src))
		}
	}

	doc.Sections = b.build()
	return doc, nil
}

// markdownText gets the plain text content of a goldmark AST node.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	// Container blocks (lists, quotes) carry no lines of their own.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := markdownText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
