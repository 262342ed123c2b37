package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// PDFParser handles PDF files. It tries the Go library first, then falls
// back to pdftotext when enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (wikidoc.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker plus size, so spool to disk.
	tmp, err := os.CreateTemp("", "civharvest-pdf-*.pdf")
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return wikidoc.Document{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := wikidoc.Document{Title: baseTitle(filename)}
	for i, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		doc.Sections = append(doc.Sections, wikidoc.Section{
			Heading: fmt.Sprintf("Page %d", i+1),
			Content: splitParagraphs(page),
		})
	}
	return doc, nil
}

func splitParagraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			out = append(out, para)
		}
	}
	return out
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
