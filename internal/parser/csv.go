package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// CSVParser handles CSV files (spreadsheet exports of balance tables).
// Rows are grouped into batches so each section stays retrievable.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (wikidoc.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	// Balance-table exports frequently have ragged rows.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("parse csv: %w", err)
	}

	doc := wikidoc.Document{Title: baseTitle(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	rows := records[1:]

	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))

		content := make([]string, 0, end-i)
		for _, row := range rows[i:end] {
			var cells []string
			for j, cell := range row {
				if j < len(headers) {
					cells = append(cells, headers[j]+": "+cell)
				} else {
					cells = append(cells, cell)
				}
			}
			content = append(content, strings.Join(cells, ", "))
		}

		doc.Sections = append(doc.Sections, wikidoc.Section{
			// 1-indexed row numbers, counting the header row.
			Heading: fmt.Sprintf("Rows %d-%d", i+2, end+1),
			Content: content,
		})
	}

	return doc, nil
}
