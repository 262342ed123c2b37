package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// minSectionChars drops sections too thin to carry useful context.
const minSectionChars = 100

// Record is a vector-store-ready chunk with flat string metadata.
type Record struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	DocID    string            `json:"doc_id"`
}

// ContextualProcessor produces character-bounded overlapping chunks that
// prepend the page title and section heading to the text, so each chunk is
// self-describing when retrieved in isolation.
type ContextualProcessor struct {
	cfg chunker.CharConfig
}

// NewContextualProcessor returns a processor with the given chunking
// bounds. A zero config gets the defaults.
func NewContextualProcessor(cfg chunker.CharConfig) *ContextualProcessor {
	if cfg.ChunkSize == 0 {
		cfg = chunker.DefaultCharConfig()
	}
	return &ContextualProcessor{cfg: cfg}
}

// ProcessPage converts one page into records, one set of chunks per
// section. Sections shorter than minSectionChars are skipped.
func (p *ContextualProcessor) ProcessPage(doc wikidoc.Document) []Record {
	source := doc.Source
	if source == "" {
		source = "civ6_wiki"
	}

	var records []Record
	for _, sec := range doc.Sections {
		text := strings.Join(sec.Content, " ")
		if len(text) < minSectionChars {
			continue
		}

		contextualized := doc.Title
		if sec.Heading != "" && sec.Heading != "Introduction" {
			contextualized += " - " + sec.Heading
		}
		contextualized += "\n\n" + text

		chunks := chunker.ChunkChars(contextualized, p.cfg)
		for i, chunk := range chunks {
			meta := map[string]string{
				"source":       source,
				"category":     doc.Category,
				"title":        doc.Title,
				"section":      sec.Heading,
				"url":          doc.URL,
				"chunk_index":  strconv.Itoa(i),
				"total_chunks": strconv.Itoa(len(chunks)),
				"expansion":    detectExpansion(text),
			}
			for _, f := range doc.Metadata {
				if f.Key != "" {
					meta[f.Key] = f.Value
				}
			}
			records = append(records, Record{
				Content:  chunk,
				Metadata: meta,
				DocID:    docID(chunk, doc.Title, doc.Category),
			})
		}
	}
	return records
}

// ProcessAll flattens a category-grouped page map into one record list.
func (p *ContextualProcessor) ProcessAll(grouped map[string][]wikidoc.Document) []Record {
	var records []Record
	for _, pages := range grouped {
		for _, page := range pages {
			records = append(records, p.ProcessPage(page)...)
		}
	}
	return records
}

// detectExpansion tags which game edition a section talks about, by the
// expansion names and their common abbreviations.
func detectExpansion(text string) string {
	switch {
	case strings.Contains(text, "Rise and Fall") || strings.Contains(text, "R&F"):
		return "rise_and_fall"
	case strings.Contains(text, "Gathering Storm") || strings.Contains(text, "GS"):
		return "gathering_storm"
	default:
		return "base_game"
	}
}

// docID derives a stable identifier from the chunk prefix plus the page
// title and category. md5 is an identifier here, not a security boundary.
func docID(content, title, category string) string {
	prefix := content
	if len(prefix) > 100 {
		prefix = prefix[:100]
	}
	sum := md5.Sum(fmt.Appendf(nil, "%s_%s_%s", prefix, title, category))
	return hex.EncodeToString(sum[:])
}
