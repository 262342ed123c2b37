package normalize

import (
	"fmt"
	"strings"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/headings"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// docsSplitWords is the per-chunk word budget for long documentation
// sections. Documentation paragraphs run longer than wiki items, so the
// budget is wider than the wiki default.
const docsSplitWords = 400

// Docs normalizes long-form mod documentation. The raw document is flat
// text; a heading heuristic recovers the section hierarchy, then each
// section becomes a chunk that names its parent so the hierarchy survives
// retrieval. A table-of-contents chunk is emitted first.
func Docs(doc wikidoc.Document) []string {
	title := doc.Title
	if title == "" {
		title = "BBM Documentation"
	}
	source := doc.Source
	if source == "" {
		source = "bbm_docs"
	}
	category := doc.Category
	if category == "" {
		category = "game_mods"
	}

	var lines []string
	for _, sec := range doc.Sections {
		lines = append(lines, sec.Content...)
	}
	fullText := strings.Join(lines, "\n")
	if strings.TrimSpace(fullText) == "" {
		return nil
	}

	nodes := headings.Parse(fullText, headings.DefaultHeuristics())
	if len(nodes) == 0 {
		return nil
	}

	srcLine := fmt.Sprintf("Source: %s, %s, documentation", source, category)

	out := []string{tocChunk(title, nodes, srcLine)}

	for _, node := range nodes {
		if node.Content == "" {
			continue
		}
		parent := node.Parent
		if parent == node.Title {
			parent = ""
		}
		if chunker.WordCount(node.Content) > docsSplitWords {
			paras := strings.Split(node.Content, "\n")
			parts := chunker.SplitItemsJoined(paras, docsSplitWords, "\n")
			for i, part := range parts {
				section := node.Title
				if len(parts) > 1 {
					section = fmt.Sprintf("%s (Part %d/%d)", node.Title, i+1, len(parts))
				}
				out = append(out, docChunk(title, section, parent, part, srcLine))
			}
		} else {
			out = append(out, docChunk(title, node.Title, parent, node.Content, srcLine))
		}
	}
	return out
}

// tocChunk lists top-level sections as bullets with their direct
// subsections indented beneath them.
func tocChunk(title string, nodes []headings.Node, srcLine string) string {
	lines := []string{
		"Title: " + title,
		"Section: Table of Contents",
		"Main Content:",
		"This document covers the following topics:",
	}
	currentParent := ""
	for _, node := range nodes {
		switch {
		case node.Level == 1:
			lines = append(lines, "\n• "+node.Title)
			currentParent = node.Title
		case node.Level == 2 && node.Parent == currentParent:
			lines = append(lines, "  - "+node.Title)
		}
	}
	lines = append(lines, "\n"+srcLine)
	return strings.Join(lines, "\n")
}

func docChunk(title, section, parent, content, srcLine string) string {
	lines := []string{
		"Title: " + title,
		"Section: " + section,
	}
	if parent != "" {
		lines = append(lines, "Parent Section: "+parent)
	}
	lines = append(lines, "Main Content:", content, srcLine)
	return strings.Join(lines, "\n")
}
