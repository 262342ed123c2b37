package normalize

import (
	"strings"
	"testing"

	"github.com/civstack/civharvest/internal/wikidoc"
)

func docsDocument(lines ...string) wikidoc.Document {
	return wikidoc.Document{
		Title:    "BBM - Better Balanced Maps v1.1",
		Source:   "bbm_docs",
		Category: "game_mods",
		Sections: []wikidoc.Section{{
			Heading: "Full Documentation",
			Content: lines,
		}},
	}
}

func TestDocsEmitsTableOfContentsFirst(t *testing.T) {
	doc := docsDocument(
		"INSTALLATION",
		"download the archive and unpack it into the mods folder.",
		"Step 1.1 Enable the mod",
		"open the additional content menu, then restart the game.",
		"MAP SETTINGS",
		"every setting keeps its default value, unless noted below.",
	)
	chunks := Docs(doc)
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want toc plus three sections", len(chunks))
	}
	toc := chunks[0]
	if !strings.Contains(toc, "Section: Table of Contents") {
		t.Fatalf("first chunk is not the toc:\n%s", toc)
	}
	if !strings.Contains(toc, "This document covers the following topics:") {
		t.Errorf("toc missing intro line:\n%s", toc)
	}
	if !strings.Contains(toc, "• INSTALLATION") || !strings.Contains(toc, "• MAP SETTINGS") {
		t.Errorf("toc missing top-level entries:\n%s", toc)
	}
	if !strings.Contains(toc, "  - Step 1.1 Enable the mod") {
		t.Errorf("toc missing nested entry:\n%s", toc)
	}
}

func TestDocsSectionChunkNamesParent(t *testing.T) {
	doc := docsDocument(
		"INSTALLATION",
		"download the archive and unpack it into the mods folder.",
		"Step 1.1 Enable the mod",
		"open the additional content menu, then restart the game.",
	)
	chunks := Docs(doc)
	var sub string
	for _, c := range chunks {
		if strings.Contains(c, "Section: Step 1.1 Enable the mod") {
			sub = c
		}
	}
	if sub == "" {
		t.Fatalf("no chunk for the subsection in %d chunks", len(chunks))
	}
	if !strings.Contains(sub, "Parent Section: INSTALLATION") {
		t.Errorf("subsection chunk missing parent line:\n%s", sub)
	}
	if !strings.HasSuffix(sub, "Source: bbm_docs, game_mods, documentation") {
		t.Errorf("subsection chunk missing source line:\n%s", sub)
	}
}

func TestDocsSplitsLongSections(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("lorem ipsum filler words for the body text, repeated. ", 30)) // ~240 words
	doc := docsDocument(
		"MAP SETTINGS",
		para,
		para,
		para,
	)
	chunks := Docs(doc)
	var parts int
	for _, c := range chunks {
		if strings.Contains(c, "(Part ") {
			parts++
		}
	}
	if parts < 2 {
		t.Fatalf("long section should split into parts, got %d part chunks of %d", parts, len(chunks))
	}
}

func TestDocsDefaultsAndEmptyInput(t *testing.T) {
	if chunks := Docs(wikidoc.Document{}); chunks != nil {
		t.Fatalf("empty document produced %d chunks", len(chunks))
	}

	doc := wikidoc.Document{Sections: []wikidoc.Section{{
		Content: []string{"SETUP", "install the mod, then restart."},
	}}}
	chunks := Docs(doc)
	if len(chunks) == 0 {
		t.Fatal("untitled document should still normalize")
	}
	if !strings.Contains(chunks[0], "Title: BBM Documentation") {
		t.Errorf("missing default title:\n%s", chunks[0])
	}
	if !strings.Contains(chunks[0], "Source: bbm_docs, game_mods, documentation") {
		t.Errorf("missing default source:\n%s", chunks[0])
	}
}
