package scraper

import (
	"strings"
	"testing"
)

const civ6PageHTML = `<!DOCTYPE html>
<html><body>
<h1 class="page-header__title">Greek (Civ6)</h1>
<aside class="portable-infobox">
  <div class="pi-item">
    <h3 class="pi-data-label">Leader</h3>
    <div class="pi-data-value">Pericles</div>
  </div>
  <div class="pi-item">
    <h3 class="pi-data-label">Unique Unit</h3>
    <div class="pi-data-value">Hoplite</div>
  </div>
</aside>
<div class="mw-parser-output">
  <p>The Greek civilization excels at culture and diplomacy, with strong acropolis placement. [1]</p>
  <h2>Strategy<span>[edit]</span></h2>
  <p>Plan your acropolis districts on hills adjacent to other districts for maximum adjacency.</p>
  <ul>
    <li>Extra wildcard policy slot regardless of government choice.</li>
    <li>short</li>
  </ul>
  <h3>Victory paths[edit]</h3>
  <p>Culture victory is the most natural fit for Greece given the acropolis bonuses it gets.</p>
</div>
</body></html>`

func TestExtractCiv6Page(t *testing.T) {
	doc, err := ExtractCiv6Page([]byte(civ6PageHTML), "https://example.org/wiki/Greek_(Civ6)", "civilizations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Greek (Civ6)" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Source != "civ6_wiki" || doc.Category != "civilizations" {
		t.Errorf("source/category = %q/%q", doc.Source, doc.Category)
	}

	if len(doc.Sections) != 3 {
		t.Fatalf("got %d sections, want 3: %+v", len(doc.Sections), doc.Sections)
	}
	intro := doc.Sections[0]
	if intro.Heading != "Introduction" {
		t.Errorf("first section heading = %q", intro.Heading)
	}
	if len(intro.Content) != 1 || strings.Contains(intro.Content[0], "[1]") {
		t.Errorf("citation marker not stripped: %+v", intro.Content)
	}

	strategy := doc.Sections[1]
	if strategy.Heading != "Strategy" {
		t.Errorf("strategy heading = %q (edit marker should be stripped)", strategy.Heading)
	}
	// Paragraph plus one list item; the short item is filtered out.
	if len(strategy.Content) != 2 {
		t.Errorf("strategy content = %+v", strategy.Content)
	}

	if doc.Sections[2].Heading != "Victory paths" {
		t.Errorf("h3 heading = %q", doc.Sections[2].Heading)
	}

	if got := doc.Metadata.Get("Leader"); got != "Pericles" {
		t.Errorf("metadata Leader = %q", got)
	}
	if len(doc.Metadata) != 2 || doc.Metadata[1].Key != "Unique Unit" {
		t.Errorf("metadata order lost: %+v", doc.Metadata)
	}
}

func TestExtractCiv6PageNoContent(t *testing.T) {
	html := `<html><body><h1 class="page-header__title">Empty</h1></body></html>`
	if _, err := ExtractCiv6Page([]byte(html), "u", "c"); err == nil {
		t.Fatal("expected an error for a page without a content container")
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  lots   of\n whitespace ", "lots of whitespace"},
		{"cited fact[1] here[23]", "cited fact here"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := cleanText(tc.in); got != tc.want {
			t.Errorf("cleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
