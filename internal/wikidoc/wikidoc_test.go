package wikidoc

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetadataPreservesOrder(t *testing.T) {
	raw := `{"Leader": "Trajan", "Capital": "Rome", "Ability": "All Roads Lead to Rome"}`

	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(meta) != 3 {
		t.Fatalf("got %d fields, want 3", len(meta))
	}
	wantKeys := []string{"Leader", "Capital", "Ability"}
	for i, k := range wantKeys {
		if meta[i].Key != k {
			t.Errorf("field %d = %q, want %q", i, meta[i].Key, k)
		}
	}

	out, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Round-trip must keep insertion order.
	if string(out) != `{"Leader":"Trajan","Capital":"Rome","Ability":"All Roads Lead to Rome"}` {
		t.Errorf("round-trip reordered fields: %s", out)
	}
}

func TestMetadataNonStringValues(t *testing.T) {
	raw := `{"Population": 12, "Coastal": true}`

	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := meta.Get("Population"); got != "12" {
		t.Errorf("Population = %q, want %q", got, "12")
	}
	if got := meta.Get("Coastal"); got != "true" {
		t.Errorf("Coastal = %q, want %q", got, "true")
	}
}

func TestMetadataGetSet(t *testing.T) {
	var meta Metadata
	meta.Set("channel", "PotatoMcWhiskey")
	meta.Set("video_id", "abc123")
	meta.Set("channel", "Herson")

	if got := meta.Get("channel"); got != "Herson" {
		t.Errorf("Get(channel) = %q after overwrite", got)
	}
	if len(meta) != 2 {
		t.Errorf("Set should overwrite in place, got %d fields", len(meta))
	}
	if got := meta.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}

func TestCleanHeading(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Strategy[]", "Strategy"},
		{"  Trivia[]  ", "Trivia"},
		{"Introduction", "Introduction"},
	}
	for _, tc := range cases {
		if got := CleanHeading(tc.in); got != tc.want {
			t.Errorf("CleanHeading(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeGroupedMap(t *testing.T) {
	raw := `{
		"civilizations": [{"title": "Rome (Civ6)", "sections": [{"heading": "Introduction", "content": ["Rome."]}]}],
		"leaders": [{"title": "Trajan (Civ6)"}]
	}`
	grouped, err := DecodeGrouped(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeGrouped: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("got %d categories, want 2", len(grouped))
	}
	civs := grouped["civilizations"]
	if len(civs) != 1 || civs[0].Title != "Rome (Civ6)" {
		t.Fatalf("unexpected civilizations group: %+v", civs)
	}
	if civs[0].Sections[0].Content[0] != "Rome." {
		t.Errorf("section content lost: %+v", civs[0].Sections)
	}
}

func TestDecodeGroupedBareList(t *testing.T) {
	raw := `[{"title": "Rome (Civ6)"}, {"title": "Greece (Civ6)"}]`
	grouped, err := DecodeGrouped(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeGrouped: %v", err)
	}
	docs := grouped[""]
	if len(docs) != 2 {
		t.Fatalf("bare list should land under the empty category, got %+v", grouped)
	}
}

func TestDecodeDocumentsFlattens(t *testing.T) {
	raw := `{"a": [{"title": "One"}], "b": [{"title": "Two"}, {"title": "Three"}]}`
	docs, err := DecodeDocuments(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeDocuments: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
}

func TestDecodeGroupedRejectsGarbage(t *testing.T) {
	if _, err := DecodeGrouped(strings.NewReader(`"not a document set"`)); err == nil {
		t.Fatal("expected an error for a non-object payload")
	}
}
