package store

import (
	"context"
	"math"
	"testing"

	"github.com/philippgille/chromem-go"

	"github.com/civstack/civharvest/internal/normalize"
)

// wordEmbedding maps text onto a normalized 4-dim vector from crude word
// counts, just enough for similarity ordering in tests.
func wordEmbedding(_ context.Context, text string) ([]float32, error) {
	keys := []string{"war", "faith", "gold", "science"}
	v := make([]float32, len(keys))
	for i, k := range keys {
		for j := 0; j+len(k) <= len(text); j++ {
			if text[j:j+len(k)] == k {
				v[i]++
			}
		}
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm == 0 {
		v[0] = 1
		return v, nil
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v, nil
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex(IndexConfig{
		Path:      t.TempDir(),
		Embedding: chromem.EmbeddingFunc(wordEmbedding),
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return ix
}

func TestIndexAddAndQuery(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	texts := []string{
		"Germany wages war with extra military policy slots and war production.",
		"Arabia spreads faith through worship buildings and faith purchases.",
	}
	if err := ix.AddTexts(ctx, "civilizations", texts); err != nil {
		t.Fatalf("AddTexts: %v", err)
	}
	if ix.Count() != 2 {
		t.Fatalf("count = %d, want 2", ix.Count())
	}

	results, err := ix.Query(ctx, "faith and religion strategy", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Content != texts[1] {
		t.Errorf("top hit = %q, want the faith chunk", results[0].Content)
	}
	if results[0].Metadata["category"] != "civilizations" {
		t.Errorf("metadata category = %q", results[0].Metadata["category"])
	}
}

func TestIndexReaddOverwrites(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	texts := []string{"gold from trade routes"}
	if err := ix.AddTexts(ctx, "bbg", texts); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := ix.AddTexts(ctx, "bbg", texts); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if ix.Count() != 1 {
		t.Errorf("count = %d, want 1 after reindexing the same chunk", ix.Count())
	}
}

func TestIndexQueryClampsTopK(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	if results, err := ix.Query(ctx, "anything", 5); err != nil || results != nil {
		t.Fatalf("empty index: results=%v err=%v", results, err)
	}

	ix.AddTexts(ctx, "c", []string{"science victory through campuses"})
	results, err := ix.Query(ctx, "science", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestIndexAddRecords(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	recs := []normalize.Record{
		{
			Content:  "Germany (Civ6)\n\nFrederick Barbarossa leads Germany toward war.",
			Metadata: map[string]string{"title": "Germany (Civ6)", "expansion": "base_game"},
			DocID:    "abc123",
		},
	}
	if err := ix.AddRecords(ctx, recs); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}

	results, err := ix.Query(ctx, "war", 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Metadata["title"] != "Germany (Civ6)" {
		t.Errorf("record metadata not carried: %#v", results)
	}
}
