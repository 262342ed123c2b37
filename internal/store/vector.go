package store

import (
	"context"
	"crypto/md5"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/civstack/civharvest/internal/normalize"
)

// IndexConfig configures the local vector index.
type IndexConfig struct {
	Path       string // directory for the persistent DB
	Collection string
	OllamaURL  string // eg. http://localhost:11434
	EmbedModel string // eg. nomic-embed-text

	// Embedding overrides the Ollama embedding func. Used in tests.
	Embedding chromem.EmbeddingFunc
}

// Index is a persistent chromem-go collection of chunk embeddings.
type Index struct {
	db   *chromem.DB
	coll *chromem.Collection
}

// SearchResult is one vector search hit.
type SearchResult struct {
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float32           `json:"similarity"`
}

// NewIndex opens (or creates) the persistent index at cfg.Path.
func NewIndex(cfg IndexConfig) (*Index, error) {
	if cfg.Collection == "" {
		cfg.Collection = "chunks"
	}
	embed := cfg.Embedding
	if embed == nil {
		embed = chromem.NewEmbeddingFuncOllama(cfg.EmbedModel, cfg.OllamaURL+"/api")
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	coll, err := db.GetOrCreateCollection(cfg.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", cfg.Collection, err)
	}
	return &Index{db: db, coll: coll}, nil
}

// AddTexts embeds and stores plain chunk texts. IDs are derived from the
// category and the text itself, so reindexing the same chunks overwrites
// in place instead of duplicating.
func (ix *Index) AddTexts(ctx context.Context, category string, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:       chunkID(category, t),
			Content:  t,
			Metadata: map[string]string{"category": category},
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := ix.coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index %s chunks: %w", category, err)
	}
	return nil
}

// AddRecords stores contextualized records, carrying their metadata into
// the index for filtered queries.
func (ix *Index) AddRecords(ctx context.Context, recs []normalize.Record) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(recs))
	for _, r := range recs {
		docs = append(docs, chromem.Document{
			ID:       r.DocID,
			Content:  r.Content,
			Metadata: r.Metadata,
		})
	}
	if err := ix.coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index records: %w", err)
	}
	return nil
}

// Query returns the topK most similar chunks. An empty index returns no
// results rather than an error.
func (ix *Index) Query(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	count := ix.coll.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}
	results, err := ix.coll.Query(ctx, text, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Count reports the number of indexed chunks.
func (ix *Index) Count() int {
	return ix.coll.Count()
}

func chunkID(category, text string) string {
	if len(text) > 100 {
		text = text[:100]
	}
	return fmt.Sprintf("%s-%x", category, md5.Sum([]byte(text)))
}
