// Package store persists harvested documents and normalized chunks as JSON
// and maintains a local vector index over the chunk text.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// Record is the persisted form of one chunk. All provenance is serialized
// into the text itself, so the text field is the whole payload.
type Record struct {
	Text string `json:"text"`
}

// Store reads raw document dumps and writes processed chunk files under a
// data directory: raw/<source>/... and processed/<group>/<name>.json.
type Store struct {
	rawDir       string
	processedDir string
}

func New(rawDir, processedDir string) *Store {
	return &Store{rawDir: rawDir, processedDir: processedDir}
}

// LoadDocuments reads a raw dump (relative to the raw dir) and returns its
// documents grouped by category. Both grouped maps and bare document lists
// are accepted.
func (s *Store) LoadDocuments(relPath string) (map[string][]wikidoc.Document, error) {
	path := filepath.Join(s.rawDir, relPath)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read raw dump: %w", err)
	}
	defer f.Close()
	grouped, err := wikidoc.DecodeGrouped(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", relPath, err)
	}
	return grouped, nil
}

// WriteDocuments saves scraped documents grouped by category, creating
// parent directories as needed.
func (s *Store) WriteDocuments(relPath string, grouped map[string][]wikidoc.Document) error {
	path := filepath.Join(s.rawDir, relPath)
	return writeJSON(path, grouped)
}

// WriteChunks saves normalized chunk texts to processed/<group>/<name>.json
// as an array of {"text": ...} records.
func (s *Store) WriteChunks(group, name string, texts []string) error {
	records := make([]Record, len(texts))
	for i, t := range texts {
		records[i] = Record{Text: t}
	}
	path := filepath.Join(s.processedDir, group, name+".json")
	return writeJSON(path, records)
}

// ReadChunks loads a processed chunk file back as plain texts.
func (s *Store) ReadChunks(group, name string) ([]string, error) {
	path := filepath.Join(s.processedDir, group, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", group, name, err)
	}
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	return texts, nil
}

// ChunkFiles lists the processed chunk files as group/name pairs.
func (s *Store) ChunkFiles() ([][2]string, error) {
	var files [][2]string
	groups, err := os.ReadDir(s.processedDir)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("list processed dir: %w", err)
	}
	for _, g := range groups {
		if !g.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.processedDir, g.Name()))
		if err != nil {
			return nil, fmt.Errorf("list group %s: %w", g.Name(), err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			name := e.Name()[:len(e.Name())-len(".json")]
			files = append(files, [2]string{g.Name(), name})
		}
	}
	return files, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
