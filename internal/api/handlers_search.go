package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/civstack/civharvest/internal/store"
)

// handleSearch runs a vector similarity query over the indexed chunks.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	index := s.orchestrator.Index()
	if index == nil {
		jsonError(w, "vector index is disabled", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	topK := 5
	if v := r.URL.Query().Get("k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
			topK = n
		}
	}

	results, err := index.Query(r.Context(), query, topK)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   query,
		"results": results,
	})
}

// handleStats reports chunk files on disk, index size, and queue depth.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	files, err := s.orchestrator.Store().ChunkFiles()
	if err != nil {
		jsonError(w, "failed to list chunk files: "+err.Error(), http.StatusInternalServerError)
		return
	}

	chunkFiles := make([]map[string]string, 0, len(files))
	for _, f := range files {
		chunkFiles = append(chunkFiles, map[string]string{"group": f[0], "name": f[1]})
	}

	indexed := 0
	if index := s.orchestrator.Index(); index != nil {
		indexed = index.Count()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chunk_files":    chunkFiles,
		"indexed_chunks": indexed,
		"queue_depth":    s.orchestrator.QueueDepth(),
	})
}
