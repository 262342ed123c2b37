package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/civstack/civharvest/internal/pipeline"
)

type normalizeRequest struct {
	Category string `json:"category"`
}

// handleNormalize queues a normalization pass for a category, or for every
// routable category when the request says "all".
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		jsonError(w, "category is required", http.StatusBadRequest)
		return
	}

	categories := []string{req.Category}
	if req.Category == "all" {
		categories = pipeline.Categories()
	}

	var jobs []map[string]any
	for _, cat := range categories {
		job, ok := pipeline.NewJob(cat)
		if !ok {
			jsonError(w, "unknown category: "+cat, http.StatusBadRequest)
			return
		}
		if err := s.orchestrator.Submit(job); err != nil {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		jobs = append(jobs, map[string]any{
			"job_id":   job.ID,
			"category": job.Category,
			"status":   job.Status,
			"poll_url": fmt.Sprintf("/api/normalize/%s/status", job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if len(jobs) == 1 {
		json.NewEncoder(w).Encode(jobs[0])
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
}

func (s *Server) handleNormalizeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"category": snap.Category,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": s.orchestrator.Jobs()})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"categories": pipeline.Categories()})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
