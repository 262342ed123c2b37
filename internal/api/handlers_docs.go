package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/civstack/civharvest/internal/parser"
	"github.com/civstack/civharvest/internal/pipeline"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// handleUploadDocs accepts mod documentation files (txt, md, html, pdf,
// docx, csv), parses them into intermediate documents, and appends them to
// the docs raw dump so a docs normalization job can pick them up.
func (s *Server) handleUploadDocs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	route, _ := pipeline.RouteFor("docs")
	existing, err := s.orchestrator.Store().LoadDocuments(route.RawFile)
	if err != nil {
		// First upload: start a fresh dump.
		existing = map[string][]wikidoc.Document{}
	}

	var results []map[string]any
	var parsed []wikidoc.Document
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		p, err := parser.ForFile(filename)
		if err != nil {
			f.Close()
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		if pp, ok := p.(*parser.PDFParser); ok {
			pp.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
		}
		doc, err := p.Parse(f, filename)
		f.Close()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "parse: " + err.Error(),
			})
			continue
		}

		doc.Source = "bbm_docs"
		doc.Category = "docs"
		parsed = append(parsed, doc)
		results = append(results, map[string]any{
			"filename": filename,
			"title":    doc.Title,
			"sections": len(doc.Sections),
		})
	}

	if len(parsed) > 0 {
		// Replace by title so re-uploading a file updates it in place.
		docs := existing["docs"]
		for _, doc := range parsed {
			replaced := false
			for i := range docs {
				if docs[i].Title == doc.Title {
					docs[i] = doc
					replaced = true
					break
				}
			}
			if !replaced {
				docs = append(docs, doc)
			}
		}
		existing["docs"] = docs
		if err := s.orchestrator.Store().WriteDocuments(route.RawFile, existing); err != nil {
			jsonError(w, "failed to save documents: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"files": results})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
