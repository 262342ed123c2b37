package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/normalize"
	"github.com/civstack/civharvest/internal/store"
)

// Worker processes a single normalization job: load the category's raw
// documents, normalize them into chunks, persist the chunk file, and feed
// the vector index.
type Worker struct {
	store *store.Store
	index *store.Index // nil disables indexing
	log   *slog.Logger
}

func NewWorker(st *store.Store, index *store.Index, log *slog.Logger) *Worker {
	return &Worker{store: st, index: index, log: log}
}

// Process runs the full normalization pass for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	if job.Category == ContextualCategory {
		w.processContextual(ctx, job)
		return
	}

	log := w.log.With("job_id", job.ID, "category", job.Category)

	// Phase 1: load the raw dump and select this category's documents.
	job.SetStatus(StatusLoading, "loading raw documents")
	grouped, err := w.store.LoadDocuments(job.RawFile)
	if err != nil {
		log.Error("load failed", "raw_file", job.RawFile, "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	docs := grouped[job.Category]
	if len(docs) == 0 {
		// Bare-list dumps land under the empty key.
		docs = grouped[""]
	}
	if len(docs) == 0 {
		log.Warn("no documents for category", "raw_file", job.RawFile)
		job.AddError("no documents for category " + job.Category)
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.SetTotalDocuments(len(docs))

	// Phase 2: normalize each document independently. A document that
	// yields no chunks is fine.
	job.SetStatus(StatusNormalizing, "normalizing")
	fn := normalize.For(job.Category)
	var texts []string
	for _, doc := range docs {
		texts = append(texts, fn(doc)...)
		job.IncrDocumentsProcessed()
	}
	log.Info("normalized category", "documents", len(docs), "chunks", len(texts))

	if len(texts) == 0 {
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "normalizing")
		return
	}

	// Phase 3: persist the chunk file.
	job.SetStatus(StatusWriting, "writing chunks")
	if err := w.store.WriteChunks(job.Group, job.Category, texts); err != nil {
		log.Error("write failed", "error", err)
		job.AddError(fmt.Sprintf("write: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}
	job.SetChunksWritten(len(texts))

	// Phase 4: index, retrying transient embedding failures.
	if w.index != nil {
		job.SetStatus(StatusIndexing, "indexing")
		if err := w.indexChunks(ctx, job, texts); err != nil {
			log.Error("indexing failed", "error", err)
			job.AddError(fmt.Sprintf("index: %s", err))
			job.SetStatus(StatusFailed, "indexing")
			return
		}
		job.SetChunksIndexed(len(texts))
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "chunks", len(texts))
}

// processContextual runs the whole-dump contextual pass: every page of the
// wiki dump becomes title-and-section prefixed overlapping chunks that go
// straight to the vector index, chunk files are not written.
func (w *Worker) processContextual(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "category", job.Category)

	if w.index == nil {
		job.AddError("vector index disabled")
		job.SetStatus(StatusFailed, "indexing")
		return
	}

	job.SetStatus(StatusLoading, "loading raw documents")
	grouped, err := w.store.LoadDocuments(job.RawFile)
	if err != nil {
		log.Error("load failed", "raw_file", job.RawFile, "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	total := 0
	for _, docs := range grouped {
		total += len(docs)
	}
	if total == 0 {
		log.Warn("empty dump", "raw_file", job.RawFile)
		job.AddError("no documents in dump")
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.SetTotalDocuments(total)

	job.SetStatus(StatusNormalizing, "normalizing")
	proc := normalize.NewContextualProcessor(chunker.CharConfig{})
	records := proc.ProcessAll(grouped)
	job.SetDocumentsProcessed(total)
	log.Info("contextualized dump", "documents", total, "chunks", len(records))

	if len(records) == 0 {
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "normalizing")
		return
	}

	job.SetStatus(StatusIndexing, "indexing")
	err = w.indexWithRetry(ctx, job, func(ctx context.Context) error {
		return w.index.AddRecords(ctx, records)
	})
	if err != nil {
		log.Error("indexing failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}
	job.SetChunksIndexed(len(records))

	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "chunks", len(records))
}

func (w *Worker) indexChunks(ctx context.Context, job *Job, texts []string) error {
	return w.indexWithRetry(ctx, job, func(ctx context.Context) error {
		return w.index.AddTexts(ctx, job.Category, texts)
	})
}

// indexWithRetry retries transient embedding failures with backoff.
func (w *Worker) indexWithRetry(ctx context.Context, job *Job, add func(context.Context) error) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = add(ctx)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		w.log.Warn("retryable indexing error", "job_id", job.ID, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
