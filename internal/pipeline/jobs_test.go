package pipeline

import (
	"testing"
	"time"
)

func TestNewJobRoutes(t *testing.T) {
	job, ok := NewJob("civilizations")
	if !ok {
		t.Fatal("expected civilizations to be routable")
	}
	if job.Group != "official_wiki" {
		t.Errorf("group = %q, want official_wiki", job.Group)
	}
	if job.Status != StatusQueued {
		t.Errorf("status = %q, want queued", job.Status)
	}
	if len(job.ID) != 26 {
		t.Errorf("job ID %q is not a ULID", job.ID)
	}

	bbgJob, ok := NewJob("religion")
	if !ok {
		t.Fatal("expected religion to be routable")
	}
	if bbgJob.Group != "bbg" {
		t.Errorf("group = %q, want bbg", bbgJob.Group)
	}
	if bbgJob.RawFile == job.RawFile {
		t.Error("bbg and civ6 categories should load different dumps")
	}

	if _, ok := NewJob("unknown_category"); ok {
		t.Error("expected unknown category to be rejected")
	}

	ctxJob, ok := NewJob(ContextualCategory)
	if !ok {
		t.Fatal("expected the contextual pass to be routable")
	}
	if ctxJob.RawFile != job.RawFile {
		t.Error("the contextual pass should read the civ6 dump")
	}
}

func TestCategoriesSorted(t *testing.T) {
	cats := Categories()
	if len(cats) == 0 {
		t.Fatal("no categories")
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Fatalf("categories not sorted: %q before %q", cats[i-1], cats[i])
		}
	}
	seen := map[string]bool{}
	for _, c := range cats {
		seen[c] = true
	}
	for _, want := range []string{"leaders", "youtube_strategy", "docs", "city_state"} {
		if !seen[want] {
			t.Errorf("category %q missing from %v", want, cats)
		}
	}
	if seen[ContextualCategory] {
		t.Error("the contextual pass must not be part of an all-categories run")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusLoading, "loading raw documents"},
		{StatusNormalizing, "normalizing"},
		{StatusWriting, "writing chunks"},
		{StatusIndexing, "indexing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("load: file missing")
	job.AddError("no chunks produced")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "load: file missing" {
		t.Errorf("expected first error %q, got %q", "load: file missing", snap.Progress.Errors[0])
	}
}

func TestJob_Progress(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetTotalDocuments(3)
	job.IncrDocumentsProcessed()
	job.IncrDocumentsProcessed()
	job.SetChunksWritten(17)
	job.SetChunksIndexed(17)

	snap := job.Snapshot()
	if snap.Progress.TotalDocuments != 3 {
		t.Errorf("total documents = %d, want 3", snap.Progress.TotalDocuments)
	}
	if snap.Progress.DocumentsProcessed != 2 {
		t.Errorf("documents processed = %d, want 2", snap.Progress.DocumentsProcessed)
	}
	if snap.Progress.ChunksWritten != 17 || snap.Progress.ChunksIndexed != 17 {
		t.Errorf("chunk counts = %d/%d, want 17/17",
			snap.Progress.ChunksWritten, snap.Progress.ChunksIndexed)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_List(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "b", Category: "leaders", UpdatedAt: time.Now()})
	store.Put(&Job{ID: "a", Category: "religion", UpdatedAt: time.Now()})

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(list))
	}
	if list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("list not sorted by ID: %v", list)
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestGenerateULID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for range 1000 {
		id := generateULID()
		if len(id) != 26 {
			t.Fatalf("ULID %q has length %d", id, len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate ULID %q", id)
		}
		seen[id] = true
	}
}
