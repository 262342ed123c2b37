package pipeline

import (
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// JobStatus represents the state of a normalization job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusLoading     JobStatus = "loading"
	StatusNormalizing JobStatus = "normalizing"
	StatusWriting     JobStatus = "writing"
	StatusIndexing    JobStatus = "indexing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Route ties a category to the raw dump it is loaded from and the processed
// subdirectory its chunks are written to.
type Route struct {
	RawFile string `json:"raw_file"`
	Group   string `json:"group"`
}

var (
	civ6Raw    = filepath.Join("civ6_wiki", "civ6_complete_data.json")
	bbgRaw     = filepath.Join("bbg_wiki", "bbg_complete_data.json")
	youtubeRaw = filepath.Join("youtube", "youtube_transcripts.json")
	docsRaw    = filepath.Join("docs", "bbm_docs.json")
)

var routes = map[string]Route{
	"civilizations": {civ6Raw, "official_wiki"},
	"leaders":       {civ6Raw, "official_wiki"},
	"units":         {civ6Raw, "official_wiki"},
	"buildings":     {civ6Raw, "official_wiki"},
	"wonders":       {civ6Raw, "official_wiki"},
	"districts":     {civ6Raw, "official_wiki"},
	"improvements":  {civ6Raw, "official_wiki"},
	"game_concepts": {civ6Raw, "official_wiki"},

	"leader":            {bbgRaw, "bbg"},
	"expansion_content": {bbgRaw, "bbg"},
	"city_state":        {bbgRaw, "bbg"},
	"religion":          {bbgRaw, "bbg"},
	"governor":          {bbgRaw, "bbg"},
	"great_person":      {bbgRaw, "bbg"},
	"natural_wonder":    {bbgRaw, "bbg"},
	"wonder":            {bbgRaw, "bbg"},
	"building":          {bbgRaw, "bbg"},
	"unit":              {bbgRaw, "bbg"},
	"naming":            {bbgRaw, "bbg"},
	"policy":            {bbgRaw, "bbg"},
	"world_congress":    {bbgRaw, "bbg"},
	"changelog":         {bbgRaw, "bbg"},
	"miscellaneous":     {bbgRaw, "bbg"},

	"youtube_strategy": {youtubeRaw, "youtube"},
	"docs":             {docsRaw, "docs"},
}

// ContextualCategory names the whole-dump contextual indexing pass. It is
// submitted by name, reads every category of the wiki dump, and feeds the
// vector index directly without writing a chunk file.
const ContextualCategory = "contextual"

// RouteFor resolves a category to its raw dump and processed group.
func RouteFor(category string) (Route, bool) {
	if category == ContextualCategory {
		return Route{RawFile: civ6Raw, Group: ContextualCategory}, true
	}
	r, ok := routes[category]
	return r, ok
}

// Categories lists every routable normalization category, sorted. The
// contextual pass is excluded; it is its own indexing mode, not part of
// an "all categories" run.
func Categories() []string {
	out := make([]string, 0, len(routes))
	for c := range routes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Job tracks the state of one category normalization pass.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Category string `json:"category"`
	RawFile  string `json:"raw_file"`
	Group    string `json:"group"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks per-document processing progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsProcessed int      `json:"documents_processed"`
	ChunksWritten      int      `json:"chunks_written"`
	ChunksIndexed      int      `json:"chunks_indexed"`
	Errors             []string `json:"errors"`
}

// NewJob builds a queued job for a category using its route.
func NewJob(category string) (*Job, bool) {
	route, ok := RouteFor(category)
	if !ok {
		return nil, false
	}
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		Category:  category,
		RawFile:   route.RawFile,
		Group:     route.Group,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}, true
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalDocuments records how many documents the category holds.
func (j *Job) SetTotalDocuments(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalDocuments = n
	j.UpdatedAt = time.Now()
}

// IncrDocumentsProcessed atomically increments the processed count.
func (j *Job) IncrDocumentsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsProcessed++
	j.UpdatedAt = time.Now()
}

// SetDocumentsProcessed records the processed count for batch passes.
func (j *Job) SetDocumentsProcessed(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsProcessed = n
	j.UpdatedAt = time.Now()
}

// SetChunksWritten records the chunk count persisted for this category.
func (j *Job) SetChunksWritten(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksWritten = n
	j.UpdatedAt = time.Now()
}

// SetChunksIndexed records the chunk count added to the vector index.
func (j *Job) SetChunksIndexed(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksIndexed = n
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Category string    `json:"category"`
	Group    string    `json:"group"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Category: j.Category,
		Group:    j.Group,
		Status:   j.Status,
		Phase:    j.Phase,
		Progress: Progress{
			TotalDocuments:     j.Progress.TotalDocuments,
			DocumentsProcessed: j.Progress.DocumentsProcessed,
			ChunksWritten:      j.Progress.ChunksWritten,
			ChunksIndexed:      j.Progress.ChunksIndexed,
			Errors:             errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns snapshots of all tracked jobs.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	out := make([]JobSnapshot, len(jobs))
	for i, j := range jobs {
		out[i] = j.Snapshot()
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
