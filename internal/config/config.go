package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Data layout
	RawDir       string
	ProcessedDir string

	// Vector index
	IndexEnabled bool
	IndexDir     string
	OllamaURL    string
	EmbedModel   string

	// Scrape sources
	Civ6BaseURL string
	BBGBaseURL  string

	// Fetch behavior
	ScrapeDelay  time.Duration
	FetchTimeout time.Duration
	FetchRetries int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("CIVHARVEST_API_KEY"),

		RawDir:       envOr("RAW_DIR", "data/raw"),
		ProcessedDir: envOr("PROCESSED_DIR", "data/processed"),

		IndexEnabled: envBool("INDEX_ENABLED", true),
		IndexDir:     envOr("INDEX_DIR", "data/index"),
		OllamaURL:    envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:   envOr("OLLAMA_EMBED_MODEL", "nomic-embed-text"),

		Civ6BaseURL: envOr("CIV6_WIKI_URL", "https://civilization.fandom.com"),
		BBGBaseURL:  envOr("BBG_WIKI_URL", "https://civ6bbg.github.io"),

		ScrapeDelay:  envDuration("SCRAPE_DELAY", time.Second),
		FetchTimeout: envDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchRetries: envInt("FETCH_RETRIES", 3),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ScrapeDelay < 0 {
		cfg.ScrapeDelay = time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if cfg.FetchRetries < 0 {
		cfg.FetchRetries = 3
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CIVHARVEST_API_KEY is required")
	}
	if c.RawDir == "" || c.ProcessedDir == "" {
		return fmt.Errorf("RAW_DIR and PROCESSED_DIR are required")
	}
	if c.IndexEnabled && c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL is required when the index is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
