// Command harvest scrapes the configured wikis and writes raw document
// dumps that the server's normalization jobs consume.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/civstack/civharvest/internal/config"
	"github.com/civstack/civharvest/internal/scraper"
	"github.com/civstack/civharvest/internal/store"
	"github.com/civstack/civharvest/internal/wikidoc"
)

func main() {
	godotenv.Load()

	source := flag.String("source", "all", "which wiki to harvest: civ6, bbg, or all")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New(cfg.RawDir, cfg.ProcessedDir)
	fetcher := scraper.NewFetcher(scraper.FetchConfig{
		Timeout:    cfg.FetchTimeout,
		Delay:      cfg.ScrapeDelay,
		MaxRetries: cfg.FetchRetries,
	}, log)

	ok := true
	switch *source {
	case "civ6":
		ok = harvestCiv6(ctx, cfg, fetcher, st, log)
	case "bbg":
		ok = harvestBBG(ctx, cfg, fetcher, st, log)
	case "all":
		ok = harvestCiv6(ctx, cfg, fetcher, st, log)
		ok = harvestBBG(ctx, cfg, fetcher, st, log) && ok
	default:
		log.Error("unknown source", "source", *source)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}

func harvestCiv6(ctx context.Context, cfg config.Config, fetcher *scraper.Fetcher, st *store.Store, log *slog.Logger) bool {
	s := scraper.NewCiv6Scraper(fetcher, cfg.Civ6BaseURL, log)

	grouped := make(map[string][]wikidoc.Document)
	for name, path := range scraper.Civ6Categories {
		docs, err := s.ScrapeCategory(ctx, name, path)
		if err != nil {
			log.Error("category scrape failed", "category", name, "error", err)
			continue
		}
		grouped[name] = docs
		log.Info("scraped category", "category", name, "documents", len(docs))
	}
	if len(grouped) == 0 {
		log.Error("no civ6 categories scraped")
		return false
	}

	out := filepath.Join("civ6_wiki", "civ6_complete_data.json")
	if err := st.WriteDocuments(out, grouped); err != nil {
		log.Error("failed to write dump", "file", out, "error", err)
		return false
	}
	log.Info("wrote civ6 dump", "file", out, "categories", len(grouped))
	return true
}

func harvestBBG(ctx context.Context, cfg config.Config, fetcher *scraper.Fetcher, st *store.Store, log *slog.Logger) bool {
	s := scraper.NewBBGScraper(fetcher, cfg.BBGBaseURL, scraper.DefaultBBGVersions, log)

	grouped, err := s.ScrapeAll(ctx)
	if err != nil {
		log.Error("bbg scrape failed", "error", err)
		return false
	}

	out := filepath.Join("bbg_wiki", "bbg_complete_data.json")
	if err := st.WriteDocuments(out, grouped); err != nil {
		log.Error("failed to write dump", "file", out, "error", err)
		return false
	}
	log.Info("wrote bbg dump", "file", out, "categories", len(grouped))
	return true
}
