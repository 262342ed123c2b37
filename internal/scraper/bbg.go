package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// BBGPages maps BBG wiki page names to the category their documents land
// under. Page names match the site's URL scheme.
var BBGPages = map[string]string{
	"leaders":        "leader",
	"bbg_expanded":   "expansion_content",
	"city_states":    "city_state",
	"religion":       "religion",
	"governor":       "governor",
	"great_people":   "great_person",
	"natural_wonder": "natural_wonder",
	"world_wonder":   "wonder",
	"buildings":      "building",
	"units":          "unit",
	"names":          "naming",
	"policies":       "policy",
	"congress":       "world_congress",
	"misc":           "miscellaneous",
	"changelog":      "changelog",
}

// DefaultBBGVersions are the mod versions scraped by default, newest first.
var DefaultBBGVersions = []string{"7.2", "7.1"}

// Page ids on the BBG site that are layout, not content.
var bbgSkipIDs = map[string]bool{
	"footer-popup": true,
	"donateText":   true,
}

// BBGScraper harvests the Better Balanced Game mod wiki. Each page type
// has its own markup, so extraction is routed per page name.
type BBGScraper struct {
	fetcher  *Fetcher
	baseURL  string
	versions []string
	logger   *slog.Logger
}

// NewBBGScraper builds a scraper against baseURL (eg. https://civ6bbg.github.io).
func NewBBGScraper(fetcher *Fetcher, baseURL string, versions []string, logger *slog.Logger) *BBGScraper {
	if len(versions) == 0 {
		versions = DefaultBBGVersions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BBGScraper{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		versions: versions,
		logger:   logger,
	}
}

// ScrapeAll harvests every page type across every configured version,
// grouped by category.
func (s *BBGScraper) ScrapeAll(ctx context.Context) (map[string][]wikidoc.Document, error) {
	out := map[string][]wikidoc.Document{}
	for page, category := range BBGPages {
		for _, version := range s.versions {
			doc, err := s.ScrapePage(ctx, page, category, version)
			if err != nil {
				s.logger.Warn("skipping bbg page", "page", page, "version", version, "error", err)
				continue
			}
			out[category] = append(out[category], doc)
		}
	}
	return out, nil
}

// ScrapePage fetches one page type at one mod version.
func (s *BBGScraper) ScrapePage(ctx context.Context, page, category, version string) (wikidoc.Document, error) {
	pageURL := fmt.Sprintf("%s/en_US/%s_%s.html", s.baseURL, page, version)
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return wikidoc.Document{}, err
	}
	return ExtractBBGPage(body, pageURL, page, category, version)
}

// ExtractBBGPage parses one BBG wiki page into an intermediate document.
func ExtractBBGPage(body []byte, pageURL, page, category, version string) (wikidoc.Document, error) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("parse html: %w", err)
	}

	var sections []wikidoc.Section
	switch page {
	case "leaders":
		sections = extractBBGRows(gq, 100)
	case "city_states":
		sections = extractBBGCityStates(gq)
	case "religion":
		sections = extractBBGReligion(gq)
	default:
		sections = extractBBGRows(gq, 50)
	}
	if len(sections) == 0 {
		return wikidoc.Document{}, fmt.Errorf("%w: no sections on %s", wikidoc.ErrInvalidInput, pageURL)
	}

	doc := wikidoc.Document{
		Title:      bbgTitle(page, version),
		URL:        pageURL,
		Category:   category,
		PageName:   page,
		BBGVersion: version,
		Sections:   sections,
		Source:     "bbg_wiki",
	}
	doc.Metadata.Set("mod", "bbg")
	doc.Metadata.Set("version", version)
	return doc, nil
}

// extractBBGRows handles the common layout: one div.row per item, the id
// attribute carrying the (URL-escaped) item name.
func extractBBGRows(gq *goquery.Document, minLen int) []wikidoc.Section {
	var sections []wikidoc.Section
	gq.Find("div.row[id]").Each(func(_ int, div *goquery.Selection) {
		id, _ := div.Attr("id")
		if id == "" || bbgSkipIDs[id] {
			return
		}
		text := cleanText(div.Text())
		if len(text) <= minLen {
			return
		}
		sections = append(sections, wikidoc.Section{
			Heading: unescapeID(id),
			Content: []string{text},
		})
	})
	return sections
}

// extractBBGCityStates handles the city-state chart layout: a div.chart per
// city state with its name in h2.civ-name and its buff in p.actual-text.
func extractBBGCityStates(gq *goquery.Document) []wikidoc.Section {
	var sections []wikidoc.Section
	gq.Find("div.chart").Each(func(_ int, div *goquery.Selection) {
		name := cleanText(div.Find("h2.civ-name").First().Text())
		if name == "" {
			return
		}
		desc := cleanText(div.Find("p.actual-text").First().Text())
		if len(desc) <= 20 {
			return
		}
		sections = append(sections, wikidoc.Section{
			Heading: name,
			Content: []string{desc},
		})
	})
	return sections
}

// extractBBGReligion handles the belief layout: div.row[id] per belief
// type (Pantheon, Follower, ...) with one column per belief inside it.
func extractBBGReligion(gq *goquery.Document) []wikidoc.Section {
	var sections []wikidoc.Section
	gq.Find("div.row[id]").Each(func(_ int, typeDiv *goquery.Selection) {
		id, _ := typeDiv.Attr("id")
		if id == "" || bbgSkipIDs[id] {
			return
		}
		beliefType := unescapeID(id)

		typeDiv.Find("div[class*='col-lg-']").Each(func(_ int, col *goquery.Selection) {
			name := cleanText(col.Find("h2.civ-name").First().Text())
			if name == "" {
				return
			}
			desc := cleanText(col.Find("p.actual-text").First().Text())
			if len(desc) <= 20 {
				return
			}
			sections = append(sections, wikidoc.Section{
				Heading: beliefType + ": " + name,
				Content: []string{desc},
			})
		})
	})
	return sections
}

// bbgTitle renders a display title like "BBG City States v7.2".
func bbgTitle(page, version string) string {
	words := strings.Split(strings.ReplaceAll(page, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	display := "v" + version
	if version == "base_game" {
		display = "Base Game"
	}
	return "BBG " + strings.Join(words, " ") + " " + display
}

func unescapeID(id string) string {
	if s, err := url.PathUnescape(id); err == nil {
		return s
	}
	return id
}
