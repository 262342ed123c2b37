package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/civstack/civharvest/internal/wikidoc"
)

// Paragraphs and list items shorter than these are navigation noise on
// fandom pages, not content.
const (
	minParagraphLen = 50
	minListItemLen  = 30
)

var refMarkerRe = regexp.MustCompile(`\[\d+\]`)
var spaceRe = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace and strips citation markers like [3].
func cleanText(s string) string {
	s = spaceRe.ReplaceAllString(s, " ")
	s = refMarkerRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Civ6Scraper harvests the Civilization VI fandom wiki.
type Civ6Scraper struct {
	fetcher *Fetcher
	baseURL string
	logger  *slog.Logger
}

// Civ6Categories maps category names to their wiki category paths.
var Civ6Categories = map[string]string{
	"civilizations": "/wiki/Category:Civilizations_(Civ6)",
	"leaders":       "/wiki/Category:Leaders_(Civ6)",
	"units":         "/wiki/Category:Units_(Civ6)",
	"buildings":     "/wiki/Category:Buildings_(Civ6)",
	"wonders":       "/wiki/Category:Wonders_(Civ6)",
	"districts":     "/wiki/Category:Districts_(Civ6)",
	"improvements":  "/wiki/Category:Tile_improvements_(Civ6)",
	"game_concepts": "/wiki/Category:Game_concepts_(Civ6)",
}

// NewCiv6Scraper builds a scraper against baseURL
// (eg. https://civilization.fandom.com).
func NewCiv6Scraper(fetcher *Fetcher, baseURL string, logger *slog.Logger) *Civ6Scraper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Civ6Scraper{fetcher: fetcher, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// ScrapeCategory fetches every page listed on a category page.
func (s *Civ6Scraper) ScrapeCategory(ctx context.Context, name, categoryPath string) ([]wikidoc.Document, error) {
	pages, err := s.CategoryPages(ctx, s.baseURL+categoryPath)
	if err != nil {
		return nil, fmt.Errorf("list category %s: %w", name, err)
	}
	s.logger.Info("scraping category", "category", name, "pages", len(pages))

	var docs []wikidoc.Document
	for _, pageURL := range pages {
		doc, err := s.ScrapePage(ctx, pageURL, name)
		if err != nil {
			s.logger.Warn("skipping page", "url", pageURL, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CategoryPages lists the member page URLs of a wiki category page.
func (s *Civ6Scraper) CategoryPages(ctx context.Context, categoryURL string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, categoryURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var pages []string
	doc.Find("div.category-page__members a.category-page__member-link").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		pages = append(pages, s.resolve(href))
	})
	return pages, nil
}

// ScrapePage fetches and extracts one wiki page.
func (s *Civ6Scraper) ScrapePage(ctx context.Context, pageURL, category string) (wikidoc.Document, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return wikidoc.Document{}, err
	}
	return ExtractCiv6Page(body, pageURL, category)
}

// ExtractCiv6Page parses a fandom wiki page into an intermediate document:
// the page header becomes the title, h2/h3/h4 open sections with their
// paragraphs and list items as content, and the portable infobox becomes
// ordered metadata.
func ExtractCiv6Page(body []byte, pageURL, category string) (wikidoc.Document, error) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return wikidoc.Document{}, fmt.Errorf("parse html: %w", err)
	}

	doc := wikidoc.Document{
		Title:    cleanText(gq.Find("h1.page-header__title").First().Text()),
		URL:      pageURL,
		Category: category,
		Source:   "civ6_wiki",
	}

	content := gq.Find("div.mw-parser-output").First()
	if content.Length() == 0 {
		return wikidoc.Document{}, fmt.Errorf("%w: no content container", wikidoc.ErrInvalidInput)
	}

	current := wikidoc.Section{Heading: "Introduction"}
	flush := func() {
		if len(current.Content) > 0 {
			doc.Sections = append(doc.Sections, current)
		}
	}

	content.Children().Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "h2", "h3", "h4":
			flush()
			heading := strings.TrimSpace(strings.ReplaceAll(cleanText(el.Text()), "[edit]", ""))
			current = wikidoc.Section{Heading: heading}
		case "p":
			if text := cleanText(el.Text()); len(text) > minParagraphLen {
				current.Content = append(current.Content, text)
			}
		case "ul", "ol":
			el.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := cleanText(li.Text()); len(text) > minListItemLen {
					current.Content = append(current.Content, text)
				}
			})
		}
	})
	flush()

	gq.Find("aside.portable-infobox div.pi-item").Each(func(_ int, item *goquery.Selection) {
		label := cleanText(item.Find("h3.pi-data-label").First().Text())
		value := cleanText(item.Find("div.pi-data-value").First().Text())
		if label != "" && value != "" {
			doc.Metadata.Set(label, value)
		}
	})

	return doc, nil
}

func (s *Civ6Scraper) resolve(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	return s.baseURL + u.String()
}
