package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const bbgLeadersHTML = `<html><body>
<div class="row" id="Alexander%20the%20Great">
  Alexander keeps his bonus toward wonder-adjacent melee attacks but the Hetaira is reworked to
  provide flanking bonuses, and Macedonia no longer receives eurekas from capturing campuses twice.
</div>
<div class="row" id="footer-popup">footer filler that is long enough to pass the length filter but must be skipped anyway</div>
<div class="row" id="short">too short</div>
</body></html>`

func TestExtractBBGLeaders(t *testing.T) {
	doc, err := ExtractBBGPage([]byte(bbgLeadersHTML), "https://example.org/en_US/leaders_7.2.html", "leaders", "leader", "7.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "BBG Leaders v7.2" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.PageName != "leaders" || doc.BBGVersion != "7.2" || doc.Category != "leader" {
		t.Errorf("provenance fields: %+v", doc)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("got %d sections, want 1 (layout rows skipped): %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "Alexander the Great" {
		t.Errorf("escaped id not decoded: %q", doc.Sections[0].Heading)
	}
	if got := doc.Metadata.Get("mod"); got != "bbg" {
		t.Errorf("metadata mod = %q", got)
	}
}

const bbgCityStatesHTML = `<html><body>
<div class="chart">
  <h2 class="civ-name">Akkad</h2>
  <p class="actual-text">Melee and anti-cavalry units deal full damage to city walls.</p>
</div>
<div class="chart">
  <h2 class="civ-name">Nan Madol</h2>
  <p class="actual-text">short</p>
</div>
</body></html>`

func TestExtractBBGCityStates(t *testing.T) {
	doc, err := ExtractBBGPage([]byte(bbgCityStatesHTML), "u", "city_states", "city_state", "7.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("got %d sections, want 1: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "Akkad" {
		t.Errorf("heading = %q", doc.Sections[0].Heading)
	}
}

const bbgReligionHTML = `<html><body>
<div class="row" id="Pantheon">
  <div class="col-lg-4">
    <h2 class="civ-name">Fertility Rites</h2>
    <p class="actual-text">City growth rate is increased and a free builder appears in the capital.</p>
  </div>
  <div class="col-lg-4">
    <h2 class="civ-name">God of the Forge</h2>
    <p class="actual-text">Ancient and classical military units gain extra production toward training.</p>
  </div>
</div>
</body></html>`

func TestExtractBBGReligion(t *testing.T) {
	doc, err := ExtractBBGPage([]byte(bbgReligionHTML), "u", "religion", "religion", "7.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "Pantheon: Fertility Rites" {
		t.Errorf("belief heading = %q", doc.Sections[0].Heading)
	}
}

func TestExtractBBGPageEmpty(t *testing.T) {
	if _, err := ExtractBBGPage([]byte("<html><body></body></html>"), "u", "misc", "miscellaneous", "7.2"); err == nil {
		t.Fatal("expected an error for an empty page")
	}
}

func TestBBGTitleBaseGame(t *testing.T) {
	if got := bbgTitle("city_states", "base_game"); got != "BBG City States Base Game" {
		t.Errorf("bbgTitle = %q", got)
	}
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(FetchConfig{Timeout: time.Second, MaxRetries: 3}, nil)
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 3 {
		t.Errorf("got %d calls, want 3", calls.Load())
	}
}

func TestFetcherDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(FetchConfig{Timeout: time.Second, MaxRetries: 3}, nil)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("got %d calls, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestFetcherSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f := NewFetcher(DefaultFetchConfig(), nil)
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("user agent = %q", gotUA)
	}
}
