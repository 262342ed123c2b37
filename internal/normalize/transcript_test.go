package normalize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/civstack/civharvest/internal/wikidoc"
)

func TestCleanTranscript(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"the the the game is is great", "the game is great"},
		{"  spaced   out\twords ", "spaced out words"},
		{"The the difference matters", "The the difference matters"},
		{"build a scout scout, then a slinger", "build a scout, then a slinger"},
		{"settle here, here is fine", "settle here, here is fine"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanTranscript(tc.in); got != tc.want {
			t.Errorf("CleanTranscript(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func transcriptDoc(lines ...string) wikidoc.Document {
	return wikidoc.Document{
		Title:    "Civ 6 Deity Opening Guide",
		URL:      "https://youtube.com/watch?v=abc123",
		Source:   "youtube",
		Category: "youtube_strategy",
		Metadata: wikidoc.Metadata{{Key: "channel", Value: "PotatoMcWhiskey"}},
		Sections: []wikidoc.Section{{Heading: "transcript", Content: lines}},
	}
}

func TestTranscriptsSkipShortSections(t *testing.T) {
	doc := transcriptDoc("hello everyone welcome back to the channel")
	if chunks := Transcripts(doc); chunks != nil {
		t.Fatalf("short transcript produced %d chunks", len(chunks))
	}
}

func TestTranscriptsChunkLayout(t *testing.T) {
	sentence := "You should always settle your second city toward fresh water and hills. "
	doc := transcriptDoc(strings.Repeat(sentence, 60)) // ~720 words

	chunks := Transcripts(doc)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	first := chunks[0]
	for _, want := range []string{
		"Title: Civ 6 Deity Opening Guide",
		"Section: Part 1/",
		"Main Content:",
		"Source: youtube, youtube_strategy, PotatoMcWhiskey",
		"Video: https://youtube.com/watch?v=abc123",
	} {
		if !strings.Contains(first, want) {
			t.Errorf("chunk missing %q:\n%s", want, first)
		}
	}
	last := chunks[len(chunks)-1]
	wantPart := fmt.Sprintf("Section: Part %d/%d", len(chunks), len(chunks))
	if !strings.Contains(last, wantPart) {
		t.Errorf("last chunk missing %q:\n%s", wantPart, last)
	}
}
