package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// minTranscriptWords drops transcripts too short to chunk usefully.
const minTranscriptWords = 50

// Transcripts normalizes auto-generated video transcripts. Each section's
// lines are joined into one running text, cleaned of transcription stutter,
// and chunked by sentences with overlap so answers that straddle a chunk
// boundary survive retrieval. Every chunk links back to the video.
func Transcripts(doc wikidoc.Document) []string {
	channel := doc.Metadata.Get("channel")

	var out []string
	for _, sec := range doc.Sections {
		if len(sec.Content) == 0 {
			continue
		}
		transcript := CleanTranscript(strings.Join(sec.Content, " "))
		if chunker.WordCount(transcript) < minTranscriptWords {
			continue
		}

		chunks := chunker.ChunkSentences(transcript, chunker.DefaultSentenceConfig())
		for i, text := range chunks {
			var lines []string
			lines = append(lines, "Title: "+doc.Title)
			lines = append(lines, fmt.Sprintf("Section: Part %d/%d", i+1, len(chunks)))
			lines = append(lines, "Main Content:", text)
			if src := joinNonEmpty([]string{doc.Source, doc.Category, channel}, ", "); src != "" {
				lines = append(lines, "Source: "+src)
			}
			if doc.URL != "" {
				lines = append(lines, "Video: "+doc.URL)
			}
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// CleanTranscript collapses the word stutter auto-transcription produces
// ("the the the" becomes "the") and normalizes whitespace. A repeat keeps
// the later token, so trailing punctuation survives ("the the," becomes
// "the,"). The comparison is case-sensitive; "The the" is left alone.
func CleanTranscript(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	out := make([]string, 1, len(words))
	out[0] = words[0]
	for _, w := range words[1:] {
		if word := wordRun(w); word != "" && word == out[len(out)-1] {
			out[len(out)-1] = w
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// wordRun returns the leading run of letters, digits and underscores.
func wordRun(s string) string {
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return s[:i]
		}
	}
	return s
}
