// Package chunker implements the text-splitting primitives used by the
// category normalizers: word-bounded item grouping, sentence-aware
// chunking with overlap, character-bounded chunking, and the short-fact
// vs long-content classifier.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultFactThreshold is the character length below which a content item
// is treated as a short fact rather than flowing prose.
const DefaultFactThreshold = 200

// SentenceConfig controls ChunkSentences.
type SentenceConfig struct {
	TargetWords      int // Target chunk size in words.
	OverlapSentences int // Sentences carried into the next chunk.
	OverlapWords     int // Word overlap for the no-punctuation fallback.
}

// DefaultSentenceConfig returns the transcript defaults.
func DefaultSentenceConfig() SentenceConfig {
	return SentenceConfig{
		TargetWords:      250,
		OverlapSentences: 2,
		OverlapWords:     50,
	}
}

// CharConfig controls ChunkChars.
type CharConfig struct {
	ChunkSize    int // Target chunk size in characters.
	ChunkOverlap int // Overlap between consecutive chunks in characters.
}

// DefaultCharConfig returns the page-processing defaults.
func DefaultCharConfig() CharConfig {
	return CharConfig{ChunkSize: 800, ChunkOverlap: 100}
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TotalWords sums the word counts of all items.
func TotalWords(items []string) int {
	n := 0
	for _, item := range items {
		n += WordCount(item)
	}
	return n
}

// SplitItems groups an ordered item sequence into runs whose combined word
// count stays at or under maxWords. Items are never split or reordered: a
// single oversized item becomes its own run. Empty input yields no runs.
func SplitItems(items []string, maxWords int) [][]string {
	var runs [][]string
	var current []string
	currentWords := 0

	for _, item := range items {
		words := WordCount(item)
		if currentWords+words > maxWords && len(current) > 0 {
			runs = append(runs, current)
			current = nil
			currentWords = 0
		}
		current = append(current, item)
		currentWords += words
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

// SplitItemsJoined is SplitItems with each run joined by sep.
func SplitItemsJoined(items []string, maxWords int, sep string) []string {
	runs := SplitItems(items, maxWords)
	out := make([]string, 0, len(runs))
	for _, run := range runs {
		out = append(out, strings.Join(run, sep))
	}
	return out
}

// Classify partitions content items into short facts and long-form main
// content at the given character threshold, preserving relative order
// within each partition. Items are trimmed on the way out.
func Classify(items []string, threshold int) (facts, main []string) {
	if threshold <= 0 {
		threshold = DefaultFactThreshold
	}
	for _, item := range items {
		if len(item) < threshold {
			facts = append(facts, strings.TrimSpace(item))
		} else {
			main = append(main, strings.TrimSpace(item))
		}
	}
	return facts, main
}

// SplitSentences splits text at sentence-ending punctuation followed by
// whitespace and an upper-case letter. Transcripts frequently lack clean
// punctuation; a single-element result signals that callers should fall
// back to word windows.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) {
			continue // no whitespace gap, or end of text
		}
		if runes[j] >= 'A' && runes[j] <= 'Z' {
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		s := strings.TrimSpace(string(runes[start:]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// ChunkSentences splits text into chunks of roughly TargetWords words,
// cutting only at sentence boundaries and carrying OverlapSentences
// sentences into each following chunk for context continuity. When no
// sentence boundary is detectable it falls back to ChunkWords.
func ChunkSentences(text string, cfg SentenceConfig) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = 250
	}
	if cfg.OverlapWords <= 0 {
		cfg.OverlapWords = 50
	}

	sentences := SplitSentences(text)
	if len(sentences) <= 1 {
		return ChunkWords(text, cfg.TargetWords, cfg.OverlapWords)
	}

	var chunks []string
	var current []string
	currentWords := 0

	for _, sentence := range sentences {
		words := WordCount(sentence)
		if currentWords+words > cfg.TargetWords && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			if cfg.OverlapSentences > 0 && len(current) >= cfg.OverlapSentences {
				current = append([]string(nil), current[len(current)-cfg.OverlapSentences:]...)
				currentWords = TotalWords(current)
			} else {
				current = nil
				currentWords = 0
			}
		}
		current = append(current, sentence)
		currentWords += words
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// ChunkWords slides a fixed word window of targetWords over the text,
// advancing by targetWords-overlap each step. Overlap is clamped below
// the window size so the loop always makes progress.
func ChunkWords(text string, targetWords, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if targetWords <= 0 {
		targetWords = 250
	}
	if overlap >= targetWords {
		overlap = targetWords - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < len(words); start += targetWords - overlap {
		end := start + targetWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// charDelimiters are searched backward from a tentative cut point so that
// chunks prefer to end just after a sentence boundary.
var charDelimiters = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// charBoundaryWindow is how far back from the tentative cut point the
// sentence-boundary search extends.
const charBoundaryWindow = 200

// ChunkChars splits text into chunks of at most ChunkSize characters with
// ChunkOverlap characters of overlap, moving each cut back to the latest
// sentence boundary within the search window when one exists. Terminates
// for any input and any config.
func ChunkChars(text string, cfg CharConfig) []string {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 800
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize - 1
	}

	if len(text) == 0 {
		return nil
	}
	if len(text) <= cfg.ChunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + cfg.ChunkSize
		if end < len(text) {
			searchStart := end - charBoundaryWindow
			if searchStart < start {
				searchStart = start
			}
			window := text[searchStart:end]
			found := false
			for _, delim := range charDelimiters {
				if idx := strings.LastIndex(window, delim); idx != -1 {
					end = searchStart + idx + len(delim)
					found = true
					break
				}
			}
			if !found {
				// A hard cut must not land inside a multi-byte rune.
				end = runeStart(text, end)
				if end == start {
					_, size := utf8.DecodeRuneInString(text[start:])
					end = start + size
				}
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}
		next := runeStart(text, end-cfg.ChunkOverlap)
		if next <= start {
			next = end // forward progress guard
		}
		start = next
	}
	return chunks
}

// runeStart walks i back to the start of the rune it points into.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
