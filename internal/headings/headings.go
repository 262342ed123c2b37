// Package headings parses a flat block of unstructured text into a
// sequence of titled sections using heading heuristics.
//
// There is no formal grammar for the source format: a short capitalized
// line may be a heading or may be body text. The heuristic accepts false
// positives and negatives as an inherent precision/recall tradeoff; the
// constants in Heuristics are tunable, not fixable.
package headings

import (
	"regexp"
	"strings"
	"unicode"
)

// Node is one detected section of the input.
type Node struct {
	Title   string // Heading text.
	Level   int    // 1 = top-level, 2 = subsection.
	Content string // Joined body lines belonging to this node.
	Parent  string // Title of the enclosing level-1 section; "" for level 1.
}

// Heuristics holds the tunable heading-detection constants.
type Heuristics struct {
	MaxLineLen int // Candidate subheadings must be shorter than this.
	MaxWords   int // Candidate subheadings carry at most this many words.
	StepPrefix string // Marker that promotes a line to a level-1 heading.
}

// DefaultHeuristics returns the constants tuned for mod documentation
// dumps (step-structured install and balance guides).
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxLineLen: 80,
		MaxWords:   8,
		StepPrefix: "Step ",
	}
}

// isUpper reports whether s contains at least one cased letter and every
// cased letter is upper case (digits and punctuation are ignored).
func isUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// stepSubRe matches numbered sub-step markers like "Step 3.2".
var stepSubRe = regexp.MustCompile(`^Step \d+\.\d+`)

// classify reports whether line looks like a heading and at what level.
func (h Heuristics) classify(line string) (bool, int) {
	if line == "" {
		return false, 0
	}
	// Lines ending in sentence punctuation are continuation text.
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") {
		return false, 0
	}
	if isUpper(line) {
		return true, 1
	}
	// "Step N.M" must be checked before the bare step prefix, which it
	// would otherwise match.
	if stepSubRe.MatchString(line) {
		return true, 2
	}
	if h.StepPrefix != "" && strings.HasPrefix(line, h.StepPrefix) {
		return true, 1
	}
	if len(line) < h.MaxLineLen && !strings.ContainsAny(line, ",()") {
		words := strings.Fields(line)
		if len(words) <= h.MaxWords && startsUpper(line) {
			return true, 2
		}
	}
	return false, 0
}

// Parse scans newline-separated text and returns the detected sections in
// order. A node is emitted only once it has accumulated non-empty content.
func Parse(text string, h Heuristics) []Node {
	var nodes []Node

	currentTitle := ""
	currentLevel := 0
	var currentContent []string
	var parentStack []string

	flush := func() {
		if currentTitle == "" || len(currentContent) == 0 {
			return
		}
		parent := ""
		if currentLevel == 2 && len(parentStack) > 0 && parentStack[0] != currentTitle {
			parent = parentStack[0]
		}
		nodes = append(nodes, Node{
			Title:   currentTitle,
			Level:   currentLevel,
			Content: strings.TrimSpace(strings.Join(currentContent, "\n")),
			Parent:  parent,
		})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		isHeading, level := h.classify(line)

		switch {
		case isHeading && currentTitle != "":
			flush()
			currentTitle = line
			currentLevel = level
			currentContent = nil
			if level == 1 {
				parentStack = []string{line}
			} else if len(parentStack) > 0 {
				parentStack = []string{parentStack[0], line}
			} else {
				parentStack = []string{line}
			}
		case isHeading:
			// First heading: start tracking without emitting an empty node.
			currentTitle = line
			currentLevel = level
			parentStack = []string{line}
		default:
			if line != "" {
				currentContent = append(currentContent, line)
			}
		}
	}
	flush()

	return nodes
}
