// Package normalize converts intermediate wiki documents into flat,
// retrieval-ready text chunks with a conventional layout: Title, Section,
// Key Facts, Main Content, and a trailing Source provenance line.
//
// Every category normalizer is a declarative rule table interpreted by one
// engine. The tables enumerate heading patterns that are editorial facts
// about the source wikis (leader names, unique unit headings); they are
// meant to be reviewed and extended per category, not generalized away.
package normalize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// Func converts one intermediate document into zero or more chunks.
type Func func(wikidoc.Document) []string

// RenderMode selects how a section's content items are laid out.
type RenderMode int

const (
	// RenderClassify partitions items into Key Facts and Main Content by
	// length threshold.
	RenderClassify RenderMode = iota
	// RenderProse keeps every item as Main Content.
	RenderProse
	// RenderBullets turns every item into a Key Facts bullet.
	RenderBullets
)

// Matcher matches section headings by literal text or case-insensitive
// keyword. A zero Matcher matches everything (catch-all rule).
type Matcher struct {
	Exact    []string
	Keywords []string
}

// Match reports whether the raw heading satisfies the matcher.
func (m Matcher) Match(heading string) bool {
	if len(m.Exact) == 0 && len(m.Keywords) == 0 {
		return true
	}
	if slices.Contains(m.Exact, heading) {
		return true
	}
	lower := strings.ToLower(heading)
	for _, kw := range m.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Rule describes how one heading-matched branch builds its chunks.
type Rule struct {
	Match         Matcher
	Section       string     // fixed Section label; "" uses the cleaned heading
	SectionPrefix string     // prepended to the Section label
	Render        RenderMode // layout when the section is not split
	FactThreshold int        // classifier threshold; 0 uses the default 200
	SplitTrigger  int        // split when total words exceed this (0: never)
	SplitWords    int        // word budget per split chunk
	Tag           string     // free-text tag appended to the Source line
	IncludeMeta   bool       // page metadata becomes leading Key Facts bullets
	Handler       Handler    // custom branch; overrides the fields above
}

// Context gives custom handlers access to the resolved document state.
type Context struct {
	Doc   wikidoc.Document
	Title string // resolved Title line value for this document
}

// Handler implements a branch the declarative fields cannot express.
type Handler func(c *Context, sec wikidoc.Section) []string

// Policy is the full rule set for one content category.
type Policy struct {
	// EntityPattern extracts a bare entity name from a decorated page
	// title; nil keeps the title verbatim.
	EntityPattern *regexp.Regexp
	// SkipEntities are category-index pages that yield no chunks.
	SkipEntities []string
	// IsSystem routes general-mechanics pages to SystemRules under a
	// shared system title instead of the entity name.
	IsSystem    func(entity string) bool
	SystemTitle func(entity string) string
	Rules       []Rule
	SystemRules []Rule
}

// civ6TitleRe strips the game-edition tag from titles like "Greek (Civ6)".
var civ6TitleRe = regexp.MustCompile(`^(.+?)\s*\(Civ6\)`)

func (p Policy) entityName(title string) string {
	if p.EntityPattern == nil {
		return title
	}
	if m := p.EntityPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return title
}

// Normalize applies the policy to one document. It is total over any
// syntactically valid document: missing optional fields default to empty
// values and a document without sections yields zero chunks.
func (p Policy) Normalize(doc wikidoc.Document) []string {
	entity := p.entityName(doc.Title)
	if slices.Contains(p.SkipEntities, entity) {
		return nil
	}

	rules := p.Rules
	title := entity
	if p.IsSystem != nil && p.IsSystem(entity) {
		rules = p.SystemRules
		if p.SystemTitle != nil {
			title = p.SystemTitle(entity)
		}
	}

	ctx := &Context{Doc: doc, Title: title}

	var out []string
	for _, sec := range doc.Sections {
		if len(sec.Content) == 0 {
			continue
		}
		rule := matchRule(rules, sec.Heading)
		if rule.Handler != nil {
			out = append(out, rule.Handler(ctx, sec)...)
			continue
		}
		out = append(out, applyRule(ctx, rule, sec)...)
	}
	return out
}

// NormalizeAll runs the policy over a document list in order.
func (p Policy) NormalizeAll(docs []wikidoc.Document) []string {
	var out []string
	for _, doc := range docs {
		out = append(out, p.Normalize(doc)...)
	}
	return out
}

func matchRule(rules []Rule, heading string) Rule {
	for _, r := range rules {
		if r.Match.Match(heading) {
			return r
		}
	}
	return Rule{} // classify with defaults
}

func applyRule(c *Context, rule Rule, sec wikidoc.Section) []string {
	section := rule.Section
	if section == "" {
		section = wikidoc.CleanHeading(sec.Heading)
	}
	section = rule.SectionPrefix + section

	if rule.SplitTrigger > 0 && chunker.TotalWords(sec.Content) > rule.SplitTrigger {
		parts := chunker.SplitItemsJoined(sec.Content, rule.SplitWords, " ")
		chunks := make([]string, 0, len(parts))
		for i, part := range parts {
			label := section
			if len(parts) > 1 {
				label = fmt.Sprintf("%s (Part %d/%d)", section, i+1, len(parts))
			}
			chunks = append(chunks, buildChunk(c.Title, label, nil, []string{part}, sourceParts(c.Doc, rule.Tag)))
		}
		return chunks
	}

	var facts, main []string
	switch rule.Render {
	case RenderProse:
		main = trimAll(sec.Content)
	case RenderBullets:
		facts = trimAll(sec.Content)
	default:
		facts, main = chunker.Classify(sec.Content, rule.FactThreshold)
	}

	var meta []string
	if rule.IncludeMeta {
		meta = metadataFacts(c.Doc.Metadata)
	}

	return []string{buildChunk(c.Title, section, append(meta, facts...), main, sourceParts(c.Doc, rule.Tag))}
}

// metadataFacts renders page-level metadata as "key: value" fact items,
// skipping empty keys and values.
func metadataFacts(meta wikidoc.Metadata) []string {
	var out []string
	for _, f := range meta {
		if f.Key != "" && f.Value != "" {
			out = append(out, f.Key+": "+f.Value)
		}
	}
	return out
}

// sourceParts collects the available provenance fields for the Source line.
func sourceParts(doc wikidoc.Document, tag string) []string {
	parts := []string{doc.Source, doc.Category, doc.PageName}
	if doc.BBGVersion != "" {
		parts = append(parts, "v"+doc.BBGVersion)
	}
	parts = append(parts, tag)
	return parts
}

// buildChunk assembles the conventional chunk layout. Empty blocks are
// omitted so the chunk text is always self-contained and never padded.
func buildChunk(title, section string, facts, main, source []string) string {
	var lines []string
	if title != "" {
		lines = append(lines, "Title: "+title)
	}
	if section != "" {
		lines = append(lines, "Section: "+section)
	}
	hasFacts := false
	for _, f := range facts {
		if f != "" {
			if !hasFacts {
				lines = append(lines, "Key Facts:")
				hasFacts = true
			}
			lines = append(lines, "- "+f)
		}
	}
	if len(main) > 0 {
		lines = append(lines, "Main Content:")
		lines = append(lines, main...)
	}
	if src := joinNonEmpty(source, ", "); src != "" {
		lines = append(lines, "Source: "+src)
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Registry maps raw-data category names to their normalizers. Unlisted
// categories fall back to the generic BBG-style layout.
func Registry() map[string]Func {
	bbg := BBG()
	return map[string]Func{
		"civilizations":    Civilizations().Normalize,
		"leaders":          Leaders().Normalize,
		"buildings":        Buildings().Normalize,
		"wonders":          Wonders().Normalize,
		"districts":        Districts().Normalize,
		"game_concepts":    GameConcepts().Normalize,
		"city_state":       bbg.Normalize,
		"religion":         bbg.Normalize,
		"world_congress":   bbg.Normalize,
		"natural_wonder":   bbg.Normalize,
		"miscellaneous":    bbg.Normalize,
		"docs":             Docs,
		"youtube_strategy": Transcripts,
	}
}

// For returns the normalizer for a category, falling back to the generic
// BBG-style layout for categories without a dedicated policy.
func For(category string) Func {
	if fn, ok := Registry()[category]; ok {
		return fn
	}
	return BBG().Normalize
}
