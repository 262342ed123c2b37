package normalize

import (
	"strings"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// Leaders returns the policy for leader pages.
func Leaders() Policy {
	return Policy{
		EntityPattern: civ6TitleRe,
		SkipEntities:  []string{"Leaders"},
		Rules: []Rule{
			{
				Match:   Matcher{Exact: []string{"Introduction"}},
				Handler: leaderIntro,
			},
			{
				Match:   Matcher{Exact: []string{"In-Game[]"}},
				Section: "Abilities and Agenda Details",
				Render:  RenderProse,
				Tag:     "strategy",
			},
			{
				Match:   Matcher{Exact: []string{"Detailed Approach[]"}},
				Section: "Strategy and Approach",
				Render:  RenderProse,
				Tag:     "strategy",
			},
			{
				Match:   Matcher{Exact: []string{"Intro[]"}},
				Section: "Leader Introduction",
				Render:  RenderProse,
				Tag:     "flavor_text",
			},
			{
				Match:         Matcher{Exact: []string{"Lines[]", "Unvoiced[]", "Voiced[]"}},
				SectionPrefix: "Dialogue - ",
				Render:        RenderBullets,
				Tag:           "dialogue",
			},
			{
				Match:        Matcher{Exact: []string{"Civilopedia entry[]"}},
				Section:      "Historical Background",
				Render:       RenderProse,
				SplitTrigger: 400,
				SplitWords:   350,
				Tag:          "history",
			},
			{
				Match:  Matcher{Exact: []string{"Trivia[]"}},
				Render: RenderBullets,
				Tag:    "trivia",
			},
			{
				Match:   Matcher{Exact: []string{"External links[]"}},
				Section: "External Links",
				Render:  RenderBullets,
				Tag:     "reference",
			},
			{}, // everything else: classify by length
		},
	}
}

// leaderIntro builds the overview chunk. The first content item of a leader
// introduction often carries the structured bonus and agenda summary, so it
// is kept as a fact even when it exceeds the usual length threshold.
func leaderIntro(c *Context, sec wikidoc.Section) []string {
	facts := metadataFacts(c.Doc.Metadata)
	var main []string
	for i, raw := range sec.Content {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		switch {
		case i == 0 && len(item) > chunker.DefaultFactThreshold:
			facts = append(facts, item)
		case len(item) < chunker.DefaultFactThreshold:
			facts = append(facts, item)
		default:
			main = append(main, item)
		}
	}
	return []string{buildChunk(c.Title, "Overview", facts, main, sourceParts(c.Doc, ""))}
}
