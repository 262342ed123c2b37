package normalize

import "strings"

// Wonders returns the policy for wonder and natural wonder pages.
func Wonders() Policy {
	systemEntities := []string{"Wonder", "Natural wonder", "List of wonders in Civ6", "Natural wonders"}
	return Policy{
		EntityPattern: civ6TitleRe,
		IsSystem: func(entity string) bool {
			for _, e := range systemEntities {
				if entity == e {
					return true
				}
			}
			return false
		},
		SystemTitle: func(entity string) string {
			if strings.Contains(strings.ToLower(entity), "natural") {
				return "Natural Wonder System"
			}
			return "Wonder System"
		},
		SystemRules: []Rule{
			{
				Match: Matcher{Exact: []string{
					"Introduction",
					"Finding natural wonders[]",
					"Bonuses and effects[]",
					"Building a wonder[]",
					"Natural wonder picker[]",
				}},
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "game_mechanics",
			},
			{
				Match:        Matcher{Exact: []string{"Strategy[]"}},
				Section:      "Strategy",
				Render:       RenderProse,
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "strategy",
			},
			{}, // everything else: classify by length
		},
		Rules: []Rule{
			{
				Match:       Matcher{Exact: []string{"Introduction"}},
				Section:     "Overview",
				IncludeMeta: true,
			},
			{
				Match:   Matcher{Exact: []string{"Strategy[]"}},
				Section: "Strategy",
				Render:  RenderProse,
				Tag:     "strategy",
			},
			{
				Match:        Matcher{Exact: []string{"Civilopedia entry[]"}},
				Section:      "Historical Background",
				Render:       RenderProse,
				SplitTrigger: 350,
				SplitWords:   350,
				Tag:          "history",
			},
			{}, // everything else: classify by length
		},
	}
}
