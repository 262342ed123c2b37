package normalize

import (
	"fmt"
	"strings"

	"github.com/civstack/civharvest/internal/chunker"
	"github.com/civstack/civharvest/internal/wikidoc"
)

// regionalDistricts are the districts whose buildings grant effects to
// nearby cities. The regional-effects section on the wiki nests one
// sub-header per district inside a single flat content list.
var regionalDistricts = []string{
	"Industrial Zone",
	"Entertainment Complex",
	"Water Park",
	"Holy Site",
}

// Buildings returns the policy for building pages. The general "Building"
// page is treated as a system page describing how buildings work; every
// other page describes one building.
func Buildings() Policy {
	return Policy{
		EntityPattern: civ6TitleRe,
		IsSystem:      func(entity string) bool { return entity == "Building" },
		SystemTitle:   func(string) string { return "Building System" },
		SystemRules: []Rule{
			{
				Match: Matcher{Exact: []string{"Introduction", "Requirements[]", "Effects[]"}},
				Tag:   "game_mechanics",
			},
			{
				Match: Matcher{
					Keywords: []string{"regional"},
					Exact:    []string{"Buildings with regional effects[]"},
				},
				Handler: regionalEffects,
			},
			{}, // everything else: classify by length
		},
		Rules: []Rule{
			{
				Match:       Matcher{Exact: []string{"Introduction"}},
				IncludeMeta: true,
			},
			{}, // everything else: classify by length
		},
	}
}

// regionalEffects splits the flat regional-effects content into a general
// overview plus one bullet chunk per district sub-header.
func regionalEffects(c *Context, sec wikidoc.Section) []string {
	var overview []string
	var order []string
	perDistrict := map[string][]string{}
	current := ""

	for _, item := range sec.Content {
		trimmed := strings.TrimSpace(item)
		if strings.HasSuffix(trimmed, "[]") && containsAny(item, regionalDistricts) {
			current = wikidoc.CleanHeading(trimmed)
			if _, seen := perDistrict[current]; !seen {
				order = append(order, current)
			}
			continue
		}
		if current != "" {
			perDistrict[current] = append(perDistrict[current], item)
		} else {
			overview = append(overview, item)
		}
	}

	src := sourceParts(c.Doc, "regional_effects")
	var out []string

	if len(overview) > 0 {
		if chunker.TotalWords(overview) > 300 {
			parts := chunker.SplitItemsJoined(overview, 300, " ")
			for i, part := range parts {
				label := "Regional Effects Overview"
				if len(parts) > 1 {
					label = fmt.Sprintf("%s (Part %d/%d)", label, i+1, len(parts))
				}
				out = append(out, buildChunk(c.Title, label, nil, []string{part}, src))
			}
		} else {
			out = append(out, buildChunk(c.Title, "Regional Effects Overview", nil, trimAll(overview), src))
		}
	}

	for _, district := range order {
		items := trimAll(perDistrict[district])
		if len(items) == 0 {
			continue
		}
		out = append(out, buildChunk(c.Title, "Regional Effects - "+district, items, nil, src))
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
