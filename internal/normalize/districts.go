package normalize

// Districts returns the policy for district pages. The stat-block detection
// the source wiki invites (short lines with yields and adjacency numbers)
// collapses into the plain length classifier: every line it would catch is
// already below the fact threshold.
func Districts() Policy {
	return Policy{
		EntityPattern: civ6TitleRe,
		IsSystem: func(entity string) bool {
			return entity == "District" || entity == "List of districts in Civ6"
		},
		SystemTitle: func(string) string { return "District System" },
		SystemRules: []Rule{
			{
				Match: Matcher{Exact: []string{
					"Introduction",
					"What is a district?[]",
					"What does a district do?[]",
					"Building a district[]",
					"Basic requirements[]",
					"Suitable locations[]",
				}},
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "game_mechanics",
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
				Match:  Matcher{Exact: []string{"Buildings[]", "Projects[]"}},
				Render: RenderBullets,
			},
			{
				Match:        Matcher{Exact: []string{"Strategy[]"}},
				Section:      "Strategy",
				Render:       RenderProse,
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "strategy",
			},
			{
				Match:   Matcher{Exact: []string{"Civilopedia entry[]"}},
				Section: "Historical Background",
				Render:  RenderProse,
				Tag:     "history",
			},
			{}, // everything else: classify by length
		},
	}
}
