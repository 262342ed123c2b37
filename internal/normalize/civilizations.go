package normalize

// Civilizations returns the policy for civilization pages. Leader-ability
// headings are matched by the leader surnames and ability names that appear
// on the source wiki; new civilizations need their keywords added here.
func Civilizations() Policy {
	return Policy{
		EntityPattern: civ6TitleRe,
		SkipEntities:  []string{"Civilizations"},
		Rules: []Rule{
			{
				Match:       Matcher{Exact: []string{"Introduction"}},
				Section:     "Overview",
				IncludeMeta: true,
			},
			{
				Match:        Matcher{Keywords: []string{"roosevelt", "lincoln", "corollary", "emancipation", "antiquities"}},
				Render:       RenderProse,
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "leader_ability",
			},
			{
				Match: Matcher{
					Keywords: []string{"strategy"},
					Exact:    []string{"Vanilla version[]", "Rise and Fall & Gathering Storm[]"},
				},
				SectionPrefix: "Strategy - ",
				Render:        RenderProse,
				SplitTrigger:  300,
				SplitWords:    300,
				Tag:           "strategy",
			},
			{
				Match: Matcher{
					Exact:    []string{"P-51 Mustang[]", "Film Studio[]", "Rough Rider[]"},
					Keywords: []string{"unit[]", "building[]", "infrastructure[]"},
				},
				SectionPrefix: "Unique Component - ",
				FactThreshold: 150,
				Tag:           "unique_component",
			},
			{
				Match:  Matcher{Keywords: []string{"victory", "counter"}},
				Render: RenderProse,
				Tag:    "gameplay_advice",
			},
			{}, // everything else: classify by length
		},
	}
}
