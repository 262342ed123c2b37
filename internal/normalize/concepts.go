package normalize

// GameConcepts returns the policy for game-mechanics concept pages. Every
// chunk carries the game_mechanics tag; concepts have no entity pages and
// no system pages, only explanations.
func GameConcepts() Policy {
	return Policy{
		EntityPattern: civ6TitleRe,
		Rules: []Rule{
			{
				Match:   Matcher{Exact: []string{"Introduction"}},
				Section: "Overview",
				Tag:     "game_mechanics",
			},
			{
				Match:        Matcher{Keywords: []string{"what are", "what is", "mechanics", "how it works", "how to"}},
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "game_mechanics",
			},
			{
				Match: Matcher{Keywords: []string{"affected by", "elements"}},
				Tag:   "game_mechanics",
			},
			{
				SplitTrigger: 300,
				SplitWords:   300,
				Tag:          "game_mechanics",
			},
		},
	}
}
