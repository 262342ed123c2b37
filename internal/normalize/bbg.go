package normalize

// BBG returns the policy for Better Balanced Game wiki pages. All BBG page
// types share one flat layout: the page title is kept verbatim and every
// section classifies by length. The mod version and page name ride along on
// the Source line.
func BBG() Policy {
	return Policy{
		Rules: []Rule{{}},
	}
}
