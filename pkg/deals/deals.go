// Package deals holds the data model shared by the search orchestrator, the
// view controller and the web/CLI surfaces.
package deals

// Source is a web page cited by a search result. URI is opaque and never
// validated.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// SearchResult is the narrative answer for a query plus its cited sources.
// Text may carry lightweight markup markers ("**", "##", "*   ").
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// DedupSources returns sources with repeated URIs removed, keeping the first
// occurrence of each URI in its original position.
func DedupSources(sources []Source) []Source {
	if len(sources) == 0 {
		return []Source{}
	}
	seen := make(map[string]struct{}, len(sources))
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if _, dup := seen[s.URI]; dup {
			continue
		}
		seen[s.URI] = struct{}{}
		out = append(out, s)
	}
	return out
}
