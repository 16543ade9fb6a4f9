package components

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/view"
)

// Helpers called from the templ files, kept here so the templates carry no
// inline logic.

// LineClass maps a formatted line to its CSS class.
func LineClass(kind view.LineKind) string {
	switch kind {
	case view.Heading:
		return "line-heading"
	case view.ListItem:
		return "line-item"
	case view.Spacer:
		return "line-spacer"
	default:
		return "line-paragraph"
	}
}

// StateKey identifies a rendered snapshot. The live script compares it with
// pushed states to decide whether the page is stale.
func StateKey(state view.State) string {
	return state.State.String() + ":" + state.SearchID
}

// ResultSources returns the sources of a successful search, or nil.
func ResultSources(state view.State) []deals.Source {
	if state.Result == nil {
		return nil
	}
	return state.Result.Sources
}

// CategoryAction is the form target of a quick category button.
func CategoryAction(c deals.QuickCategory) templ.SafeURL {
	return templ.SafeURL("/category/" + url.PathEscape(c.ID))
}

// SourceHost returns the host shown under a source title, or an empty string
// when the URI has none (the "#" placeholder, relative links).
func SourceHost(src deals.Source) string {
	u, err := url.Parse(src.URI)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// SourceURL is the anchor target of a source, already filtered by SafeHref.
func SourceURL(src deals.Source) templ.SafeURL {
	return templ.SafeURL(SafeHref(src.URI))
}

// SafeHref only lets http(s) links and the "#" placeholder through to an
// anchor's href.
func SafeHref(uri string) string {
	if uri == "#" {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "#"
	}
	return u.String()
}
