package types

import (
	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/view"
)

// PageData represents data passed to templates
type PageData struct {
	Title      string
	State      view.State
	Lines      []view.Line // Formatted result text, set only in the success state
	Categories []deals.QuickCategory
	Version    string // Application version (for footer display)
	Year       int
}
