package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/rubiojr/ofertas/cmd/web/components/types"
	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data types.PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestIndexIdle(t *testing.T) {
	out := render(t, types.PageData{
		Title:      "Ofertas",
		State:      view.State{State: view.Idle},
		Categories: deals.Categories(),
		Version:    "1.0.0",
		Year:       2026,
	})

	assert.Contains(t, out, `action="/category/1"`)
	assert.Contains(t, out, `action="/category/4"`)
	assert.Contains(t, out, "Máquinas de Solda")
	assert.NotContains(t, out, " disabled")
	assert.Contains(t, out, "v1.0.0")
	assert.NotContains(t, out, "Fontes")
}

func TestIndexLoadingDisablesInputs(t *testing.T) {
	out := render(t, types.PageData{
		State:      view.State{State: view.Loading, Query: "solda"},
		Categories: deals.Categories(),
	})

	assert.Contains(t, out, " disabled")
	assert.Contains(t, out, "Buscando as melhores ofertas para <strong>solda</strong>")
}

func TestIndexErrorPanel(t *testing.T) {
	out := render(t, types.PageData{
		State: view.State{State: view.Error, Message: view.ErrorMessage},
	})

	assert.Contains(t, out, `action="/dismiss"`)
	assert.Contains(t, out, "Voltar")
}

func TestIndexSuccessEscapes(t *testing.T) {
	result := &deals.SearchResult{
		Text: "x",
		Sources: []deals.Source{
			{Title: "<b>Loja</b>", URI: "https://www.loja.com/p"},
			{Title: "Bad", URI: "javascript:alert(1)"},
		},
	}
	out := render(t, types.PageData{
		State: view.State{State: view.Success, Query: `"><script>`, Result: result},
		Lines: []view.Line{{Kind: view.Heading, Text: "Ofertas"}, {Kind: view.ListItem, Text: "<i>item</i>"}},
	})

	assert.NotContains(t, out, `"><script>`)
	assert.NotContains(t, out, "<i>item</i>")
	assert.Contains(t, out, `class="line-heading">Ofertas`)
	assert.Contains(t, out, `href="https://www.loja.com/p" target="_blank" rel="noopener noreferrer"`)
	assert.Contains(t, out, "<small>loja.com</small>")
	assert.NotContains(t, out, "javascript:")
}

func TestSafeHref(t *testing.T) {
	assert.Equal(t, "#", SafeHref("#"))
	assert.Equal(t, "#", SafeHref("ftp://x"))
	assert.Equal(t, "http://a.com/b", SafeHref("http://a.com/b"))
}

func TestLayoutCarriesStateKey(t *testing.T) {
	out := render(t, types.PageData{
		State: view.State{State: view.Loading, SearchID: "abc", Query: "solda"},
	})

	assert.Contains(t, out, `<body data-state="loading:abc">`)
	assert.Contains(t, out, `<link rel="stylesheet" href="/static/style.css">`)
	assert.Contains(t, out, `<script src="/static/live.js"></script>`)
}

func TestResultSources(t *testing.T) {
	assert.Nil(t, ResultSources(view.State{State: view.Idle}))

	src := []deals.Source{{Title: "a", URI: "https://a.com"}}
	state := view.State{State: view.Success, Result: &deals.SearchResult{Sources: src}}
	assert.Equal(t, src, ResultSources(state))
}

func TestSourceURLFiltersSchemes(t *testing.T) {
	assert.Equal(t, "#", string(SourceURL(deals.Source{URI: "javascript:alert(1)"})))
	assert.Equal(t, "https://a.com/x", string(SourceURL(deals.Source{URI: "https://a.com/x"})))
	assert.Equal(t, "", SourceHost(deals.Source{URI: "#"}))
}
