package deals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupSourcesKeepsFirstSeenOrder(t *testing.T) {
	in := []Source{
		{Title: "A", URI: "https://a.example"},
		{Title: "B", URI: "https://b.example"},
		{Title: "A again", URI: "https://a.example"},
		{Title: "C", URI: "https://c.example"},
		{Title: "B again", URI: "https://b.example"},
	}

	out := DedupSources(in)

	require.Len(t, out, 3)
	assert.Equal(t, []Source{
		{Title: "A", URI: "https://a.example"},
		{Title: "B", URI: "https://b.example"},
		{Title: "C", URI: "https://c.example"},
	}, out)
}

func TestDedupSourcesPlaceholderURIs(t *testing.T) {
	out := DedupSources([]Source{
		{Title: "Resultado Web", URI: "#"},
		{Title: "Outro", URI: "#"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Resultado Web", out[0].Title)
}

func TestDedupSourcesEmpty(t *testing.T) {
	out := DedupSources(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCategoriesCatalog(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 4)

	ids := map[string]bool{}
	for _, c := range cats {
		assert.NotEmpty(t, c.Label)
		assert.NotEmpty(t, c.Query)
		assert.NotEmpty(t, c.Icon)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}

	// Callers get a copy.
	cats[0].Query = "mutated"
	again := Categories()
	assert.NotEqual(t, "mutated", again[0].Query)
}

func TestCategoryByID(t *testing.T) {
	c, ok := CategoryByID("4")
	require.True(t, ok)
	assert.Equal(t, "Fechaduras", c.Label)

	_, ok = CategoryByID("99")
	assert.False(t, ok)
}
