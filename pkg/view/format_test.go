package view

import (
	"testing"

	"github.com/rubiojr/ofertas/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLineKinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Line
	}{
		{"markdown heading", "### 🔎 Análise: **\"disco\"**", Line{Heading, "🔎 Análise: \"disco\""}},
		{"bold heading", "**📋 Detalhes:**", Line{Heading, "📋 Detalhes:"}},
		{"colon heading", "Onde comprar:", Line{Heading, "Onde comprar:"}},
		{"colon heading keeps inner text", "  Preços em 2025: ", Line{Heading, "Preços em 2025:"}},
		{"star bullet", "*   **Lojas:** estoque alto", Line{ListItem, "Lojas: estoque alto"}},
		{"dash bullet", "- Disco 4.1/2", Line{ListItem, "Disco 4.1/2"}},
		{"indented bullet", "   * item", Line{ListItem, "item"}},
		{"paragraph strips bold", "Recomendo os **Distribuidores** e os **Marketplaces**.", Line{Paragraph, "Recomendo os Distribuidores e os Marketplaces."}},
		{"unpaired marker kept", "preço **baixo", Line{Paragraph, "preço **baixo"}},
		{"spacer", "   ", Line{Kind: Spacer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.line)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestFormatBulletEndingWithColonIsHeading(t *testing.T) {
	got := Format("* Onde comprar:")
	require.Len(t, got, 1)
	assert.Equal(t, Heading, got[0].Kind)
	assert.Equal(t, "Onde comprar:", got[0].Text)
}

func TestFormatFallbackText(t *testing.T) {
	lines := Format(search.Fallback("fechadura").Text)
	require.NotEmpty(t, lines)

	assert.Equal(t, Heading, lines[0].Kind)
	assert.Equal(t, Spacer, lines[1].Kind)
	assert.Equal(t, Paragraph, lines[2].Kind)

	kinds := map[LineKind]int{}
	for _, l := range lines {
		kinds[l.Kind]++
		assert.NotContains(t, l.Text, "**")
	}
	assert.Equal(t, 3, kinds[ListItem])
	assert.Equal(t, 2, kinds[Heading])
}

func TestFormatEmpty(t *testing.T) {
	assert.Nil(t, Format(""))
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "heading", Heading.String())
	assert.Equal(t, "list_item", ListItem.String())
	assert.Equal(t, "spacer", Spacer.String())
	assert.Equal(t, "paragraph", Paragraph.String())
}
