package deals

// QuickCategory is a one-click shortcut that submits a canned query.
type QuickCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Query string `json:"query"`
	Icon  string `json:"icon"`
}

var quickCategories = []QuickCategory{
	{ID: "1", Label: "Máquinas de Solda", Query: "Melhores preços máquina de solda inversora serralheria", Icon: "⚡"},
	{ID: "2", Label: "Discos de Corte", Query: "Promoção disco de corte inox 4.1/2 atacado", Icon: "💿"},
	{ID: "3", Label: "Furadeiras", Query: "Ofertas furadeira impacto profissional", Icon: "🛠️"},
	{ID: "4", Label: "Fechaduras", Query: "Preço fechadura elétrica portão serralheria", Icon: "🔒"},
}

// Categories returns a copy of the quick category catalog in display order.
func Categories() []QuickCategory {
	out := make([]QuickCategory, len(quickCategories))
	copy(out, quickCategories)
	return out
}

// CategoryByID looks up a quick category by its id.
func CategoryByID(id string) (QuickCategory, bool) {
	for _, c := range quickCategories {
		if c.ID == id {
			return c, true
		}
	}
	return QuickCategory{}, false
}
