package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/urfave/cli/v3"
)

// CategoriesCommand creates the categories command
func CategoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List the quick search categories",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Println(titleStyle.Render("Categorias rápidas"))
			for _, cat := range deals.Categories() {
				fmt.Printf("%s %s %s\n", metaStyle.Render(cat.ID), cat.Icon, cat.Label)
				fmt.Println(itemStyle.Render(metaStyle.Render(cat.Query)))
			}
			return nil
		},
	}
}
