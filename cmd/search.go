package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/ofertas/pkg/deals"
	"github.com/rubiojr/ofertas/pkg/search"
	"github.com/rubiojr/ofertas/pkg/view"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for tool and material deals",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key for this search (overrides config and environment)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail instead of falling back to the offline analysis when the provider fails",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw result as JSON",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return fmt.Errorf("search query is required")
			}
			return runSearch(ctx, c.String("config"), query, c.String("api-key"), c.Bool("strict"), c.Bool("json"))
		},
	}
}

func runSearch(ctx context.Context, configPath, query, apiKey string, strict, asJSON bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	opts := searchOptions(cfg)
	if strict {
		opts.DegradeOnFailure = false
	}
	orch := search.New(nil, opts)

	if cfg.SearchTimeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout.Duration)
		defer cancel()
	}

	result, err := orch.SearchDeals(ctx, query, apiKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(view.ErrorMessage))
		return fmt.Errorf("searching %q: %w", query, err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(os.Stdout, query, result)
	return nil
}

// printResult renders result the same way the web page does, line by line.
func printResult(w io.Writer, query string, result deals.SearchResult) {
	fmt.Fprintln(w, titleStyle.Render("Ofertas: "+query))
	for _, line := range view.Format(result.Text) {
		switch line.Kind {
		case view.Heading:
			fmt.Fprintln(w, headerStyle.Render(line.Text))
		case view.ListItem:
			fmt.Fprintln(w, itemStyle.Render("• "+line.Text))
		case view.Spacer:
			fmt.Fprintln(w)
		default:
			fmt.Fprintln(w, line.Text)
		}
	}

	if len(result.Sources) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Fontes"))
	for _, src := range result.Sources {
		fmt.Fprintf(w, "  %s\n  %s\n", src.Title, urlStyle.Render(src.URI))
	}
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d fontes", len(result.Sources))))
}
