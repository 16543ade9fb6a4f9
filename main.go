package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/ofertas/cmd"
	"github.com/rubiojr/ofertas/pkg/config"
	"github.com/rubiojr/ofertas/pkg/log"
	"github.com/urfave/cli/v3"
)

var logger = log.ForService("main")

func main() {
	app := &cli.Command{
		Name:  "ofertas",
		Usage: "Deal search for metalworking tools and materials",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "debug-services",
				Usage: "Comma separated services to debug (search,provider,view,web,config)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetGlobalDebug(c.Bool("debug"))
			log.EnableDebugList(c.String("debug-services"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SearchCommand(),
			cmd.CategoriesCommand(),
			cmd.WebCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get default config path: %v\n", err)
		os.Exit(1)
	}
	return path
}
