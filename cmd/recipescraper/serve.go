package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ramkansal/recipe-scrapers/internal/logging"
	"github.com/ramkansal/recipe-scrapers/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scraper over HTTP",
	Long: `Start the HTTP API. Clients post HTML they already have; the server never
fetches pages.

Endpoints:
  POST /v1/scrape   {"url": "...", "html": "...", "links": false}
  GET  /v1/sites    list supported sites
  GET  /healthz     liveness probe

Examples:
  recipescraper serve
  RECIPES_SERVER_ADDR=:9000 recipescraper serve --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	fs := serveCmd.Flags()
	fs.String("addr", ":8080", "listen address")
	fs.Bool("debug", false, "gin debug mode")
	fs.Int64("max-body-bytes", 4<<20, "maximum request body size")
	addScraperFlags(fs)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	// JSON lines suit log collectors better than the console writer.
	jsonLog := logging.New(os.Stdout, cfg.Level())
	log = jsonLog

	srv := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		Debug:        cfg.Server.Debug,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Options:      scraperOptions(),
		Catalog:      catalog,
	}, jsonLog)
	return srv.Run(ctx)
}
