package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ramkansal/recipe-scrapers/internal/config"
	"github.com/ramkansal/recipe-scrapers/internal/logging"
	"github.com/ramkansal/recipe-scrapers/internal/sites"
	"github.com/ramkansal/recipe-scrapers/pkg/scraper"
)

var version = "1.0.0"

var (
	cfgFile string
	noColor bool

	// Populated by PersistentPreRunE.
	cfg     *config.Config
	log     zerolog.Logger
	catalog *sites.Catalog
)

// flagKeys maps config keys to the flag that overrides them. Only flags
// defined on the running command are bound.
var flagKeys = map[string]string{
	"log_level":             "log-level",
	"sites_file":            "sites-file",
	"links_enabled":         "links",
	"parallel_fields":       "parallel-fields",
	"require_site":          "require-site",
	"batch.parallelism":     "concurrency",
	"batch.glob":            "glob",
	"cache.dir":             "cache-dir",
	"cache.redis_addr":      "redis",
	"cache.ttl":             "cache-ttl",
	"server.addr":           "addr",
	"server.debug":          "debug",
	"server.max_body_bytes": "max-body-bytes",
}

var rootCmd = &cobra.Command{
	Use:   "recipescraper",
	Short: "Extract structured recipes from saved HTML pages",
	Long: `recipescraper reads recipe pages you already have and turns them into a
canonical JSON record, using schema.org data, OpenGraph tags, document
metadata and per-site overrides.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (RECIPES_* prefix, .env is loaded when present)
3. Config file (--config, YAML)
4. Default values

Examples:
  recipescraper scrape page.html --url https://www.allrecipes.com/recipe/1
  recipescraper batch ./pages -c 8 --report report.txt
  recipescraper serve --addr :8080
  recipescraper sites`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cfgFile)
		if err != nil {
			return err
		}
		for key, name := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		log = logging.Console(cfg.Level())
		catalog, err = sites.WithFile(cfg.SitesFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "WARN", "log level: VERBOSE, DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().String("sites-file", "", "YAML file with extra site modules")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(versionCmd)
}

// addScraperFlags registers the flags shared by commands that scrape.
func addScraperFlags(fs *pflag.FlagSet) {
	fs.Bool("links", false, "collect page links into the record")
	fs.Bool("parallel-fields", false, "extract fields concurrently")
	fs.Bool("require-site", false, "fail for hosts without a site module")
}

// scraperOptions turns the loaded config into scraper options.
func scraperOptions() scraper.Options {
	l := log
	return scraper.Options{
		LinksEnabled:   cfg.LinksEnabled,
		ParallelFields: cfg.ParallelFields,
		RequireSite:    cfg.RequireSite,
		LogLevel:       cfg.Level(),
		Logger:         &l,
		Sites:          catalog.Lookup,
	}
}

// signalContext is cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), stopSignals()...)
}

func main() {
	enableANSI()
	if err := rootCmd.Execute(); err != nil {
		fatal("%v", err)
	}
}

// ---------- Banner ----------

func printBanner() {
	logo := `
   ___  ___ ___ ___ ___ ___
  | _ \| __/ __|_ _| _ \ __|
  |   /| _| (__ | ||  _/ _|
  |_|_\|___\___|___|_| |___|  scrapers`
	fmt.Fprintln(os.Stderr, clr("cyan", logo))
	fmt.Fprintf(os.Stderr, "  %s  %s\n", clr("dim", "Structured recipes from saved pages"), clr("dim", "v"+version))
	fmt.Fprintf(os.Stderr, "  %s\n", clr("dim", strings.Repeat("─", 58)))
}

// ---------- Utilities ----------

func clr(color, text string) string {
	if noColor {
		return text
	}
	codes := map[string]string{
		"red":    "\033[31m",
		"green":  "\033[32m",
		"yellow": "\033[33m",
		"cyan":   "\033[36m",
		"dim":    "\033[2m",
		"bold":   "\033[1m",
		"reset":  "\033[0m",
	}
	c, ok := codes[color]
	if !ok {
		return text
	}
	return c + text + codes["reset"]
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\n  %s %s\n\n", clr("red", "ERROR:"), fmt.Sprintf(format, args...))
	os.Exit(1)
}
