package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ramkansal/recipe-scrapers/internal/loader"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
	"github.com/ramkansal/recipe-scrapers/pkg/scraper"
)

var (
	scrapeURL         string
	scrapeDiagnostics bool
	scrapePretty      bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <file|->",
	Short: "Scrape one HTML document and print the recipe as JSON",
	Long: `Scrape one HTML document and print the recipe record as JSON.

The page URL decides which site module applies. It is read from --url, else
from the document's canonical link or og:url. Use "-" to read from stdin;
--url is then required.

Examples:
  recipescraper scrape soup.html
  curl -s https://example.com/soup | recipescraper scrape - --url https://example.com/soup
  recipescraper scrape soup.html --diagnostics --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "URL the page was saved from")
	scrapeCmd.Flags().BoolVarP(&scrapeDiagnostics, "diagnostics", "d", false, "print the extraction report to stderr")
	scrapeCmd.Flags().BoolVarP(&scrapePretty, "pretty", "p", false, "indent the JSON output")
	addScraperFlags(scrapeCmd.Flags())
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	page, err := readPage(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	if scrapeURL != "" {
		page.URL = scrapeURL
	}
	if page.URL == "" {
		return errors.Newf("no page url for %s: pass --url", args[0])
	}

	s, err := scraper.NewFromPage(page, scraperOptions())
	if err != nil {
		return err
	}
	obj, scrapeErr := s.ToObject(ctx)
	if scrapeDiagnostics {
		if err := s.Diagnostics().Report(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if scrapeErr != nil {
		return scrapeErr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if scrapePretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(obj)
}

// readPage loads a file through the file loader, or stdin for "-".
func readPage(ctx context.Context, cmd *cobra.Command, source string) (*plugin.Page, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		return loader.Parse("stdin", data)
	}

	l := loader.New(loader.Config{})
	defer l.Close()
	page, err := l.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("source", source).Int("size", page.Size).Str("url", page.URL).Msg("page loaded")
	return page, nil
}
