package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramkansal/recipe-scrapers/internal/batch"
	"github.com/ramkansal/recipe-scrapers/internal/cache"
	"github.com/ramkansal/recipe-scrapers/internal/loader"
	"github.com/ramkansal/recipe-scrapers/internal/output"
	"github.com/ramkansal/recipe-scrapers/internal/sites"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

var (
	batchOutput      string
	batchReport      string
	batchFallbackURL string
	batchSilent      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir|file>",
	Short: "Scrape every matching document under a directory",
	Long: `Scrape every document matching --glob under a directory, concurrently.

Each result is written as one JSON line to --output (stdout by default).
Results are cached by page URL, content and scraper options when --cache-dir or --redis is set.

Examples:
  recipescraper batch ./pages
  recipescraper batch ./pages -c 10 -o recipes.jsonl --report report.txt
  recipescraper batch ./pages --cache-dir .cache --cache-ttl 12h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	fs := batchCmd.Flags()
	fs.IntP("concurrency", "c", 5, "number of documents scraped at once")
	fs.String("glob", "*.html", "file pattern inside the directory")
	fs.String("cache-dir", "", "directory for cached results")
	fs.String("redis", "", "redis address for cached results (overrides --cache-dir)")
	fs.Duration("cache-ttl", 24*time.Hour, "cache entry lifetime, 0 keeps entries forever")
	fs.StringVarP(&batchOutput, "output", "o", "", "JSON lines file (default stdout)")
	fs.StringVar(&batchReport, "report", "", "write a plain-text report to this file")
	fs.StringVar(&batchFallbackURL, "fallback-url", "", "page URL for documents without a canonical link")
	fs.BoolVar(&batchSilent, "silent", false, "suppress progress output")
	addScraperFlags(fs)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := cache.Open(ctx, cfg.Cache.Dir, cfg.Cache.RedisAddr, cfg.Cache.TTL)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var writers output.Multi
	if batchOutput != "" {
		w, err := output.NewJSONFileWriter(batchOutput)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	} else {
		writers = append(writers, output.NewJSONWriter(cmd.OutOrStdout()))
	}
	if batchReport != "" {
		writers = append(writers, output.NewTextWriter(batchReport))
	}

	sitesDigest, err := sites.Digest(cfg.SitesFile)
	if err != nil {
		return err
	}

	l := loader.New(loader.Config{})
	defer l.Close()

	runner, err := batch.New(batch.Config{
		Root:         args[0],
		Glob:         cfg.Batch.Glob,
		Parallelism:  cfg.Batch.Parallelism,
		FallbackURL:  batchFallbackURL,
		Options:      scraperOptions(),
		CacheVariant: sitesDigest,
		Loader:       l,
		Store:        store,
		Writer:       writers,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	if !batchSilent {
		printBanner()
		cacheName := "off"
		if store != nil {
			cacheName = store.Name()
		}
		fmt.Fprintf(os.Stderr, "\n  %s %s\n", clr("cyan", "Root:"), args[0])
		fmt.Fprintf(os.Stderr, "  %s %d  %s %s  %s %s\n\n",
			clr("dim", "Threads:"), cfg.Batch.Parallelism,
			clr("dim", "Glob:"), cfg.Batch.Glob,
			clr("dim", "Cache:"), cacheName,
		)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range runner.Events() {
			if batchSilent {
				continue
			}
			handleEvent(event)
		}
	}()

	_, err = runner.Run(ctx)
	<-done
	return err
}

func handleEvent(event plugin.RunEvent) {
	switch event.Type {
	case plugin.EventPageDone:
		if event.Result == nil {
			return
		}
		r := event.Result
		mark := clr("green", "●")
		if r.Cached {
			mark = clr("cyan", "●")
		}
		failures := ""
		if n := len(r.Failures); n > 0 {
			failures = clr("dim", fmt.Sprintf("[failures:%d]", n))
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s %s\n", mark, r.Source, clr("dim", "("+output.FmtDur(r.Duration)+")"), failures)

	case plugin.EventPageError:
		fmt.Fprintf(os.Stderr, "  %s %s\n", clr("red", "✗"), event.Message)

	case plugin.EventRunFinished:
		if event.Stats == nil {
			return
		}
		s := event.Stats
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "  %s\n", strings.Repeat("─", 50))
		fmt.Fprintf(os.Stderr, "  %s Batch complete\n", clr("green", "✓"))
		fmt.Fprintf(os.Stderr, "    Pages:  %s scraped, %s errors, %s cached\n",
			clr("cyan", fmt.Sprintf("%d", s.PagesScraped)),
			clr("red", fmt.Sprintf("%d", s.PagesErrored)),
			clr("cyan", fmt.Sprintf("%d", s.CacheHits)),
		)
		fmt.Fprintf(os.Stderr, "    Time:   %s (%.1f pages/sec)\n", output.FmtDur(s.Elapsed), s.PagesPerSec)
		if fields := output.FailureCounts(s.FailureFields); fields != "" {
			fmt.Fprintf(os.Stderr, "    Fields: %s\n", clr("dim", fields))
		}
		if batchReport != "" {
			fmt.Fprintf(os.Stderr, "    Report: %s\n", clr("green", batchReport))
		}
		fmt.Fprintln(os.Stderr)
	}
}
