// Package server exposes the scraper over HTTP. Callers post the HTML
// they already have; the server never fetches pages itself.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ramkansal/recipe-scrapers/internal/diagnostics"
	"github.com/ramkansal/recipe-scrapers/internal/sites"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
	"github.com/ramkansal/recipe-scrapers/pkg/scraper"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server settings.
type Config struct {
	Addr         string
	Debug        bool
	MaxBodyBytes int64
	// Options is the base scraper configuration for every request.
	Options scraper.Options
	// Catalog backs site lookup and the /v1/sites listing. Defaults to the
	// built-in catalog.
	Catalog *sites.Catalog
}

// Server is the HTTP API.
type Server struct {
	config Config
	log    zerolog.Logger
	router *gin.Engine
}

// New builds the router.
func New(config Config, log zerolog.Logger) *Server {
	if config.Catalog == nil {
		config.Catalog = sites.Builtin()
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 4 << 20
	}
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		log:    log.With().Str("component", "server").Logger(),
	}

	router := gin.New()
	router.Use(recovery(s.log))
	router.Use(requestid.New())
	router.Use(requestLogger(s.log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(bodySizeLimit(config.MaxBodyBytes, s.log))

	router.GET("/healthz", s.handleHealth)
	v1 := router.Group("/v1")
	{
		v1.POST("/scrape", s.handleScrape)
		v1.GET("/sites", s.handleSites)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// ---------- handlers ----------

type scrapeRequest struct {
	URL   string `json:"url" binding:"required"`
	HTML  string `json:"html" binding:"required"`
	Links bool   `json:"links"`
}

type diagnosticsBody struct {
	Summary  []diagnostics.FieldSummary `json:"summary"`
	Failures []plugin.FailureRecord     `json:"failures"`
}

type scrapeResponse struct {
	Recipe      *plugin.RecipeObject `json:"recipe,omitempty"`
	Error       string               `json:"error,omitempty"`
	Diagnostics *diagnosticsBody     `json:"diagnostics,omitempty"`
}

func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, scrapeResponse{Error: err.Error()})
		return
	}

	opts := s.config.Options
	opts.LinksEnabled = opts.LinksEnabled || req.Links
	opts.Sites = s.config.Catalog.Lookup
	log := s.log.With().Str("request_id", requestid.Get(c)).Logger()
	opts.Logger = &log

	sc, err := scraper.New(req.HTML, req.URL, opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, plugin.ErrUnsupportedSite) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, scrapeResponse{Error: err.Error()})
		return
	}

	obj, err := sc.ToObject(c.Request.Context())
	diag := &diagnosticsBody{
		Summary:  sc.Diagnostics().Summary(),
		Failures: sc.Diagnostics().Records(),
	}
	switch {
	case errors.Is(err, plugin.ErrExtractorNotFound):
		c.JSON(http.StatusUnprocessableEntity, scrapeResponse{Error: err.Error(), Diagnostics: diag})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, scrapeResponse{Error: err.Error(), Diagnostics: diag})
	default:
		c.JSON(http.StatusOK, scrapeResponse{Recipe: obj, Diagnostics: diag})
	}
}

type siteEntry struct {
	Host string `json:"host"`
	Name string `json:"name"`
}

func (s *Server) handleSites(c *gin.Context) {
	all := s.config.Catalog.Sites()
	out := make([]siteEntry, len(all))
	for i, site := range all {
		out[i] = siteEntry{Host: site.Host, Name: site.Name}
	}
	c.JSON(http.StatusOK, gin.H{"sites": out})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"sites":  s.config.Catalog.Len(),
	})
}
