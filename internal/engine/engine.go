// Package engine resolves a single field by running the plugin chain, the
// site override and the documented default, in that order.
package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/ramkansal/recipe-scrapers/internal/diagnostics"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Override is a site override bound to its page. prev is nil when the
// plugin chain produced nothing.
type Override func(ctx context.Context, prev any) (any, error)

// Engine runs the extraction chain for one scraper instance.
type Engine struct {
	name       string
	extractors []plugin.Extractor
	ledger     *diagnostics.Ledger
	log        zerolog.Logger
}

// New creates an engine. name attributes override outcomes in the ledger;
// extractors must already be in priority order.
func New(name string, extractors []plugin.Extractor, ledger *diagnostics.Ledger, log zerolog.Logger) *Engine {
	if ledger == nil {
		ledger = diagnostics.New()
	}
	return &Engine{
		name:       name,
		extractors: extractors,
		ledger:     ledger,
		log:        log.With().Str("component", "engine").Str("scraper", name).Logger(),
	}
}

// Extract resolves field. Plugin and override failures are recorded in the
// ledger and never returned; the only error is *plugin.NotFoundError (or the
// context error when ctx is done).
func (e *Engine) Extract(ctx context.Context, field plugin.Field, override Override) (any, error) {
	var (
		value any
		found bool
	)
	log := e.log.With().Stringer("field", field).Logger()
	log.Debug().Msg("extracting field")

	for _, p := range e.extractors {
		if found {
			break
		}
		if !p.Supports(field) {
			log.Trace().Str("plugin", p.Name()).Msg("field is not supported")
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := callPlugin(ctx, p, field)
		switch {
		case err != nil:
			log.Debug().Err(err).Str("plugin", p.Name()).Msg("plugin failed")
			e.ledger.RecordFailure(p.Name(), field, err)
		case v == nil:
			log.Trace().Str("plugin", p.Name()).Msg("plugin returned no value")
		case !plugin.CheckValue(field, v):
			e.ledger.RecordFailure(p.Name(), field, plugin.Invalid(field, v))
		default:
			value, found = v, true
			e.ledger.RecordSuccess(p.Name(), field)
		}
	}

	if override != nil {
		log.Debug().Msg("using site override")
		log.Trace().Interface("current", value).Msg("override input")

		v, err := callOverride(ctx, override, value)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("site override failed")
			e.ledger.RecordFailure(e.name, field, err)
		case v != nil && !plugin.CheckValue(field, v):
			e.ledger.RecordFailure(e.name, field, plugin.Invalid(field, v))
		default:
			value, found = v, v != nil
			if found {
				e.ledger.RecordSuccess(e.name, field)
			}
		}
	}

	if !found {
		if def, ok := Default(field); ok {
			log.Debug().Msg("using default value")
			return def, nil
		}
		return nil, &plugin.NotFoundError{Field: field}
	}
	return value, nil
}

func callPlugin(ctx context.Context, p plugin.Extractor, field plugin.Field) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.Newf("plugin %s panicked: %v", p.Name(), r)
		}
	}()
	return p.Extract(ctx, field)
}

func callOverride(ctx context.Context, fn Override, prev any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.Newf("override panicked: %v", r)
		}
	}()
	return fn(ctx, prev)
}
