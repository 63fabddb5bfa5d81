// Package schemaorg resolves a document's JSON-LD blocks and microdata
// annotations into a single recipe view and reads record fields from it.
package schemaorg

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Resolver owns the entity graph built for one document. It is read-only
// after construction and safe for concurrent use.
type Resolver struct {
	graph *EntityGraph
	log   zerolog.Logger
}

// NewResolver scans doc once: JSON-LD blocks first, then microdata recipe
// scopes, so microdata values win on shared keys.
func NewResolver(doc *goquery.Document, log zerolog.Logger) *Resolver {
	r := &Resolver{
		graph: newEntityGraph(),
		log:   log.With().Str("component", "schemaorg").Logger(),
	}

	var blocks []Entity
	if doc != nil {
		blocks = append(blocks, scanJSONLD(doc, r.log)...)
		for _, md := range scanMicrodata(doc, recipeScopeSelector) {
			if Classify(md) == TypeRecipe {
				blocks = append(blocks, md)
			}
		}
	}

	for _, b := range blocks {
		if members, ok := b.Graph(); ok {
			for _, m := range members {
				r.graph.add(m)
			}
			continue
		}
		r.graph.add(b)
	}

	r.log.Debug().
		Int("blocks", len(blocks)).
		Bool("recipe", r.graph.HasRecipe()).
		Int("people", len(r.graph.People)).
		Int("ratings", len(r.graph.Ratings)).
		Msg("structured data resolved")
	return r
}

// Graph returns the resolved entity graph.
func (r *Resolver) Graph() *EntityGraph {
	return r.graph
}

// recipe is shorthand for the merged Recipe entity.
func (r *Resolver) recipe() Entity {
	return r.graph.Recipe
}
