// Package extractor holds the plugin registry and the built-in page-level
// plugins: OpenGraph meta tags, document metadata and the HTML stripper.
package extractor

import (
	"sort"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Registry holds the priority-ordered extractor and post-processor chains.
type Registry struct {
	extractors     []plugin.Extractor
	postProcessors []plugin.PostProcessor
}

// Compose concatenates base and extra plugins and stable-sorts each chain by
// descending priority, so equal priorities keep their input order.
func Compose(baseExtractors []plugin.Extractor, basePost []plugin.PostProcessor,
	extraExtractors []plugin.Extractor, extraPost []plugin.PostProcessor) *Registry {
	r := &Registry{}
	r.extractors = append(append(r.extractors, baseExtractors...), extraExtractors...)
	r.postProcessors = append(append(r.postProcessors, basePost...), extraPost...)
	r.sort()
	return r
}

func (r *Registry) sort() {
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() > r.extractors[j].Priority()
	})
	sort.SliceStable(r.postProcessors, func(i, j int) bool {
		return r.postProcessors[i].Priority() > r.postProcessors[j].Priority()
	})
}

// Extractors returns the extractor chain, highest priority first.
func (r *Registry) Extractors() []plugin.Extractor {
	out := make([]plugin.Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// PostProcessors returns the post-processor chain, highest priority first.
func (r *Registry) PostProcessors() []plugin.PostProcessor {
	out := make([]plugin.PostProcessor, len(r.postProcessors))
	copy(out, r.postProcessors)
	return out
}

// Names returns the names of all registered extractors in chain order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.extractors))
	for i, ext := range r.extractors {
		names[i] = ext.Name()
	}
	return names
}
