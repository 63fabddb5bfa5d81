// Package sites holds the per-host override tables. Each site is a data
// value: a host plus a map from field to override function.
package sites

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Catalog indexes sites by host. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	sites map[string]*plugin.Site
}

// NewCatalog returns a catalog holding sites. Later sites replace earlier
// ones with the same host.
func NewCatalog(sites ...*plugin.Site) *Catalog {
	c := &Catalog{sites: make(map[string]*plugin.Site, len(sites))}
	for _, s := range sites {
		c.Add(s)
	}
	return c
}

// Add registers site under its normalized host.
func (c *Catalog) Add(site *plugin.Site) {
	if site == nil || site.Host == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sites[NormalizeHost(site.Host)] = site
}

// Lookup finds the site for host. "www." and letter case are ignored.
func (c *Catalog) Lookup(host string) (*plugin.Site, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sites[NormalizeHost(host)]
	return s, ok
}

// Sites returns every registered site ordered by host.
func (c *Catalog) Sites() []*plugin.Site {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*plugin.Site, 0, len(c.sites))
	for _, s := range c.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out
}

// Len returns the number of registered sites.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sites)
}

// NormalizeHost lowercases host and strips a leading "www.".
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
}

// newSite builds a site whose host field always reports host.
func newSite(name, host string, overrides map[plugin.Field]plugin.OverrideFunc) *plugin.Site {
	if overrides == nil {
		overrides = make(map[plugin.Field]plugin.OverrideFunc)
	}
	if _, ok := overrides[plugin.FieldHost]; !ok {
		overrides[plugin.FieldHost] = func(context.Context, *plugin.Page, any) (any, error) {
			return host, nil
		}
	}
	return &plugin.Site{Name: name, Host: host, Overrides: overrides}
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the shared catalog of compiled-in sites.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		builtin = NewCatalog(builtinSites()...)
	})
	return builtin
}

// Lookup searches the built-in catalog.
func Lookup(host string) (*plugin.Site, bool) {
	return Builtin().Lookup(host)
}
