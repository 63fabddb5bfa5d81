package schemaorg

import "strings"

// EntityType is the vocabulary type of a node in a linked-data graph.
type EntityType string

const (
	TypeRecipe          EntityType = "Recipe"
	TypePerson          EntityType = "Person"
	TypeOrganization    EntityType = "Organization"
	TypeAggregateRating EntityType = "AggregateRating"
	TypeWebSite         EntityType = "WebSite"
	TypeWebPage         EntityType = "WebPage"
	TypeHowToStep       EntityType = "HowToStep"
	TypeHowToSection    EntityType = "HowToSection"
	TypeRestrictedDiet  EntityType = "RestrictedDiet"
	// TypeThing is any other typed node.
	TypeThing EntityType = "Thing"
)

// classifyOrder decides which type wins for multi-typed nodes.
var classifyOrder = []EntityType{
	TypeRecipe,
	TypeHowToSection,
	TypeHowToStep,
	TypeAggregateRating,
	TypePerson,
	TypeOrganization,
	TypeWebPage,
	TypeWebSite,
	TypeRestrictedDiet,
}

// Entity is one decoded JSON-LD or microdata object.
type Entity map[string]any

// asEntity returns v as an Entity when it is a JSON object.
func asEntity(v any) (Entity, bool) {
	switch m := v.(type) {
	case Entity:
		return m, true
	case map[string]any:
		return Entity(m), true
	}
	return nil, false
}

// Types returns the entity's @type values with vocabulary prefixes removed.
func (e Entity) Types() []string {
	var raw []string
	switch t := e["@type"].(type) {
	case string:
		raw = []string{t}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		out = append(out, bareType(t))
	}
	return out
}

// Is reports whether any of the entity's types equals t.
func (e Entity) Is(t EntityType) bool {
	for _, have := range e.Types() {
		if have == string(t) {
			return true
		}
	}
	return false
}

// Typed reports whether the entity carries a type tag.
func (e Entity) Typed() bool {
	return len(e.Types()) > 0
}

// ID returns the @id of the entity, if it is a string.
func (e Entity) ID() string {
	id, _ := e["@id"].(string)
	return id
}

// Key returns the identifier used by the graph indexes: @id, else url.
func (e Entity) Key() string {
	if id := e.ID(); id != "" {
		return id
	}
	u, _ := e["url"].(string)
	return u
}

// Graph returns the @graph members when the entity is a graph container.
func (e Entity) Graph() ([]any, bool) {
	g, ok := e["@graph"].([]any)
	return g, ok
}

// Classify returns the entity's kind, or "" when v is not a typed object.
func Classify(v any) EntityType {
	e, ok := asEntity(v)
	if !ok || !e.Typed() {
		return ""
	}
	for _, t := range classifyOrder {
		if e.Is(t) {
			return t
		}
	}
	for _, t := range e.Types() {
		if strings.HasSuffix(t, "Organization") {
			return TypeOrganization
		}
	}
	return TypeThing
}

func bareType(t string) string {
	t = strings.TrimSpace(t)
	for _, prefix := range []string{"https://schema.org/", "http://schema.org/", "schema:"} {
		if strings.HasPrefix(t, prefix) {
			return t[len(prefix):]
		}
	}
	return t
}

// EntityGraph is the resolved, read-only view of a document's structured data.
type EntityGraph struct {
	// Recipe merges every Recipe node; later nodes win per key.
	Recipe        Entity
	People        map[string]Entity
	Ratings       map[string]Entity
	Organizations map[string]Entity
	WebsiteName   string
}

func newEntityGraph() *EntityGraph {
	return &EntityGraph{
		Recipe:        Entity{"@type": string(TypeRecipe)},
		People:        make(map[string]Entity),
		Ratings:       make(map[string]Entity),
		Organizations: make(map[string]Entity),
	}
}

// HasRecipe reports whether any Recipe node contributed fields.
func (g *EntityGraph) HasRecipe() bool {
	return len(g.Recipe) > 1
}

// add classifies v and folds it into the graph.
func (g *EntityGraph) add(v any) {
	e, ok := asEntity(v)
	if !ok {
		return
	}
	switch Classify(e) {
	case TypeRecipe:
		for k, val := range e {
			if k == "@type" {
				continue
			}
			g.Recipe[k] = val
		}
	case TypeWebSite:
		if name := TextValue(e); name != "" {
			g.WebsiteName = name
		}
	case TypeWebPage:
		switch main := e["mainEntity"].(type) {
		case []any:
			for _, m := range main {
				g.add(m)
			}
		default:
			g.add(main)
		}
	case TypePerson:
		if key := e.Key(); key != "" {
			g.People[key] = e
		}
	case TypeAggregateRating:
		if id := e.ID(); id != "" {
			g.Ratings[id] = e
		}
	case TypeOrganization:
		if id := e.ID(); id != "" {
			g.Organizations[id] = e
		}
	}
}
