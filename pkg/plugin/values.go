package plugin

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ---------- Ordered set ----------

// List is an insertion-ordered set of unique strings.
type List struct {
	items []string
	index map[string]struct{}
}

// NewList builds a list from items, dropping duplicates.
func NewList(items ...string) *List {
	l := &List{index: make(map[string]struct{}, len(items))}
	for _, it := range items {
		l.Add(it)
	}
	return l
}

// Add appends s unless it is already present. It reports whether s was added.
func (l *List) Add(s string) bool {
	if l.index == nil {
		l.index = make(map[string]struct{})
	}
	if _, ok := l.index[s]; ok {
		return false
	}
	l.index[s] = struct{}{}
	l.items = append(l.items, s)
	return true
}

// Contains reports whether s is in the list.
func (l *List) Contains(s string) bool {
	if l == nil {
		return false
	}
	_, ok := l.index[s]
	return ok
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Items returns a copy of the items in insertion order.
func (l *List) Items() []string {
	if l == nil {
		return []string{}
	}
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// MarshalJSON emits the list as a plain array, never null.
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Items())
}

// ---------- Ingredients ----------

// DefaultGroupName is used for ingredients that appear before any heading.
const DefaultGroupName = "Ingredients"

// Ingredients is either an IngredientList (flat) or IngredientGroups
// (group name to subset). Code consuming it switches on the concrete type.
type Ingredients interface {
	isIngredients()
	// Count returns the total number of ingredient lines.
	Count() int
}

// IngredientList is the flat ingredients variant.
type IngredientList struct {
	List *List
}

// IngredientGroups is the grouped ingredients variant.
type IngredientGroups struct {
	Groups *orderedmap.OrderedMap[string, *List]
}

func (IngredientList) isIngredients()   {}
func (IngredientGroups) isIngredients() {}

func (i IngredientList) Count() int { return i.List.Len() }

func (i IngredientGroups) Count() int {
	n := 0
	for pair := i.Groups.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.Len()
	}
	return n
}

// FlatIngredients wraps items as the flat variant.
func FlatIngredients(items ...string) IngredientList {
	return IngredientList{List: NewList(items...)}
}

// NewIngredientGroups returns an empty grouped variant.
func NewIngredientGroups() IngredientGroups {
	return IngredientGroups{Groups: orderedmap.New[string, *List]()}
}

// Group returns the named group, creating it at the end if absent.
func (i IngredientGroups) Group(name string) *List {
	if l, ok := i.Groups.Get(name); ok {
		return l
	}
	l := NewList()
	i.Groups.Set(name, l)
	return l
}

// ---------- Mapping ----------

// Mapping is an insertion-ordered string to string map. Used for nutrients
// and reviews; it marshals to a plain JSON object in insertion order.
type Mapping = orderedmap.OrderedMap[string, string]

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return orderedmap.New[string, string]()
}

// ---------- Links ----------

// Link is one anchor found on the page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}
