// Package icons loads the icon catalog from icon-families metadata.
package icons

import (
	"strings"
	"sync"

	"tiles-cli/internal/model"
	"tiles-cli/internal/reactive"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

type loadState int

const (
	stateUninitialized loadState = iota
	stateLoaded
)

// Catalog is the session's icon list. It is built from its Source at most once.
type Catalog struct {
	source Source

	mu      sync.Mutex
	state   loadState
	loadErr error
	byName  map[string]int

	icons *reactive.Writable[[]model.Icon]
}

func NewCatalog(src Source) *Catalog {
	if src == nil {
		src = Bundled()
	}
	return &Catalog{
		source: src,
		icons:  reactive.NewWritable([]model.Icon{}),
	}
}

// Load reads and transforms the source on first call and publishes the result.
// Later calls do nothing. A source that cannot be read leaves the catalog empty; see LoadErr.
func (c *Catalog) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateLoaded {
		return
	}

	list := []model.Icon{}
	b, err := c.source()
	if err != nil {
		c.loadErr = err
	} else {
		list = Parse(b)
	}
	c.byName = make(map[string]int, len(list))
	for i, ic := range list {
		if _, dup := c.byName[ic.Name]; !dup {
			c.byName[ic.Name] = i
		}
	}
	c.state = stateLoaded
	c.icons.Set(list)
}

func (c *Catalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateLoaded
}

// LoadErr reports why the source could not be read, if it could not.
func (c *Catalog) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Subscribe loads the catalog if needed, so fn never observes the uninitialized list.
func (c *Catalog) Subscribe(fn func([]model.Icon)) func() {
	c.Load()
	return c.icons.Subscribe(fn)
}

// Icons returns the loaded list. Callers must not modify it.
func (c *Catalog) Icons() []model.Icon {
	c.Load()
	return c.icons.Get()
}

func (c *Catalog) Find(name string) (model.Icon, bool) {
	list := c.Icons()
	c.mu.Lock()
	i, ok := c.byName[strings.TrimSpace(name)]
	c.mu.Unlock()
	if !ok {
		return model.Icon{}, false
	}
	return list[i], true
}

type searchSource []model.Icon

func (s searchSource) Len() int { return len(s) }

func (s searchSource) String(i int) string {
	ic := s[i]
	return ic.Name + " " + ic.Label + " " + strings.Join(ic.Terms, " ")
}

// Search fuzzy-matches query against name, label and search terms, best match first.
// An empty query returns the catalog in source order. limit <= 0 means no limit.
func (c *Catalog) Search(query string, limit int) []model.Icon {
	list := c.Icons()
	query = strings.TrimSpace(query)
	out := []model.Icon{}
	if query == "" {
		out = append(out, list...)
	} else {
		for _, m := range fuzzy.FindFrom(query, searchSource(list)) {
			out = append(out, list[m.Index])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MatchTerm returns icons whose name, label or a search term equals term under Unicode case folding.
func (c *Catalog) MatchTerm(term string) []model.Icon {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(term))
	out := []model.Icon{}
	if want == "" {
		return out
	}
	for _, ic := range c.Icons() {
		if fold.String(ic.Name) == want || fold.String(ic.Label) == want {
			out = append(out, ic)
			continue
		}
		for _, t := range ic.Terms {
			if fold.String(t) == want {
				out = append(out, ic)
				break
			}
		}
	}
	return out
}
