package wellplate

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is an ordered, read-only set of plates indexed by ModelID.
type Catalog struct {
	plates []Wellplate
	byID   map[string]int
}

// NewCatalog validates plates and indexes them. Model ids must be unique.
func NewCatalog(plates ...Wellplate) (*Catalog, error) {
	c := &Catalog{
		plates: make([]Wellplate, 0, len(plates)),
		byID:   make(map[string]int, len(plates)),
	}
	for i, p := range plates {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("plate %d (%s): %w", i, p.ModelID, err)
		}
		if prev, ok := c.byID[p.ModelID]; ok {
			return nil, fmt.Errorf("plate %d: duplicate model id %q (first used by plate %d)", i, p.ModelID, prev)
		}
		c.byID[p.ModelID] = len(c.plates)
		c.plates = append(c.plates, p)
	}
	return c, nil
}

// Lookup returns the plate with the given model id.
func (c *Catalog) Lookup(id string) (Wellplate, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Wellplate{}, false
	}
	return c.plates[i], true
}

// MustLookup is like Lookup but panics on unknown ids. Intended for static data.
func (c *Catalog) MustLookup(id string) Wellplate {
	p, ok := c.Lookup(id)
	if !ok {
		panic("wellplate: unknown model id " + id)
	}
	return p
}

// All returns the plates in catalog order.
func (c *Catalog) All() []Wellplate {
	return append([]Wellplate(nil), c.plates...)
}

// Len returns the number of plates.
func (c *Catalog) Len() int {
	return len(c.plates)
}

// IDs returns all model ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.plates))
	for i, p := range c.plates {
		ids[i] = p.ModelID
	}
	return ids
}

// Manufacturers returns the distinct manufacturer names, sorted.
func (c *Catalog) Manufacturers() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.plates {
		if _, ok := seen[p.Manufacturer]; ok {
			continue
		}
		seen[p.Manufacturer] = struct{}{}
		out = append(out, p.Manufacturer)
	}
	sort.Strings(out)
	return out
}

// ByManufacturer returns the plates of one manufacturer in catalog order.
func (c *Catalog) ByManufacturer(name string) []Wellplate {
	var out []Wellplate
	for _, p := range c.plates {
		if p.Manufacturer == name {
			out = append(out, p)
		}
	}
	return out
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(knownPlates()...)
	if err != nil {
		panic("wellplate: invalid built-in catalog: " + err.Error())
	}
	return c
})

// Default returns the catalog of known plates.
func Default() *Catalog {
	return defaultCatalog()
}
