// Package catalog provides the lookup tables that translate region and
// budget-category display names into GUS identifiers.
package catalog

import "fmt"

// Kind names which catalog a lookup was made against.
type Kind string

const (
	KindRegion   Kind = "region"
	KindCategory Kind = "category"
)

// Entry is a single display name and its upstream identifier.
type Entry struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}

// LookupError is returned when a name is not present in a catalog.
type LookupError struct {
	Kind Kind
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Catalog is an immutable, ordered name-to-identifier table.
type Catalog struct {
	kind    Kind
	entries []Entry
	byName  map[string]int64
}

// New builds a Catalog from entries, keeping their order.
// Duplicate names or identifiers are rejected.
func New(kind Kind, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		kind:    kind,
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int64, len(entries)),
	}

	seenIDs := make(map[int64]string, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%s catalog: empty name for id %d", kind, e.ID)
		}
		if _, ok := c.byName[e.Name]; ok {
			return nil, fmt.Errorf("%s catalog: duplicate name %q", kind, e.Name)
		}
		if other, ok := seenIDs[e.ID]; ok {
			return nil, fmt.Errorf("%s catalog: id %d used by both %q and %q", kind, e.ID, other, e.Name)
		}
		seenIDs[e.ID] = e.Name
		c.byName[e.Name] = e.ID
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// Kind returns which catalog this is.
func (c *Catalog) Kind() Kind {
	return c.kind
}

// Lookup returns the identifier for name.
func (c *Catalog) Lookup(name string) (int64, error) {
	id, ok := c.byName[name]
	if !ok {
		return 0, &LookupError{Kind: c.kind, Name: name}
	}
	return id, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the i-th entry in display order.
func (c *Catalog) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Names returns the display names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of all entries in display order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Catalogs bundles the region and category tables.
type Catalogs struct {
	Regions    *Catalog
	Categories *Catalog
}

// Resolve looks up both names and returns their identifiers.
func (c *Catalogs) Resolve(region, category string) (regionID, categoryID int64, err error) {
	regionID, err = c.Regions.Lookup(region)
	if err != nil {
		return 0, 0, err
	}
	categoryID, err = c.Categories.Lookup(category)
	if err != nil {
		return 0, 0, err
	}
	return regionID, categoryID, nil
}
