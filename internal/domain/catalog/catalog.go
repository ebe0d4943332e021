// Package catalog describes the hiscore categories and the fixed line
// position each one occupies in a lookup response.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when catalog entries break the index invariants.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Category is one trackable ranking dimension.
type Category struct {
	Name string
	// APIIndex is the zero-based response line holding this category.
	APIIndex int
	// ExperienceBearing marks skills, whose third response field is experience.
	ExperienceBearing bool
	// Aggregate marks the overall entry summarising every skill.
	Aggregate bool
}

// String returns the display name.
func (c Category) String() string { return c.Name }

// Catalog is an ordered, immutable list of categories.
type Catalog struct {
	categories []Category
	byName     map[string]int
	aggregate  int
}

// New validates categories and builds a Catalog. Indices must be unique and
// contiguous from 0 in the given order, and at most one entry may be the aggregate.
func New(categories ...Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, len(categories)),
		byName:     make(map[string]int, len(categories)),
		aggregate:  -1,
	}
	copy(c.categories, categories)

	for i, cat := range c.categories {
		if cat.APIIndex != i {
			return nil, fmt.Errorf("%w: %q has index %d at position %d", ErrInvalidCatalog, cat.Name, cat.APIIndex, i)
		}
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("%w: empty name at position %d", ErrInvalidCatalog, i)
		}
		key := strings.ToLower(cat.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidCatalog, cat.Name)
		}
		c.byName[key] = i
		if cat.Aggregate {
			if c.aggregate >= 0 {
				return nil, fmt.Errorf("%w: more than one aggregate entry", ErrInvalidCatalog)
			}
			c.aggregate = i
		}
	}
	return c, nil
}

// MustNew is New that panics on error. Intended for package-level catalogs.
func MustNew(categories ...Category) *Catalog {
	c, err := New(categories...)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns a copy of the categories in response order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }

// At returns the category at response index i.
func (c *Catalog) At(i int) (Category, bool) {
	if i < 0 || i >= len(c.categories) {
		return Category{}, false
	}
	return c.categories[i], true
}

// Aggregate returns the aggregate category, if the catalog has one.
func (c *Catalog) Aggregate() (Category, bool) {
	if c.aggregate < 0 {
		return Category{}, false
	}
	return c.categories[c.aggregate], true
}

// ByName looks a category up by its display name, case-insensitively.
func (c *Catalog) ByName(name string) (Category, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}
