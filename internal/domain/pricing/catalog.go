package pricing

import (
	"strconv"
	"strings"
)

type MenuItem struct {
	ID       uint
	Name     string
	Category string
}

type Category struct {
	Name          string
	PerGuestPrice float64
}

// Catalog resolves menu selections and category rates.
type Catalog interface {
	ResolveMenuItem(idOrName string) (MenuItem, bool)
	Category(name string) (Category, bool)
}

// StaticCatalog is an immutable snapshot; a bulk pass prices every appointment against the
// same one.
type StaticCatalog struct {
	byID       map[uint]MenuItem
	byName     map[string]MenuItem
	categories map[string]Category
}

func NewStaticCatalog(items []MenuItem, categories []Category) *StaticCatalog {
	c := &StaticCatalog{
		byID:       make(map[uint]MenuItem, len(items)),
		byName:     make(map[string]MenuItem, len(items)),
		categories: make(map[string]Category, len(categories)),
	}

	for _, it := range items {
		c.byID[it.ID] = it
		c.byName[normalize(it.Name)] = it
	}
	for _, cat := range categories {
		c.categories[normalize(cat.Name)] = cat
	}

	return c
}

func (c *StaticCatalog) ResolveMenuItem(idOrName string) (MenuItem, bool) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return MenuItem{}, false
	}

	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		if it, ok := c.byID[uint(id)]; ok {
			return it, true
		}
	}

	it, ok := c.byName[normalize(key)]
	return it, ok
}

func (c *StaticCatalog) Category(name string) (Category, bool) {
	cat, ok := c.categories[normalize(name)]
	return cat, ok
}

// WithCategoryPrice returns a copy of the snapshot with one category repriced.
func (c *StaticCatalog) WithCategoryPrice(name string, price float64) *StaticCatalog {
	out := &StaticCatalog{
		byID:       c.byID,
		byName:     c.byName,
		categories: make(map[string]Category, len(c.categories)),
	}
	for k, v := range c.categories {
		out.categories[k] = v
	}
	if cat, ok := out.categories[normalize(name)]; ok {
		cat.PerGuestPrice = price
		out.categories[normalize(name)] = cat
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
