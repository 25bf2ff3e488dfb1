// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static category configuration. Categories are
// read once at startup, either from a YAML file or from the built-in set.
package catalog

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"stackshelf/internal/models"
)

// Catalog is an immutable, ordered set of categories indexed by slug.
type Catalog struct {
	categories []models.Category
	bySlug     map[string]int
}

// Load reads categories from the YAML file at path. The file holds a
// top-level "categories" list. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load categories file %s: %w", path, err)
	}

	var categories []models.Category
	if err := k.Unmarshal("categories", &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}
	return New(categories)
}

// New builds a Catalog, rejecting categories without a name or slug and
// duplicate slugs.
func New(categories []models.Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]models.Category, 0, len(categories)),
		bySlug:     make(map[string]int, len(categories)),
	}
	for i, cat := range categories {
		cat.Slug = strings.TrimSpace(cat.Slug)
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Slug == "" || cat.Name == "" {
			return nil, fmt.Errorf("category %d: name and slug are required", i)
		}
		if _, dup := c.bySlug[cat.Slug]; dup {
			return nil, fmt.Errorf("duplicate category slug %q", cat.Slug)
		}
		cat.Tags = append([]string(nil), cat.Tags...)
		cat.ProductCount = 0
		c.bySlug[cat.Slug] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// All returns a copy of the categories in configuration order.
func (c *Catalog) All() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Find returns the category with the given slug, or nil.
func (c *Catalog) Find(slug string) *models.Category {
	i, ok := c.bySlug[slug]
	if !ok {
		return nil
	}
	cat := c.categories[i]
	return &cat
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}
