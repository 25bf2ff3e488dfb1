// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package discovery turns a raw candidate pool of products into ranked,
// paginated, per-viewer result sets. Ordering and filtering are pure,
// request-scoped transformations: they never mutate the products they
// receive and take the current time as an argument instead of reading it.
package discovery

import (
	"strings"

	"stackshelf/internal/models"
)

// BelongsTo reports whether product shares at least one tag with category.
// Tags compare lowercased; whitespace is significant. Products without tags
// belong to no category.
func BelongsTo(product *models.Product, category *models.Category) bool {
	if product == nil || category == nil || len(product.Tags) == 0 || len(category.Tags) == 0 {
		return false
	}
	wanted := make(map[string]struct{}, len(category.Tags))
	for _, tag := range category.Tags {
		wanted[strings.ToLower(tag)] = struct{}{}
	}
	for _, tag := range product.Tags {
		if _, ok := wanted[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

// UsesTech reports whether product lists tech in its tech stack. The target
// usually comes from a URL segment, so it is trimmed before comparison.
// Matching is exact per element, never substring.
func UsesTech(product *models.Product, tech string) bool {
	if product == nil {
		return false
	}
	return containsFolded(product.TechStack, tech)
}

// HasTag reports whether product carries tag, using the same rule as
// UsesTech. It narrows category pages by a single tag.
func HasTag(product *models.Product, tag string) bool {
	if product == nil {
		return false
	}
	return containsFolded(product.Tags, tag)
}

func containsFolded(values models.Tags, target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return false
	}
	for _, v := range values {
		if strings.ToLower(v) == target {
			return true
		}
	}
	return false
}

// FilterCategory returns the products that belong to category, in order.
func FilterCategory(products []models.Product, category *models.Category) []models.Product {
	return filter(products, func(p *models.Product) bool { return BelongsTo(p, category) })
}

// FilterTech returns the products whose tech stack includes tech, in order.
func FilterTech(products []models.Product, tech string) []models.Product {
	return filter(products, func(p *models.Product) bool { return UsesTech(p, tech) })
}

// FilterTag returns the products carrying tag, in order.
func FilterTag(products []models.Product, tag string) []models.Product {
	return filter(products, func(p *models.Product) bool { return HasTag(p, tag) })
}

func filter(products []models.Product, keep func(*models.Product) bool) []models.Product {
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if keep(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// CountByCategory returns how many products belong to each category, keyed
// by category slug.
func CountByCategory(products []models.Product, categories []models.Category) map[string]int {
	counts := make(map[string]int, len(categories))
	for ci := range categories {
		c := &categories[ci]
		counts[c.Slug] = 0
		for pi := range products {
			if BelongsTo(&products[pi], c) {
				counts[c.Slug]++
			}
		}
	}
	return counts
}
