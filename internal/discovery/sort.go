// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"stackshelf/internal/models"
)

// SortKey names an ordering for product listings.
type SortKey string

const (
	SortFeatured SortKey = "featured"
	SortLikes    SortKey = "likes"
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
)

// sortAliases maps every accepted spelling to its canonical key.
var sortAliases = map[string]SortKey{
	"featured":   SortFeatured,
	"likes":      SortLikes,
	"most-liked": SortLikes,
	"newest":     SortNewest,
	"latest":     SortNewest,
	"oldest":     SortOldest,
	"older":      SortOldest,
	"name-asc":   SortNameAsc,
	"a-z":        SortNameAsc,
	"name-desc":  SortNameDesc,
	"z-a":        SortNameDesc,
}

// ParseSortKey resolves a raw query parameter to a SortKey. Sort keys come
// from untrusted input, so anything unrecognized yields fallback.
func ParseSortKey(raw string, fallback SortKey) SortKey {
	if key, ok := sortAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return key
	}
	return fallback
}

// Sort returns a sorted copy of products. The sort is stable, so equal
// elements keep their relative order and sorting twice changes nothing.
// Unknown keys leave the order untouched.
func Sort(products []models.Product, key SortKey, now time.Time) []models.Product {
	out := slices.Clone(products)
	cmpFn := comparator(key, now)
	if cmpFn == nil {
		return out
	}
	slices.SortStableFunc(out, cmpFn)
	return out
}

func comparator(key SortKey, now time.Time) func(a, b models.Product) int {
	switch key {
	case SortFeatured:
		return func(a, b models.Product) int {
			ab, bb := BoostActive(&a, now), BoostActive(&b, now)
			if ab != bb {
				if ab {
					return -1
				}
				return 1
			}
			return cmp.Compare(b.LikesCount, a.LikesCount)
		}
	case SortLikes:
		return func(a, b models.Product) int {
			return cmp.Compare(b.LikesCount, a.LikesCount)
		}
	case SortNewest:
		return func(a, b models.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	case SortOldest:
		return func(a, b models.Product) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortNameAsc:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortNameDesc:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name))
		}
	}
	return nil
}
