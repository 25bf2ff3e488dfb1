// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs, leaving room for a uniqueness suffix
// inside the 200-character column.
const MaxLength = 80

// Fallback is used when a name contains nothing sluggable.
const Fallback = "product"

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace collapses runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Accents are
// stripped rather than dropped.
// Example: "Café Finder 2026!" → "cafe-finder-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(stripMarks(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ForProduct returns the base slug for a product name: Generate, truncated
// to MaxLength, falling back to Fallback when nothing remains.
func ForProduct(name string) string {
	s := Generate(name)
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	if s == "" {
		return Fallback
	}
	return s
}

// WithSuffix returns the n-th alternative for a taken slug: base-2, base-3...
// n < 2 returns base unchanged.
func WithSuffix(base string, n int) string {
	if n < 2 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
