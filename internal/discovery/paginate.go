// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"strconv"
	"strings"
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the 1-indexed page of items. Pages below 1 clamp to 1 and
// pages past the end come back empty with correct totals.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	result := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: total / pageSize,
	}
	if total%pageSize != 0 {
		result.TotalPages++
	}

	// Checked before multiplying so a huge page cannot overflow the offset.
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	result.Items = items[start:end]
	return result
}

// ParsePage reads a page query parameter. Anything that is not a positive
// integer becomes 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
