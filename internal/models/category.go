// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is a static browse bucket. Products are not assigned to categories
// directly; a product belongs to a category when it shares at least one tag
// with it. The order of Tags only matters for display.
type Category struct {
	Name        string   `json:"name" koanf:"name"`
	Slug        string   `json:"slug" koanf:"slug"`
	Description string   `json:"description,omitempty" koanf:"description"`
	Tags        []string `json:"tags" koanf:"tags"`

	// Virtual field populated by the categories endpoint.
	ProductCount int `json:"product_count" koanf:"-"`
}
