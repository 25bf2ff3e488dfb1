// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a directory entry. LikesCount is a denormalized aggregate owned
// by the like subsystem; everything that reads products treats it as
// read-only.
type Product struct {
	ID            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Tagline       string     `json:"tagline"`
	Description   string     `json:"description"`
	WebsiteURL    string     `json:"website_url"`
	Tags          Tags       `json:"tags"`
	TechStack     Tags       `json:"techstack"`
	LikesCount    int        `json:"likes_count"`
	IsFeatured    bool       `json:"is_featured"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	UserID        uuid.UUID  `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
