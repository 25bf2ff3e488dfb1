package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stackshelf/internal/models"
)

// SeedUserID owns the development sample products.
var SeedUserID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

type seedProduct struct {
	slug, name, tagline, description, url string
	tags, techstack                       models.Tags
	likes                                 int
	featuredFor                           time.Duration // zero means not featured
	age                                   time.Duration
}

var seedProducts = []seedProduct{
	{
		slug: "acme-crm", name: "Acme CRM", tagline: "The CRM that stays out of your way",
		description: "Pipelines, contacts and follow-ups for small sales teams.",
		url:         "https://acme.example.com",
		tags:        models.Tags{"CRM", "Sales"}, techstack: models.Tags{"Go", "PostgreSQL"},
		likes: 5, featuredFor: 14 * 24 * time.Hour, age: 2 * 24 * time.Hour,
	},
	{
		slug: "boxly", name: "Boxly", tagline: "Shared inboxes with a built-in CRM",
		description: "Turn support email into tracked conversations.",
		url:         "https://boxly.example.com",
		tags:        models.Tags{"CRM", "Storage"}, techstack: models.Tags{"TypeScript", "React"},
		likes: 20, age: 20 * 24 * time.Hour,
	},
	{
		slug: "ziplog", name: "Ziplog", tagline: "Structured logs without the bill",
		description: "Ingest, search and alert on application logs.",
		url:         "https://ziplog.example.com",
		tags:        models.Tags{"Logging", "Monitoring"}, techstack: models.Tags{"Go", "ClickHouse"},
		likes: 1, age: 3 * time.Hour,
	},
	{
		slug: "cafe-finder", name: "Café Finder", tagline: "Find a quiet place to work",
		description: "Crowd-sourced map of laptop-friendly coffee shops.",
		url:         "https://cafe.example.com",
		tags:        models.Tags{"Productivity"}, techstack: models.Tags{"Swift", "Go"},
		likes: 9, age: 90 * 24 * time.Hour,
	},
}

// Seed populates the database with sample products for development.
// It does nothing when any product exists already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("seed check products: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	now := time.Now().UTC()
	for _, p := range seedProducts {
		var featuredUntil *time.Time
		if p.featuredFor > 0 {
			t := now.Add(p.featuredFor)
			featuredUntil = &t
		}
		created := now.Add(-p.age)
		_, err := db.Exec(`
			INSERT INTO products (slug, name, tagline, description, website_url, tags, techstack,
				likes_count, is_featured, featured_until, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
			ON CONFLICT (slug) DO NOTHING`,
			p.slug, p.name, p.tagline, p.description, p.url, p.tags, p.techstack,
			p.likes, featuredUntil != nil, featuredUntil, SeedUserID, created,
		)
		if err != nil {
			return fmt.Errorf("seed insert product %s: %w", p.slug, err)
		}
	}

	slog.Info("database seeded with sample products", "count", len(seedProducts))
	return nil
}
