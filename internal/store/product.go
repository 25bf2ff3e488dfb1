// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for products and likes.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"stackshelf/internal/models"
	"stackshelf/internal/slug"
)

// maxSlugAttempts bounds the suffix search for a free slug.
const maxSlugAttempts = 50

// ErrSlugExhausted is returned when no free slug could be found for a name.
var ErrSlugExhausted = errors.New("no free slug for product name")

// ProductStore handles all product-related database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, slug, name, tagline, description, website_url, tags, techstack,
	likes_count, is_featured, featured_until, user_id, created_at, updated_at`

// scanProduct scans a row into a Product struct.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Tagline, &p.Description, &p.WebsiteURL,
		&p.Tags, &p.TechStack, &p.LikesCount, &p.IsFeatured, &p.FeaturedUntil,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every product, newest first. This is the candidate pool
// the discovery pipeline works on.
func (s *ProductStore) ListAll(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a product by slug. Returns nil if not found.
func (s *ProductStore) FindBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE slug = $1
	`, productSlug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether a product already uses the slug.
func (s *ProductStore) SlugExists(ctx context.Context, productSlug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, productSlug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new product. The slug is derived from the name; when it
// is taken a numeric suffix is appended. Submitted products start with no
// likes and are never featured. ID, Slug and timestamps are set on p.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	base := slug.ForProduct(p.Name)
	now := time.Now().UTC()

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		err = s.db.QueryRowContext(ctx, `
			INSERT INTO products (slug, name, tagline, description, website_url, tags, techstack,
				likes_count, is_featured, featured_until, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, FALSE, NULL, $8, $9, $9)
			RETURNING id
		`, candidate, p.Name, p.Tagline, p.Description, p.WebsiteURL,
			p.Tags, p.TechStack, p.UserID, now,
		).Scan(&p.ID)
		if isUniqueViolation(err) {
			// Lost a race for the slug; try the next suffix.
			continue
		}
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		p.Slug = candidate
		p.LikesCount = 0
		p.IsFeatured = false
		p.FeaturedUntil = nil
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	}
	return fmt.Errorf("create product %q: %w", p.Name, ErrSlugExhausted)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
