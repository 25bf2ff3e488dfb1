// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory product store and a router wired like production.
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"stackshelf/internal/catalog"
	"stackshelf/internal/discovery"
	"stackshelf/internal/middleware"
	"stackshelf/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// memStore backs every handler dependency with an in-memory product list.
type memStore struct {
	mu            sync.Mutex
	products      []models.Product
	likes         map[uuid.UUID]*models.LikeSet
	poolErr       error
	findErr       error
	createErr     error
	poolCalls     int
	created       []models.Product
	invalidations int
}

func (m *memStore) Products(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poolCalls++
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	return m.products, nil
}

func (m *memStore) LikedBy(_ context.Context, userID uuid.UUID) (*models.LikeSet, error) {
	if set, ok := m.likes[userID]; ok {
		return set, nil
	}
	return models.NewLikeSet(userID), nil
}

func (m *memStore) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, p := range m.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(_ context.Context, p *models.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	p.Slug = strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
	p.CreatedAt = testNow
	p.UpdatedAt = testNow
	m.mu.Lock()
	m.created = append(m.created, *p)
	m.products = append(m.products, *p)
	m.mu.Unlock()
	return nil
}

func (m *memStore) Invalidate(_ context.Context) {
	m.invalidations++
}

// fixtureProducts returns the Acme / Boxly / Ziplog pool.
func fixtureProducts() []models.Product {
	return []models.Product{
		{
			ID: uuid.New(), Slug: "acme", Name: "Acme", Tagline: "CRM for small teams",
			Description: "A **fast** CRM.",
			Tags: models.Tags{"CRM"}, TechStack: models.Tags{"Go"},
			LikesCount: 5, IsFeatured: true, CreatedAt: testNow.Add(-48 * time.Hour),
		},
		{
			ID: uuid.New(), Slug: "boxly", Name: "Boxly", Tagline: "Shared inboxes",
			Tags: models.Tags{"CRM", "Storage"}, TechStack: models.Tags{"TypeScript"},
			LikesCount: 20, CreatedAt: testNow.AddDate(0, 0, -20),
		},
		{
			ID: uuid.New(), Slug: "ziplog", Name: "Ziplog", Tagline: "Structured logs",
			Tags: models.Tags{"Logging"}, TechStack: models.Tags{"go", "ClickHouse"},
			LikesCount: 1, CreatedAt: testNow.Add(-3 * time.Hour),
		},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]models.Category{
		{Name: "CRM", Slug: "crm", Tags: []string{"crm"}},
		{Name: "Infrastructure", Slug: "infrastructure", Tags: []string{"logging", "storage"}},
		{Name: "Design", Slug: "design", Tags: []string{"design"}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

// newTestRouter wires a Discovery handler group onto the production paths.
func newTestRouter(t *testing.T, store *memStore) http.Handler {
	t.Helper()

	d := NewDiscovery(discovery.NewPipeline(store, nil), testCatalog(t), store, store, Options{PageSize: 2, LeaderboardPageSize: 20})
	d.now = func() time.Time { return testNow }

	r := chi.NewRouter()
	r.Get("/api/categories", d.Categories)
	r.Get("/api/categories/{slug}/products", d.Category)
	r.Get("/api/techstack/{tech}/products", d.TechStack)
	r.Get("/api/products", d.Browse)
	r.Post("/api/products", d.Submit)
	r.Get("/api/products/{slug}", d.Product)
	r.Get("/api/search", d.Search)
	r.Get("/api/leaderboard", d.Leaderboard)
	return r
}

// do sends a request as viewer (uuid.Nil for anonymous).
func do(t *testing.T, h http.Handler, method, target string, body io.Reader, viewer uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(middleware.WithViewer(req.Context(), models.Viewer{UserID: viewer}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type itemBody struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	UserID          uuid.UUID `json:"user_id"`
	IsLiked         bool      `json:"is_liked"`
	Tags            []string  `json:"tags"`
	DescriptionHTML string    `json:"description_html"`
}

type pageBody struct {
	Items      []itemBody `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func itemNames(items []itemBody) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ",")
}
