package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"stackshelf/internal/models"
)

func newTestProduct(name string) *models.Product {
	return &models.Product{
		Name:       name,
		Tagline:    "store test product",
		WebsiteURL: "https://example.com",
		Tags:       models.Tags{"Testing", "CRM"},
		TechStack:  models.Tags{"Go"},
		UserID:     uuid.New(),
	}
}

func TestProductStore_CreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	ctx := context.Background()

	p := newTestProduct("Store Test Alpha")
	p.IsFeatured = true
	p.LikesCount = 99
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanProducts(t, db, p.Slug) })

	if p.ID == uuid.Nil {
		t.Error("Create should assign an ID")
	}
	if p.Slug != "store-test-alpha" {
		t.Errorf("slug = %q, want store-test-alpha", p.Slug)
	}

	got, err := s.FindBySlug(ctx, p.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got == nil {
		t.Fatal("FindBySlug returned nil")
	}
	if got.ID != p.ID || got.Name != p.Name {
		t.Errorf("found %+v", got)
	}
	if got.IsFeatured || got.LikesCount != 0 || got.FeaturedUntil != nil {
		t.Errorf("submitted product must start unfeatured with no likes: %+v", got)
	}
	if strings.Join(got.Tags, ",") != "Testing,CRM" || strings.Join(got.TechStack, ",") != "Go" {
		t.Errorf("tags = %v, techstack = %v", got.Tags, got.TechStack)
	}
}

func TestProductStore_FindBySlugMissing(t *testing.T) {
	s := NewProductStore(testDB(t))

	got, err := s.FindBySlug(context.Background(), "definitely-not-a-product-"+uuid.NewString())
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestProductStore_CreateSlugConflict(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	ctx := context.Background()

	first := newTestProduct("Store Test Conflict")
	second := newTestProduct("Store Test Conflict!")
	for _, p := range []*models.Product{first, second} {
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	t.Cleanup(func() { cleanProducts(t, db, first.Slug, second.Slug) })

	if first.Slug != "store-test-conflict" || second.Slug != "store-test-conflict-2" {
		t.Errorf("slugs = %q, %q", first.Slug, second.Slug)
	}
}

func TestProductStore_ListAll(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	ctx := context.Background()

	p := newTestProduct("Store Test Listed")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanProducts(t, db, p.Slug) })

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	found := false
	for i, item := range all {
		if item.ID == p.ID {
			found = true
		}
		if i > 0 && item.CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("ListAll not ordered newest first at %d", i)
		}
	}
	if !found {
		t.Error("created product missing from ListAll")
	}
}

// TestProductStore_MalformedTags verifies that a JSONB column holding
// something other than an array of strings still loads.
func TestProductStore_MalformedTags(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	ctx := context.Background()

	slugName := "store-test-malformed-" + uuid.NewString()[:8]
	_, err := db.Exec(`INSERT INTO products (slug, name, tags, techstack, user_id)
		VALUES ($1, 'Malformed', '{"not":"array"}'::jsonb, '["Go", 3, null]'::jsonb, $2)`,
		slugName, uuid.New())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	t.Cleanup(func() { cleanProducts(t, db, slugName) })

	got, err := s.FindBySlug(ctx, slugName)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want empty", got.Tags)
	}
	if strings.Join(got.TechStack, ",") != "Go" {
		t.Errorf("techstack = %v, want [Go]", got.TechStack)
	}
}

func TestProductStore_Delete(t *testing.T) {
	db := testDB(t)
	s := NewProductStore(db)
	ctx := context.Background()

	p := newTestProduct("Store Test Deleted")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err := s.SlugExists(ctx, p.Slug)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("product still exists after Delete")
	}
}
