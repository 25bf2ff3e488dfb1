package discovery

import (
	"time"

	"github.com/google/uuid"

	"stackshelf/internal/models"
)

// testNow is the fixed clock used across discovery tests.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func product(name string, tags ...string) models.Product {
	return models.Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      name,
		Tags:      models.Tags(tags),
		CreatedAt: testNow,
	}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func annotatedNames(products []AnnotatedProduct) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func timePtr(t time.Time) *time.Time { return &t }
