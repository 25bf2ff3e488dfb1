package catalog

import "stackshelf/internal/models"

// defaultCategories is used when no categories file is configured.
var defaultCategories = []models.Category{
	{Name: "Developer Tools", Slug: "developer-tools", Description: "Editors, CLIs and everything that ships code faster.", Tags: []string{"developer tools", "devtools", "cli", "ide", "api"}},
	{Name: "Productivity", Slug: "productivity", Description: "Notes, tasks and focus.", Tags: []string{"productivity", "notes", "tasks", "calendar"}},
	{Name: "Artificial Intelligence", Slug: "ai", Description: "Models, agents and AI-powered apps.", Tags: []string{"ai", "machine learning", "llm", "chatbot"}},
	{Name: "Design", Slug: "design", Description: "Design systems, prototyping and assets.", Tags: []string{"design", "ui", "ux", "prototyping"}},
	{Name: "Marketing", Slug: "marketing", Description: "Growth, SEO and analytics.", Tags: []string{"marketing", "seo", "analytics", "email"}},
	{Name: "CRM", Slug: "crm", Description: "Customer relationship management.", Tags: []string{"crm", "sales"}},
	{Name: "Finance", Slug: "finance", Description: "Payments, invoicing and accounting.", Tags: []string{"finance", "payments", "invoicing", "accounting"}},
	{Name: "Infrastructure", Slug: "infrastructure", Description: "Hosting, databases and observability.", Tags: []string{"infrastructure", "database", "hosting", "logging", "monitoring", "storage"}},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultCategories)
	if err != nil {
		panic("catalog: invalid default categories: " + err.Error())
	}
	return c
}
