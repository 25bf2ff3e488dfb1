// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON discovery API.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"stackshelf/internal/catalog"
	"stackshelf/internal/discovery"
	"stackshelf/internal/markdown"
	"stackshelf/internal/middleware"
	"stackshelf/internal/models"
)

// maxSubmitBody bounds the size of a submission request body.
const maxSubmitBody = 64 << 10

// ProductStore is the part of the product store the handlers need.
type ProductStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

// PoolInvalidator drops the cached candidate pool after a write.
type PoolInvalidator interface {
	Invalidate(ctx context.Context)
}

// Options tunes listing sizes.
type Options struct {
	PageSize            int
	LeaderboardPageSize int
}

// Discovery groups the product discovery endpoints.
type Discovery struct {
	pipeline  *discovery.Pipeline
	catalog   *catalog.Catalog
	products  ProductStore
	pool      PoolInvalidator
	validator *requestValidator
	opts      Options
	now       func() time.Time
}

// NewDiscovery creates the Discovery handler group.
func NewDiscovery(pipeline *discovery.Pipeline, cat *catalog.Catalog, products ProductStore, pool PoolInvalidator, opts Options) *Discovery {
	if opts.PageSize < 1 {
		opts.PageSize = 12
	}
	if opts.LeaderboardPageSize < 1 {
		opts.LeaderboardPageSize = 20
	}
	return &Discovery{
		pipeline:  pipeline,
		catalog:   cat,
		products:  products,
		pool:      pool,
		validator: newRequestValidator(),
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Categories lists every category with the number of products it matches.
func (d *Discovery) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := d.pipeline.CategoryCounts(r.Context(), d.catalog.All())
	if err != nil {
		slog.Warn("category counts unavailable, serving zero counts", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Browse lists every product. Default order: featured.
func (d *Discovery) Browse(w http.ResponseWriter, r *http.Request) {
	req := d.listRequest(r, discovery.ShapeBrowse, discovery.SortFeatured)
	d.serveListing(w, r, req)
}

// Category lists the products of one category, optionally narrowed to a
// tag. Default order: featured.
func (d *Discovery) Category(w http.ResponseWriter, r *http.Request) {
	category := d.catalog.Find(chi.URLParam(r, "slug"))
	if category == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	req := d.listRequest(r, discovery.ShapeCategory, discovery.SortFeatured)
	req.Category = category
	req.Tag = r.URL.Query().Get("tag")
	d.serveListing(w, r, req)
}

// TechStack lists the products built with one technology. Default order:
// newest first.
func (d *Discovery) TechStack(w http.ResponseWriter, r *http.Request) {
	tech := strings.TrimSpace(chi.URLParam(r, "tech"))
	if tech == "" {
		writeError(w, http.StatusNotFound, "technology not found")
		return
	}

	req := d.listRequest(r, discovery.ShapeTechStack, discovery.SortNewest)
	req.Tech = tech
	d.serveListing(w, r, req)
}

// Leaderboard lists the most liked products created within a period.
func (d *Discovery) Leaderboard(w http.ResponseWriter, r *http.Request) {
	req := d.listRequest(r, discovery.ShapeLeaderboard, discovery.SortLikes)
	req.Period = discovery.ParsePeriod(r.URL.Query().Get("period"))
	req.PageSize = d.opts.LeaderboardPageSize
	req.Query = ""
	d.serveListing(w, r, req)
}

// Search returns the best matches for ?q= as a JSON array, at most
// discovery.DefaultSearchLimit. A blank query or a degraded source yields [].
func (d *Discovery) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	viewer := middleware.ViewerFromCtx(r.Context())

	items, err := d.pipeline.Search(r.Context(), query, viewer)
	if err != nil {
		d.logDegraded(err, "search", viewer)
	}
	writeJSON(w, http.StatusOK, items)
}

// Product returns a single product by slug.
func (d *Discovery) Product(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	product, err := d.products.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find product by slug failed", "error", err, "slug", slugParam)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	viewer := middleware.ViewerFromCtx(ctx)
	annotated, err := d.pipeline.Personalize(ctx, viewer, []models.Product{*product})
	if err != nil {
		d.logDegraded(err, "product", viewer)
	}

	detail := productDetail{AnnotatedProduct: annotated[0]}
	if detail.DescriptionHTML, err = markdown.ToHTML(product.Description); err != nil {
		slog.Warn("render product description failed", "error", err, "slug", product.Slug)
	}
	writeJSON(w, http.StatusOK, detail)
}

// productDetail is the single product response: the listing item plus the
// description rendered from Markdown.
type productDetail struct {
	discovery.AnnotatedProduct
	DescriptionHTML string `json:"description_html"`
}

// Submit creates a product owned by the viewer.
func (d *Discovery) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.ViewerFromCtx(ctx)
	if !viewer.IsIdentified() {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var body submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.normalize()

	fields, err := d.validator.fieldErrors(&body)
	if err != nil {
		slog.Error("validate submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	product := &models.Product{
		Name:        body.Name,
		Tagline:     body.Tagline,
		Description: body.Description,
		WebsiteURL:  body.WebsiteURL,
		Tags:        models.Tags(body.Tags),
		TechStack:   models.Tags(body.TechStack),
		UserID:      viewer.UserID,
	}
	if err := d.products.Create(ctx, product); err != nil {
		slog.Error("create product failed", "error", err, "name", product.Name)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	d.pool.Invalidate(ctx)

	slog.Info("product submitted", "slug", product.Slug, "user_id", viewer.UserID)
	writeJSON(w, http.StatusCreated, discovery.AnnotatedProduct{Product: *product})
}

// listRequest reads the query parameters shared by every listing.
// "search" and "orderBy" are accepted as aliases of "q" and "sort".
func (d *Discovery) listRequest(r *http.Request, shape discovery.Shape, fallback discovery.SortKey) discovery.Request {
	q := r.URL.Query()
	return discovery.Request{
		Shape:    shape,
		Query:    firstNonEmpty(q.Get("search"), q.Get("q")),
		Sort:     discovery.ParseSortKey(firstNonEmpty(q.Get("sort"), q.Get("orderBy")), fallback),
		Page:     discovery.ParsePage(q.Get("page")),
		PageSize: d.opts.PageSize,
		Viewer:   middleware.ViewerFromCtx(r.Context()),
		Now:      d.now(),
	}
}

// serveListing runs req and writes the page. Upstream failures are served
// as an empty page; the client cannot tell them apart from no results.
func (d *Discovery) serveListing(w http.ResponseWriter, r *http.Request, req discovery.Request) {
	page, err := d.pipeline.Discover(r.Context(), req)
	if err != nil {
		d.logDegraded(err, string(req.Shape), req.Viewer)
	}
	writeJSON(w, http.StatusOK, page)
}

func (d *Discovery) logDegraded(err error, shape string, viewer models.Viewer) {
	if errors.Is(err, discovery.ErrUpstream) {
		slog.Warn("discovery degraded to empty result", "shape", shape, "identified", viewer.IsIdentified(), "error", err)
		return
	}
	slog.Error("discovery failed", "shape", shape, "error", err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
