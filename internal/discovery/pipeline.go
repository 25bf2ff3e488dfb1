// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stackshelf/internal/metrics"
	"stackshelf/internal/models"
)

// ErrUpstream marks failures of the candidate or membership source. Callers
// log it and serve the empty result returned alongside it.
var ErrUpstream = errors.New("discovery upstream failure")

// Source supplies the raw inputs of a discovery request.
type Source interface {
	// Products returns the full candidate pool. Callers must not modify it.
	Products(ctx context.Context) ([]models.Product, error)
	// LikedBy returns the like memberships of one user.
	LikedBy(ctx context.Context, userID uuid.UUID) (*models.LikeSet, error)
}

// Shape identifies the kind of listing a request is for.
type Shape string

const (
	ShapeBrowse      Shape = "browse"
	ShapeCategory    Shape = "category"
	ShapeTechStack   Shape = "techstack"
	ShapeLeaderboard Shape = "leaderboard"
	ShapeSearch      Shape = "search"
)

// Request describes one listing. Zero values mean "not requested".
type Request struct {
	Shape    Shape
	Category *models.Category // ShapeCategory
	Tech     string           // ShapeTechStack
	Tag      string           // narrows ShapeCategory
	Query    string           // in-page refinement; empty keeps everything
	Sort     SortKey
	Period   Period // ShapeLeaderboard
	Page     int
	PageSize int
	Viewer   models.Viewer
	Now      time.Time
}

// Pipeline runs discovery requests against a Source.
type Pipeline struct {
	source Source
	ranker *Ranker
}

// NewPipeline creates a Pipeline. A nil ranker uses NewRanker().
func NewPipeline(source Source, ranker *Ranker) *Pipeline {
	if ranker == nil {
		ranker = NewRanker()
	}
	return &Pipeline{source: source, ranker: ranker}
}

// Discover produces one page of results for req. The pool and the viewer's
// likes are read once; on failure the returned page is empty and the error
// wraps ErrUpstream.
func (p *Pipeline) Discover(ctx context.Context, req Request) (Page[AnnotatedProduct], error) {
	defer metrics.TimeDiscovery(string(req.Shape))()

	pool, err := p.loadPool(ctx)
	if err != nil {
		return Paginate[AnnotatedProduct](nil, req.Page, req.PageSize), err
	}

	ordered := p.order(narrow(pool, req), req)

	membership, err := p.loadMembership(ctx, req.Viewer)
	if err != nil {
		return Paginate[AnnotatedProduct](nil, req.Page, req.PageSize), err
	}

	return Paginate(Annotate(ordered, req.Viewer, membership), req.Page, req.PageSize), nil
}

// Search backs the dedicated search endpoint. Unlike in-page refinement, an
// empty query returns no results, and does so without touching the source.
func (p *Pipeline) Search(ctx context.Context, query string, viewer models.Viewer) ([]AnnotatedProduct, error) {
	if strings.TrimSpace(query) == "" {
		return []AnnotatedProduct{}, nil
	}
	defer metrics.TimeDiscovery(string(ShapeSearch))()

	pool, err := p.loadPool(ctx)
	if err != nil {
		return []AnnotatedProduct{}, err
	}
	ranked := p.ranker.Rank(query, pool)

	membership, err := p.loadMembership(ctx, viewer)
	if err != nil {
		return []AnnotatedProduct{}, err
	}
	return Annotate(ranked, viewer, membership), nil
}

// Personalize annotates products fetched outside the pipeline, such as a
// single product detail.
func (p *Pipeline) Personalize(ctx context.Context, viewer models.Viewer, products []models.Product) ([]AnnotatedProduct, error) {
	membership, err := p.loadMembership(ctx, viewer)
	if err != nil {
		return Annotate(products, models.Viewer{}, nil), err
	}
	return Annotate(products, viewer, membership), nil
}

// CategoryCounts returns copies of categories with ProductCount filled in.
func (p *Pipeline) CategoryCounts(ctx context.Context, categories []models.Category) ([]models.Category, error) {
	out := make([]models.Category, len(categories))
	copy(out, categories)

	pool, err := p.loadPool(ctx)
	if err != nil {
		return out, err
	}
	counts := CountByCategory(pool, out)
	for i := range out {
		out[i].ProductCount = counts[out[i].Slug]
	}
	return out, nil
}

func (p *Pipeline) loadPool(ctx context.Context) ([]models.Product, error) {
	pool, err := p.source.Products(ctx)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("pool").Inc()
		return nil, fmt.Errorf("%w: load candidate pool: %w", ErrUpstream, err)
	}
	return pool, nil
}

// loadMembership skips the lookup entirely for anonymous viewers.
func (p *Pipeline) loadMembership(ctx context.Context, viewer models.Viewer) (Membership, error) {
	if !viewer.IsIdentified() {
		return nil, nil
	}
	likes, err := p.source.LikedBy(ctx, viewer.UserID)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("likes").Inc()
		return nil, fmt.Errorf("%w: load likes: %w", ErrUpstream, err)
	}
	return likes, nil
}

// narrow applies the classification filter for the request shape.
func narrow(pool []models.Product, req Request) []models.Product {
	switch req.Shape {
	case ShapeCategory:
		out := FilterCategory(pool, req.Category)
		if strings.TrimSpace(req.Tag) != "" {
			out = FilterTag(out, req.Tag)
		}
		return out
	case ShapeTechStack:
		return FilterTech(pool, req.Tech)
	case ShapeLeaderboard:
		return FilterPeriod(pool, req.Period, req.Now)
	}
	return pool
}

// order ranks when a query is present, since relevance beats any sort key.
// Leaderboards always order by likes.
func (p *Pipeline) order(candidates []models.Product, req Request) []models.Product {
	if req.Shape == ShapeLeaderboard {
		return Sort(candidates, SortLikes, req.Now)
	}
	if strings.TrimSpace(req.Query) != "" {
		return p.ranker.Rank(req.Query, candidates)
	}
	key := req.Sort
	if key == "" {
		key = SortFeatured
	}
	return Sort(candidates, key, req.Now)
}
