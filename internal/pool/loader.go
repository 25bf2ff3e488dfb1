// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pool loads the discovery inputs: the candidate product pool and a
// viewer's like memberships. The pool is served from a shared Valkey snapshot
// when possible; store reads go through circuit breakers so a struggling
// database fails fast instead of piling up requests.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"stackshelf/internal/models"
)

// poolLoadTimeout bounds a shared pool read.
const poolLoadTimeout = 10 * time.Second

// Breaker names, also used as metric labels.
const (
	PoolBreaker  = "product-pool"
	LikesBreaker = "likes"
)

// ProductLister reads every product.
type ProductLister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// LikeReader reads one user's likes.
type LikeReader interface {
	LikedBy(ctx context.Context, userID uuid.UUID) (*models.LikeSet, error)
}

// Snapshot caches the pool between requests.
type Snapshot interface {
	Get(ctx context.Context) ([]models.Product, bool)
	Set(ctx context.Context, products []models.Product)
	Invalidate(ctx context.Context)
}

// Loader implements discovery.Source.
type Loader struct {
	products ProductLister
	likes    LikeReader
	snapshot Snapshot

	group        singleflight.Group
	poolBreaker  *gobreaker.CircuitBreaker[[]models.Product]
	likesBreaker *gobreaker.CircuitBreaker[*models.LikeSet]
}

// NewLoader creates a Loader. snapshot may be nil to always read the store.
func NewLoader(products ProductLister, likes LikeReader, snapshot Snapshot, settings BreakerSettings) *Loader {
	return &Loader{
		products:     products,
		likes:        likes,
		snapshot:     snapshot,
		poolBreaker:  newBreaker[[]models.Product](PoolBreaker, settings),
		likesBreaker: newBreaker[*models.LikeSet](LikesBreaker, settings),
	}
}

// Products returns the candidate pool. Concurrent misses share one store
// read, which runs detached from any single caller's cancellation so one
// client going away cannot fail the others. A caller whose context ends
// stops waiting and gets its context error.
func (l *Loader) Products(ctx context.Context) ([]models.Product, error) {
	if l.snapshot != nil {
		if products, ok := l.snapshot.Get(ctx); ok {
			return products, nil
		}
	}

	ch := l.group.DoChan("pool", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), poolLoadTimeout)
		defer cancel()

		products, err := execute(l.poolBreaker, func() ([]models.Product, error) {
			return l.products.ListAll(loadCtx)
		})
		if err != nil {
			return nil, err
		}
		if l.snapshot != nil {
			l.snapshot.Set(loadCtx, products)
		}
		return products, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, gobreaker.ErrOpenState) {
				slog.Warn("product pool read rejected, breaker open")
			}
			return nil, fmt.Errorf("load products: %w", res.Err)
		}
		return res.Val.([]models.Product), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load products: %w", ctx.Err())
	}
}

// LikedBy returns the user's like memberships.
func (l *Loader) LikedBy(ctx context.Context, userID uuid.UUID) (*models.LikeSet, error) {
	set, err := execute(l.likesBreaker, func() (*models.LikeSet, error) {
		return l.likes.LikedBy(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	return set, nil
}

// Invalidate drops the cached pool after a write.
func (l *Loader) Invalidate(ctx context.Context) {
	if l.snapshot != nil {
		l.snapshot.Invalidate(ctx)
	}
}

// PoolState reports the pool breaker state, for the health endpoint.
func (l *Loader) PoolState() string {
	return l.poolBreaker.State().String()
}
