// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"stackshelf/internal/models"
	"stackshelf/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ViewerKey is the context key for the request's viewer.
	ViewerKey contextKey = "viewer"
)

// SessionLookup resolves the session behind a request.
type SessionLookup interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession resolves the viewer and stores it in the request context.
// Downstream handlers read it with ViewerFromCtx. A missing, expired or
// unreadable session leaves the viewer anonymous; it never blocks the request.
func LoadSession(store SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session lookup failed, serving anonymously", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				viewer := models.Viewer{UserID: data.UserID}
				r = r.WithContext(WithViewer(r.Context(), viewer))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireViewer rejects anonymous requests with 401.
// Must be applied after LoadSession in the middleware chain.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromCtx(r.Context()).IsIdentified() {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithViewer returns a copy of ctx carrying viewer.
func WithViewer(ctx context.Context, viewer models.Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, viewer)
}

// ViewerFromCtx extracts the viewer from the request context. Returns the
// anonymous viewer if none was loaded.
func ViewerFromCtx(ctx context.Context) models.Viewer {
	viewer, _ := ctx.Value(ViewerKey).(models.Viewer)
	return viewer
}
