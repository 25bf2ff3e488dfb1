// Package session resolves the viewer behind a request. Sessions are issued
// by the account service and stored as JSON in Valkey; this package only
// reads them.
package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent by browsers.
	CookieName = "ss_session"

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// maxIDLength rejects absurd identifiers before they reach Valkey.
	maxIDLength = 128
)

// Data holds the session payload stored in Valkey.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store looks sessions up in Valkey.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves session data for the request. The session ID is read from
// the session cookie, or from an "Authorization: Bearer" header for API
// clients. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id := sessionID(r)
	if id == "" {
		return nil, nil // No credentials = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	if data.UserID == uuid.Nil {
		return nil, nil
	}

	return &data, nil
}

func sessionID(r *http.Request) string {
	var id string
	if cookie, err := r.Cookie(CookieName); err == nil {
		id = cookie.Value
	} else if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		id = strings.TrimSpace(auth[7:])
	}
	if len(id) > maxIDLength {
		return ""
	}
	return id
}
