package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"stackshelf/internal/models"
)

// LikeStore reads like memberships. Likes are recorded by the voting
// service; this store never writes them.
type LikeStore struct {
	db *sql.DB
}

// NewLikeStore creates a new LikeStore.
func NewLikeStore(db *sql.DB) *LikeStore {
	return &LikeStore{db: db}
}

// LikedBy returns the set of products the user has liked.
func (s *LikeStore) LikedBy(ctx context.Context, userID uuid.UUID) (*models.LikeSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_id FROM likes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	set := models.NewLikeSet(userID)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		set.ProductIDs[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return set, nil
}
