// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Viewer is the identity a discovery request is personalized for.
// The zero value is an anonymous viewer.
type Viewer struct {
	UserID uuid.UUID
}

// IsIdentified reports whether the viewer is a signed-in user.
func (v Viewer) IsIdentified() bool {
	return v.UserID != uuid.Nil
}

// LikeSet holds the like memberships of a single user.
type LikeSet struct {
	UserID     uuid.UUID
	ProductIDs map[uuid.UUID]struct{}
}

// NewLikeSet builds a LikeSet for userID from a list of liked product IDs.
func NewLikeSet(userID uuid.UUID, productIDs ...uuid.UUID) *LikeSet {
	set := &LikeSet{UserID: userID, ProductIDs: make(map[uuid.UUID]struct{}, len(productIDs))}
	for _, id := range productIDs {
		set.ProductIDs[id] = struct{}{}
	}
	return set
}

// Contains reports whether userID likes productID. A nil set contains nothing.
func (s *LikeSet) Contains(userID, productID uuid.UUID) bool {
	if s == nil || s.UserID != userID {
		return false
	}
	_, ok := s.ProductIDs[productID]
	return ok
}
