// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"github.com/google/uuid"

	"stackshelf/internal/models"
)

// Membership answers whether a user likes a product.
type Membership interface {
	Contains(userID, productID uuid.UUID) bool
}

// AnnotatedProduct is a product as seen by one viewer.
type AnnotatedProduct struct {
	models.Product
	IsLiked bool `json:"is_liked"`
}

// Annotate layers the viewer's likes over products. The products are copied,
// never modified, so the same snapshot can be annotated for any number of
// viewers. Anonymous viewers never consult membership.
func Annotate(products []models.Product, viewer models.Viewer, membership Membership) []AnnotatedProduct {
	out := make([]AnnotatedProduct, len(products))
	identified := viewer.IsIdentified() && membership != nil
	for i := range products {
		out[i].Product = products[i]
		if identified {
			out[i].IsLiked = membership.Contains(viewer.UserID, products[i].ID)
		}
	}
	return out
}
