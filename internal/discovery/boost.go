// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"time"

	"stackshelf/internal/models"
)

// BoostActive reports whether product's featured boost is in effect at now.
// A featured product without an expiry is boosted indefinitely; an expiry
// equal to now has already lapsed.
func BoostActive(product *models.Product, now time.Time) bool {
	if product == nil || !product.IsFeatured {
		return false
	}
	return product.FeaturedUntil == nil || product.FeaturedUntil.After(now)
}
