// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"strings"
	"time"

	"stackshelf/internal/models"
)

// Period is a leaderboard time window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod resolves a raw query parameter, defaulting to PeriodWeek.
func ParsePeriod(raw string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p
	}
	return PeriodWeek
}

// Since returns the earliest creation time inside the period ending at now.
// The zero time means no lower bound.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodToday:
		u := now.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	case PeriodAll:
		return time.Time{}
	}
	return now.AddDate(0, 0, -7)
}

// FilterPeriod keeps products created at or after the start of the period.
func FilterPeriod(products []models.Product, period Period, now time.Time) []models.Product {
	since := period.Since(now)
	if since.IsZero() {
		return filter(products, func(*models.Product) bool { return true })
	}
	return filter(products, func(p *models.Product) bool { return !p.CreatedAt.Before(since) })
}
