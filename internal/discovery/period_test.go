package discovery

import (
	"testing"
	"time"

	"stackshelf/internal/models"
)

func TestParsePeriod(t *testing.T) {
	tests := map[string]Period{
		"today":   PeriodToday,
		"WEEK":    PeriodWeek,
		" month ": PeriodMonth,
		"year":    PeriodYear,
		"all":     PeriodAll,
		"":        PeriodWeek,
		"decade":  PeriodWeek,
	}
	for raw, want := range tests {
		if got := ParsePeriod(raw); got != want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestPeriodSince(t *testing.T) {
	tests := []struct {
		period Period
		want   time.Time
	}{
		{period: PeriodToday, want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{period: PeriodWeek, want: time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)},
		{period: PeriodMonth, want: time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{period: PeriodYear, want: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)},
		{period: PeriodAll, want: time.Time{}},
	}
	for _, tt := range tests {
		if got := tt.period.Since(testNow); !got.Equal(tt.want) {
			t.Errorf("%s.Since = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestFilterPeriod(t *testing.T) {
	mk := func(name string, created time.Time) models.Product {
		p := product(name)
		p.CreatedAt = created
		return p
	}
	pool := []models.Product{
		mk("this-morning", time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)),
		mk("yesterday", testNow.Add(-24*time.Hour)),
		mk("last-month", testNow.AddDate(0, 0, -20)),
		mk("ancient", testNow.AddDate(-3, 0, 0)),
	}

	tests := []struct {
		period Period
		want   []string
	}{
		{period: PeriodToday, want: []string{"this-morning"}},
		{period: PeriodWeek, want: []string{"this-morning", "yesterday"}},
		{period: PeriodMonth, want: []string{"this-morning", "yesterday", "last-month"}},
		{period: PeriodAll, want: []string{"this-morning", "yesterday", "last-month", "ancient"}},
	}
	for _, tt := range tests {
		if got := names(FilterPeriod(pool, tt.period, testNow)); !equalStrings(got, tt.want) {
			t.Errorf("FilterPeriod(%s) = %v, want %v", tt.period, got, tt.want)
		}
	}
}
