// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"stackshelf/internal/models"
)

const (
	// DefaultSearchLimit caps the number of ranked results.
	DefaultSearchLimit = 10

	// DefaultMatchThreshold is the minimum similarity a field must reach for
	// a candidate to be accepted. 0.6 allows one edit in a three-letter
	// query and two in a five-letter one.
	DefaultMatchThreshold = 0.6
)

// FieldWeights sets how much each product field contributes to a
// candidate's relevance score.
type FieldWeights struct {
	Name        float64
	Tagline     float64
	Description float64
	Tags        float64
}

// DefaultFieldWeights returns the standard weighting: the name dominates,
// the tagline matters, description and tags break ties.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		Name:        0.5,
		Tagline:     0.3,
		Description: 0.1,
		Tags:        0.1,
	}
}

// Ranker orders candidates by approximate text similarity to a query.
// A Ranker holds only configuration and is safe for concurrent use.
type Ranker struct {
	Weights   FieldWeights
	Threshold float64
	Limit     int
}

// NewRanker returns a Ranker with the default weights, threshold and limit.
func NewRanker() *Ranker {
	return &Ranker{
		Weights:   DefaultFieldWeights(),
		Threshold: DefaultMatchThreshold,
		Limit:     DefaultSearchLimit,
	}
}

// Match is a scored candidate.
type Match struct {
	Product models.Product
	// Score is the weighted sum of the fields that cleared the threshold.
	Score float64
	// Best is the highest single-field similarity.
	Best float64
}

// Rank returns the candidates matching query, best first, capped at the
// ranker's limit. An empty or whitespace-only query matches nothing.
func (r *Ranker) Rank(query string, candidates []models.Product) []models.Product {
	matches := r.Matches(query, candidates)
	out := make([]models.Product, len(matches))
	for i, m := range matches {
		out[i] = m.Product
	}
	return out
}

// Matches is Rank with scores attached.
func (r *Ranker) Matches(query string, candidates []models.Product) []Match {
	q := []rune(foldText(strings.TrimSpace(query)))
	if len(q) == 0 {
		return []Match{}
	}

	matches := make([]Match, 0, len(candidates))
	for i := range candidates {
		m, ok := r.score(q, &candidates[i])
		if ok {
			matches = append(matches, m)
		}
	}

	// Stable, so equal scores keep the pool's order.
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (r *Ranker) score(q []rune, p *models.Product) (Match, bool) {
	fields := [...]struct {
		weight float64
		sim    float64
	}{
		{r.Weights.Name, similarity(q, p.Name)},
		{r.Weights.Tagline, similarity(q, p.Tagline)},
		{r.Weights.Description, similarity(q, p.Description)},
		{r.Weights.Tags, tagSimilarity(q, p.Tags)},
	}

	m := Match{Product: *p}
	for _, f := range fields {
		if f.sim > m.Best {
			m.Best = f.sim
		}
		if f.sim >= r.Threshold {
			m.Score += f.weight * f.sim
		}
	}
	if m.Best < r.Threshold {
		return Match{}, false
	}
	return m, true
}

func tagSimilarity(q []rune, tags models.Tags) float64 {
	var best float64
	for _, tag := range tags {
		if s := similarity(q, tag); s > best {
			best = s
		}
	}
	return best
}

// similarity scores how well the query appears anywhere inside text, from
// 0 (nothing in common) to 1 (exact substring). It is one minus the
// smallest edit distance between the query and any substring of text,
// relative to the query length.
func similarity(q []rune, text string) float64 {
	if len(q) == 0 || text == "" {
		return 0
	}
	d := substringDistance(q, []rune(foldText(text)))
	s := 1 - float64(d)/float64(len(q))
	if s < 0 {
		return 0
	}
	return s
}

// substringDistance is the Sellers variant of Levenshtein distance: the
// match may start and end anywhere in text at no cost.
func substringDistance(q, text []rune) int {
	m := len(q)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for j := range prev {
		prev[j] = j
	}
	best := prev[m]
	for _, tr := range text {
		cur[0] = 0
		for j := 1; j <= m; j++ {
			cost := 1
			if q[j-1] == tr {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		if cur[m] < best {
			best = cur[m]
		}
		prev, cur = cur, prev
	}
	return best
}

// foldText case-folds s and strips combining marks so "Café" and "cafe"
// compare equal. Transformers are stateful, so each call builds its own.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
