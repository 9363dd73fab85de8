package resolver

import (
	"sort"
	"strings"

	"github.com/stitts-dev/sports-query-engine/internal/models"
)

const (
	ConfidenceExact           = 1.00
	ConfidenceCaseInsensitive = 0.95
	ConfidencePartial         = 0.85
	ConfidenceVariation       = 0.80
	ConfidenceWordBoundary    = 0.75
	ConfidenceLastName        = 0.60
)

type strategy struct {
	name       string
	confidence float64
	match      func(query, candidate string) bool
}

var strategies = []strategy{
	{"exact", ConfidenceExact, func(q, c string) bool {
		return strings.TrimSpace(q) == strings.TrimSpace(c)
	}},
	{"case_insensitive", ConfidenceCaseInsensitive, func(q, c string) bool {
		return normalize(q) == normalize(c)
	}},
	{"partial", ConfidencePartial, func(q, c string) bool {
		nq := normalize(q)
		return nq != "" && strings.Contains(normalize(c), nq)
	}},
	{"variation", ConfidenceVariation, func(q, c string) bool {
		nc := normalize(c)
		dc := normalize(strings.ReplaceAll(nc, ".", ""))
		for _, v := range NameVariations(q) {
			if strings.Contains(nc, v) || strings.Contains(dc, v) {
				return true
			}
		}
		return false
	}},
	{"word_boundary", ConfidenceWordBoundary, func(q, c string) bool {
		qw := words(q)
		if len(qw) < 2 {
			return false
		}
		cw := wordSet(c)
		for _, w := range qw {
			if !cw[w] {
				return false
			}
		}
		return true
	}},
	{"last_name", ConfidenceLastName, func(q, c string) bool {
		ln := lastName(q)
		return ln != "" && wordSet(c)[ln]
	}},
}

func wordSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range words(name) {
		set[w] = true
	}
	return set
}

// matchNames runs the strategy cascade over the pool, stopping at the first
// strategy that matches anything. namesOf lists every name an entity answers to.
func matchNames(query string, pool []models.Entity, namesOf func(models.Entity) []string) []models.EntityCandidate {
	for _, s := range strategies {
		var found []models.EntityCandidate
		for _, e := range pool {
			for _, n := range namesOf(e) {
				if n != "" && s.match(query, n) {
					found = append(found, models.EntityCandidate{Entity: e, Confidence: s.confidence, Strategy: s.name})
					break
				}
			}
		}
		if len(found) > 0 {
			return dedupe(found)
		}
	}
	return nil
}

// dedupe keeps one candidate per entity id, with the highest confidence seen,
// ordered by confidence then id.
func dedupe(in []models.EntityCandidate) []models.EntityCandidate {
	best := make(map[uint]models.EntityCandidate, len(in))
	for _, c := range in {
		if cur, ok := best[c.Entity.ID]; !ok || c.Confidence > cur.Confidence {
			best[c.Entity.ID] = c
		}
	}
	out := make([]models.EntityCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Entity.ID < out[j].Entity.ID
	})
	return out
}

func playerNames(e models.Entity) []string {
	return []string{e.Name}
}

func teamNames(e models.Entity) []string {
	return []string{e.Name, e.ShortName, e.Abbreviation}
}
