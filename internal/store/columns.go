package store

import (
	"fmt"
	"strings"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// metricColumn is a SQL expression for a metric plus the condition under
// which the metric counts as recorded.
type metricColumn struct {
	expr    string
	present string
}

// columnFor builds the expression for a stored or derived metric. Column
// names only ever come from the sport registry, never from the request.
func columnFor(cfg *sports.Config, metric, table string) (metricColumn, error) {
	if parts, ok := cfg.Derived[metric]; ok {
		var sums, present []string
		for _, p := range parts {
			m, ok := cfg.Stat(p)
			if !ok {
				continue
			}
			col := table + "." + m.Column
			sums = append(sums, fmt.Sprintf("COALESCE(%s, 0)", col))
			present = append(present, col+" IS NOT NULL")
		}
		if len(sums) == 0 {
			return metricColumn{}, fmt.Errorf("derived metric %s has no stored components", metric)
		}
		return metricColumn{
			expr:    "(" + strings.Join(sums, " + ") + ")",
			present: "(" + strings.Join(present, " OR ") + ")",
		}, nil
	}

	m, ok := cfg.Stat(metric)
	if !ok || !models.HasColumn(m.Column) {
		return metricColumn{}, fmt.Errorf("metric %s is not stored for %s", metric, cfg.Sport)
	}
	col := table + "." + m.Column
	return metricColumn{expr: col, present: col + " IS NOT NULL"}, nil
}

// valuesFromLine projects a stat line onto the sport's metric ids, adding
// derived metrics when any component was recorded.
func valuesFromLine(cfg *sports.Config, line models.StatLine) map[string]float64 {
	cols := line.Values()
	out := make(map[string]float64)
	for _, m := range cfg.Stats {
		if v, ok := cols[m.Column]; ok {
			out[m.Metric] = v
		}
	}
	for derived, parts := range cfg.Derived {
		var sum float64
		var seen bool
		for _, p := range parts {
			if v, ok := out[p]; ok {
				sum += v
				seen = true
			}
		}
		if seen {
			out[derived] = sum
		}
	}
	return out
}

// lineFromValues is the inverse of valuesFromLine. Derived and unknown
// metrics are dropped.
func lineFromValues(cfg *sports.Config, values map[string]float64) models.StatLine {
	var line models.StatLine
	for metric, v := range values {
		if m, ok := cfg.Stat(metric); ok {
			line.Set(m.Column, v)
		}
	}
	return line
}
