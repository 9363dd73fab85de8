package sports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Sport string

const (
	NFL Sport = "NFL"
	NBA Sport = "NBA"
	MLB Sport = "MLB"
	NHL Sport = "NHL"
)

type SeasonFormat string

const (
	SingleYear SeasonFormat = "YYYY"
	SplitYear  SeasonFormat = "YYYY-YY"
)

// CareerSeason tags records summed over every season on file.
const CareerSeason = "career"

// StatMapping ties a metric id to its store column and remote field.
type StatMapping struct {
	Metric      string
	Column      string
	APIField    string
	DisplayName string
	Category    string
	Positions   []string
	UserTerms   []string
	PerGame     bool // stored as a per-game average
}

type Config struct {
	Sport         Sport
	SeasonFormat  SeasonFormat
	BoundaryMonth time.Month
	Positions     []string
	PrimaryMetric string
	Stats         []StatMapping

	// Derived metrics are sums of other metrics.
	Derived map[string][]string

	positionPriority  map[string]float64
	defaultPriority   float64
	prominenceWeights map[string]float64
}

// Registry holds the sports enabled for this process.
type Registry struct {
	sports map[Sport]*Config
}

func NewRegistry(enabled []string) *Registry {
	r := &Registry{sports: make(map[Sport]*Config)}
	all := builtin()
	if len(enabled) == 0 {
		r.sports = all
		return r
	}
	for _, name := range enabled {
		if cfg, ok := all[Sport(strings.ToUpper(strings.TrimSpace(name)))]; ok {
			r.sports[cfg.Sport] = cfg
		}
	}
	return r
}

// Get looks up a sport code case-insensitively.
func (r *Registry) Get(code string) (*Config, bool) {
	cfg, ok := r.sports[Sport(strings.ToUpper(strings.TrimSpace(code)))]
	return cfg, ok
}

func (r *Registry) Supported() []Sport {
	out := make([]Sport, 0, len(r.sports))
	for s := range r.sports {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stat returns the mapping for a registered metric id.
func (c *Config) Stat(metric string) (StatMapping, bool) {
	for _, m := range c.Stats {
		if m.Metric == metric {
			return m, true
		}
	}
	return StatMapping{}, false
}

// ResolveMetric maps a metric id, display name or user term to a metric id.
func (c *Config) ResolveMetric(term string) (string, bool) {
	norm := normalizeTerm(term)
	if norm == "" {
		return "", false
	}
	if _, ok := c.Derived[norm]; ok {
		return norm, true
	}
	for _, m := range c.Stats {
		if m.Metric == norm || normalizeTerm(m.DisplayName) == norm {
			return m.Metric, true
		}
	}
	spaced := strings.ReplaceAll(norm, "_", " ")
	for _, m := range c.Stats {
		for _, t := range m.UserTerms {
			if t == spaced {
				return m.Metric, true
			}
		}
	}
	if spaced == "touchdowns" || spaced == "tds" {
		if _, ok := c.Derived["total_touchdowns"]; ok {
			return "total_touchdowns", true
		}
	}
	return "", false
}

func normalizeTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return s
}

// IsKnownMetric reports whether metric is a stored or derived metric id.
func (c *Config) IsKnownMetric(metric string) bool {
	if _, ok := c.Derived[metric]; ok {
		return true
	}
	_, ok := c.Stat(metric)
	return ok
}

// PositionsForMetrics is the union of positions registered for the metrics.
func (c *Config) PositionsForMetrics(metrics []string) map[string]bool {
	out := make(map[string]bool)
	for _, metric := range metrics {
		parts := []string{metric}
		if comps, ok := c.Derived[metric]; ok {
			parts = comps
		}
		for _, p := range parts {
			if m, ok := c.Stat(p); ok {
				for _, pos := range m.Positions {
					out[pos] = true
				}
			}
		}
	}
	return out
}

func (c *Config) PositionPriority(position string) float64 {
	if v, ok := c.positionPriority[strings.ToUpper(position)]; ok {
		return v
	}
	return c.defaultPriority
}

// ProminenceWeights are the per-metric weights of the statistical-prominence bonus.
func (c *Config) ProminenceWeights() map[string]float64 {
	return c.prominenceWeights
}

// Season formats the season that starts in year.
func (c *Config) Season(year int) string {
	if c.SeasonFormat == SplitYear {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return strconv.Itoa(year)
}

// CurrentSeason is last year's season until the boundary month is reached.
func (c *Config) CurrentSeason(now time.Time) string {
	return c.Season(c.CurrentSeasonYear(now))
}

func (c *Config) CurrentSeasonYear(now time.Time) int {
	if now.Month() < c.BoundaryMonth {
		return now.Year() - 1
	}
	return now.Year()
}

// SeasonYear extracts the starting year of a season string.
func SeasonYear(season string) (int, bool) {
	if len(season) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}
