package engine

import (
	"math"
	"sort"
)

const (
	trendImproved = "improved"
	trendDeclined = "declined"
	trendStable   = "stable"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// subject is one side of a comparison: a player, a team or a season.
type subject struct {
	label  string
	values map[string]float64
}

// rankValues orders subjects by value, highest first. Equal values share a
// rank, and each subject earns n-rank+1 points.
func rankValues(subjects []subject, metric string) []RankedValue {
	out := make([]RankedValue, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, RankedValue{Label: s.label, Value: round2(s.values[metric])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })

	n := len(out)
	for i := range out {
		if i > 0 && out[i].Value == out[i-1].Value {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
		out[i].Points = n - out[i].Rank + 1
	}
	return out
}

// standings sorts subjects by accumulated points.
func standings(order []string, points map[string]int) []RankedValue {
	out := make([]RankedValue, 0, len(order))
	for _, label := range order {
		out = append(out, RankedValue{Label: label, Points: points[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	for i := range out {
		if i > 0 && out[i].Points == out[i-1].Points {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

func valuesFor(subjects []subject, metric string) map[string]float64 {
	out := make(map[string]float64, len(subjects))
	for _, s := range subjects {
		out[s.label] = round2(s.values[metric])
	}
	return out
}

// comparePair picks a winner per metric and overall. Ties have no winner.
func comparePair(a, b subject, metrics []string, display func(string) string) *Comparison {
	c := &Comparison{
		Kind:     "pairwise",
		Subjects: []string{a.label, b.label},
		Wins:     map[string]int{a.label: 0, b.label: 0},
	}
	for _, m := range metrics {
		mc := MetricComparison{Metric: m, DisplayName: display(m), Values: valuesFor([]subject{a, b}, m)}
		av, bv := round2(a.values[m]), round2(b.values[m])
		switch {
		case av > bv:
			mc.Winner = a.label
			c.Wins[a.label]++
		case bv > av:
			mc.Winner = b.label
			c.Wins[b.label]++
		}
		c.Metrics = append(c.Metrics, mc)
	}

	switch {
	case c.Wins[a.label] > c.Wins[b.label]:
		c.Winner = a.label
	case c.Wins[b.label] > c.Wins[a.label]:
		c.Winner = b.label
	default:
		c.Tie = true
	}
	return c
}

// compareN ranks 3+ subjects per metric and overall by points.
func compareN(subjects []subject, metrics []string, display func(string) string) *Comparison {
	c := &Comparison{Kind: "n_way"}
	points := make(map[string]int, len(subjects))
	for _, s := range subjects {
		c.Subjects = append(c.Subjects, s.label)
	}
	for _, m := range metrics {
		ranking := rankValues(subjects, m)
		for _, r := range ranking {
			points[r.Label] += r.Points
		}
		c.Metrics = append(c.Metrics, MetricComparison{
			Metric:      m,
			DisplayName: display(m),
			Values:      valuesFor(subjects, m),
			Ranking:     ranking,
		})
	}
	c.Standings = standings(c.Subjects, points)
	return c
}

func direction(delta float64) string {
	switch {
	case delta > 0:
		return trendImproved
	case delta < 0:
		return trendDeclined
	default:
		return trendStable
	}
}

// compareSeasons expects seasons in chronological order. Two seasons get a
// signed and percentage change; three or more get a year-over-year chain
// and point standings.
func compareSeasons(seasons []subject, metrics []string, display func(string) string) *Comparison {
	if len(seasons) >= 3 {
		c := compareN(seasons, metrics, display)
		c.Kind = "multi_season"
		for _, m := range metrics {
			for i := 1; i < len(seasons); i++ {
				delta := round2(seasons[i].values[m] - seasons[i-1].values[m])
				c.Trend = append(c.Trend, TrendStep{
					Metric:    m,
					From:      seasons[i-1].label,
					To:        seasons[i].label,
					Delta:     delta,
					Direction: direction(delta),
				})
			}
		}
		return c
	}

	c := &Comparison{Kind: "season"}
	for _, s := range seasons {
		c.Subjects = append(c.Subjects, s.label)
	}
	for _, m := range metrics {
		mc := MetricComparison{
			Metric:      m,
			DisplayName: display(m),
			Values:      valuesFor(seasons, m),
			Ranking:     rankValues(seasons, m),
		}
		if len(seasons) == 2 {
			earlier, later := seasons[0].values[m], seasons[1].values[m]
			change := round2(later - earlier)
			mc.Change = &change
			if earlier != 0 {
				pct := round2((later - earlier) / earlier * 100)
				mc.PctChange = &pct
			}
			if change != 0 {
				mc.Winner = mc.Ranking[0].Label
			}
		}
		c.Metrics = append(c.Metrics, mc)
	}
	return c
}

// sharedMetrics lists, in sorted order, the metrics every subject recorded.
func sharedMetrics(subjects []subject) []string {
	if len(subjects) == 0 {
		return nil
	}
	var out []string
	for m := range subjects[0].values {
		shared := true
		for _, s := range subjects[1:] {
			if _, ok := s.values[m]; !ok {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}
