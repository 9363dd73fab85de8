package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// playerGames resolves the plan's player and loads a season of games. A
// false return means the failure was already recorded on res.
func (e *Engine) playerGames(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) (string, []models.GameRecord, bool, error) {
	names := plan.Players()
	if len(names) == 0 {
		return "", nil, false, query.ErrEntityNotFound("")
	}
	name := names[0]

	cand, err := e.resolver.ResolvePlayer(ctx, cfg, name, plan.Metrics)
	if err != nil {
		return "", nil, false, singleFailure(res, name, err)
	}
	res.Entities = append(res.Entities, cand)

	season, games, err := e.fetcher.GameLogWithFallback(ctx, cfg, cand.Entity, requestedSeasons(cfg, plan))
	if err != nil {
		return "", nil, false, singleFailure(res, name, err)
	}
	return season, games, true, nil
}

func (e *Engine) handleGameSpecific(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	season, games, ok, err := e.playerGames(ctx, cfg, plan, res)
	if !ok {
		return err
	}

	week, opponent := plan.Filters.Week, plan.Filters.Opponent
	for _, g := range games {
		if week > 0 && g.Week != week {
			continue
		}
		if opponent != "" && !matchesOpponent(g, opponent) {
			continue
		}
		res.Games = append(res.Games, GameEntry{GameRecord: projectGame(g, plan.Metrics)})
	}

	if len(res.Games) == 0 {
		var parts []string
		if week > 0 {
			parts = append(parts, fmt.Sprintf("week %d", week))
		}
		if opponent != "" {
			parts = append(parts, "against "+opponent)
		}
		res.note(fmt.Sprintf("No %s game matched %s", season, strings.Join(parts, " ")))
	}
	return nil
}

var opponentStopWords = map[string]bool{"the": true, "a": true, "vs": true, "game": true}

// matchesOpponent accepts an abbreviation, a substring of the full name, or
// any significant word of it ("the cowboys" matches "Dallas Cowboys").
func matchesOpponent(g models.GameRecord, opponent string) bool {
	want := strings.ToLower(strings.TrimSpace(opponent))
	have := strings.ToLower(g.Opponent)
	if want == "" {
		return true
	}
	if strings.EqualFold(g.OpponentAbbr, want) || strings.Contains(have, want) {
		return true
	}
	haveWords := make(map[string]bool)
	for _, w := range strings.Fields(have) {
		haveWords[w] = true
	}
	for _, w := range strings.Fields(want) {
		if len(w) > 2 && !opponentStopWords[w] && haveWords[w] {
			return true
		}
	}
	return false
}

func projectGame(g models.GameRecord, metrics []string) models.GameRecord {
	if len(metrics) == 0 {
		return g
	}
	stats := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		if v, ok := g.Stats[m]; ok {
			stats[m] = v
		}
	}
	g.Stats = stats
	return g
}

func gameMetrics(games []models.GameRecord, metrics []string) []string {
	if len(metrics) > 0 {
		return metrics
	}
	seen := make(map[string]bool)
	var out []string
	for _, g := range games {
		for m := range g.Stats {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (e *Engine) handleContextual(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	_, games, ok, err := e.playerGames(ctx, cfg, plan, res)
	if !ok {
		return err
	}
	res.Buckets = bucketGames(games, plan.Filters.OpponentType, gameMetrics(games, plan.Metrics))
	if plan.Filters.OpponentType != "" && !anyCategorized(games) {
		res.note("Opponent categories are unknown for these games, so every game is counted as other")
	}
	return nil
}

func anyCategorized(games []models.GameRecord) bool {
	for _, g := range games {
		if g.IsDivision || g.IsConference {
			return true
		}
	}
	return false
}

// bucketGames splits games by venue, or by opponent category when one was
// asked about.
func bucketGames(games []models.GameRecord, opponentType string, metrics []string) []Bucket {
	var names []string
	var pick func(models.GameRecord) string
	if opponentType == "" {
		names = []string{"home", "away"}
		pick = func(g models.GameRecord) string {
			if g.IsHome {
				return "home"
			}
			return "away"
		}
	} else {
		names = []string{"division", "conference", "other"}
		pick = func(g models.GameRecord) string {
			switch {
			case g.IsDivision:
				return "division"
			case g.IsConference:
				return "conference"
			default:
				return "other"
			}
		}
	}

	buckets := make(map[string]*Bucket, len(names))
	for _, n := range names {
		buckets[n] = &Bucket{Name: n, Totals: make(map[string]float64), PerGame: make(map[string]float64)}
	}
	for _, g := range games {
		b := buckets[pick(g)]
		b.Games++
		switch strings.ToUpper(strings.TrimSpace(g.Result)) {
		case "W":
			b.Wins++
		case "L":
			b.Losses++
		case "T":
			b.Ties++
		}
		for _, m := range metrics {
			b.Totals[m] += g.Stats[m]
		}
	}

	out := make([]Bucket, 0, len(names))
	for _, n := range names {
		b := buckets[n]
		for _, m := range metrics {
			b.Totals[m] = round2(b.Totals[m])
			if b.Games > 0 {
				b.PerGame[m] = round2(b.Totals[m] / float64(b.Games))
			}
		}
		out = append(out, *b)
	}
	return out
}

func (e *Engine) handleGameRanking(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	season, games, ok, err := e.playerGames(ctx, cfg, plan, res)
	if !ok {
		return err
	}

	metric := leaderMetric(cfg, plan)
	order := plan.Filters.SortOrder
	if order == "" {
		order = "desc"
	}

	ranked, summary := rankGames(games, metric, order)
	if len(ranked) == 0 {
		res.note(fmt.Sprintf("No %s game recorded %s", season, displayName(cfg)(metric)))
		return nil
	}
	if plan.Filters.Limit > 0 && len(ranked) > plan.Filters.Limit {
		ranked = ranked[:plan.Filters.Limit]
	}
	res.Games = ranked
	res.GameSummary = summary
	return nil
}

// rankGames orders the games that recorded metric and numbers them 1..N.
func rankGames(games []models.GameRecord, metric, order string) ([]GameEntry, *GameSummary) {
	var ranked []GameEntry
	for _, g := range games {
		if _, ok := g.Stats[metric]; ok {
			ranked = append(ranked, GameEntry{GameRecord: g})
		}
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Stats[metric], ranked[j].Stats[metric]
		if order == "asc" {
			return a < b
		}
		return a > b
	})

	summary := &GameSummary{Metric: metric, Order: order, Games: len(ranked)}
	var total float64
	for i := range ranked {
		ranked[i].Rank = i + 1
		v := ranked[i].Stats[metric]
		total += v
		if i == 0 || v > summary.Best {
			summary.Best = v
		}
		if i == 0 || v < summary.Worst {
			summary.Worst = v
		}
	}
	summary.Average = round2(total / float64(len(ranked)))
	return ranked, summary
}
