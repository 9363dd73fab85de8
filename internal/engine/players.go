package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

func (e *Engine) handleSingleEntity(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	names := plan.Players()
	switch {
	case len(names) == 0 && len(plan.Teams) > 0:
		return e.handleTeamStats(ctx, cfg, plan, res)
	case len(names) == 0:
		return query.ErrEntityNotFound("")
	case len(names) > 1:
		// several players without a comparison cue: answer each one
		items := e.resolvePlayers(ctx, cfg, names, requestedSeasons(cfg, plan), plan.Metrics)
		for _, it := range collect(res, items) {
			e.annotateRecord(cfg, plan, res, it.candidate.Entity.Name, it.record)
		}
		return nil
	}

	name := names[0]
	cand, err := e.resolver.ResolvePlayer(ctx, cfg, name, plan.Metrics)
	if err != nil {
		return singleFailure(res, name, err)
	}
	res.Entities = append(res.Entities, cand)

	rec, err := e.fetcher.FetchWithFallback(ctx, cfg, cand.Entity, requestedSeasons(cfg, plan), plan.Metrics)
	if err != nil {
		return singleFailure(res, name, err)
	}
	res.Stats = append(res.Stats, *rec)
	e.annotateRecord(cfg, plan, res, cand.Entity.Name, rec)
	return nil
}

// annotateRecord carries fallback notes and season-total arithmetic into
// the result.
func (e *Engine) annotateRecord(cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult, name string, rec *models.StatsRecord) {
	if rec == nil {
		return
	}
	if rec.Note != "" {
		res.note(fmt.Sprintf("%s: %s", name, rec.Note))
	}
	if plan.Filters.SeasonTotal {
		res.Calculations = append(res.Calculations, seasonTotals(cfg, name, rec)...)
	}
}

// seasonTotals multiplies per-game averages by games played.
func seasonTotals(cfg *sports.Config, name string, rec *models.StatsRecord) []Calculation {
	if rec.GamesPlayed <= 0 {
		return nil
	}
	metrics := make([]string, 0, len(rec.Values))
	for m := range rec.Values {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	var out []Calculation
	for _, m := range metrics {
		stat, ok := cfg.Stat(m)
		if !ok || !stat.PerGame {
			continue
		}
		avg := rec.Values[m]
		total := round2(avg * float64(rec.GamesPlayed))
		out = append(out, Calculation{
			Entity:      name,
			Metric:      m,
			Description: fmt.Sprintf("%.2f %s per game x %d games = %.2f", avg, stat.DisplayName, rec.GamesPlayed, total),
			PerGame:     avg,
			GamesPlayed: rec.GamesPlayed,
			Total:       total,
		})
	}
	return out
}

func (e *Engine) handlePlayerComparison(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	items := e.resolvePlayers(ctx, cfg, plan.Players(), requestedSeasons(cfg, plan), plan.Metrics)
	ok := collect(res, items)
	for _, it := range ok {
		if it.record != nil && it.record.Note != "" {
			res.note(fmt.Sprintf("%s: %s", it.candidate.Entity.Name, it.record.Note))
		}
	}
	if len(ok) < 2 {
		res.note("Not enough players could be resolved to make a comparison")
		return nil
	}

	labels := uniqueLabels(ok)
	subjects := make([]subject, len(ok))
	for i, it := range ok {
		subjects[i] = subject{label: labels[i], values: it.record.Values}
	}
	res.Comparison = e.compareSubjects(cfg, plan, subjects)
	if res.Comparison == nil {
		res.note("The players have no recorded metrics in common")
	}
	return nil
}

// compareSubjects runs a pairwise comparison for the two-sided query types
// and an n-way ranking otherwise.
func (e *Engine) compareSubjects(cfg *sports.Config, plan *query.QueryPlan, subjects []subject) *Comparison {
	metrics := plan.Metrics
	if len(metrics) == 0 {
		metrics = sharedMetrics(subjects)
	}
	if len(metrics) == 0 {
		return nil
	}
	switch plan.QueryType {
	case query.PlayerComparison, query.TeamComparison:
		if len(subjects) == 2 {
			return comparePair(subjects[0], subjects[1], metrics, displayName(cfg))
		}
	}
	return compareN(subjects, metrics, displayName(cfg))
}

func (e *Engine) handleSeasonComparison(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	names := plan.Players()
	if len(names) == 0 {
		return query.ErrEntityNotFound("")
	}
	name := names[0]

	cand, err := e.resolver.ResolvePlayer(ctx, cfg, name, plan.Metrics)
	if err != nil {
		return singleFailure(res, name, err)
	}
	res.Entities = append(res.Entities, cand)

	years := append([]int(nil), plan.Filters.SeasonYears...)
	sort.Ints(years)
	var seasons []string
	seen := make(map[string]bool)
	for _, y := range years {
		if s := cfg.Season(y); !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}

	records := make([]*models.StatsRecord, len(seasons))
	errs := make([]*query.QueryError, len(seasons))
	e.forEach(ctx, len(seasons), func(ctx context.Context, i int) {
		rec, err := e.fetcher.FetchStats(ctx, cfg, cand.Entity, seasons[i], plan.Metrics)
		switch {
		case err != nil:
			errs[i] = asQueryError(err)
		case rec == nil:
			errs[i] = query.ErrNoStatsAvailable(cand.Entity.Name, []string{seasons[i]})
		default:
			records[i] = rec
		}
	})

	var subjects []subject
	for i, season := range seasons {
		if errs[i] != nil {
			res.addError(season, errs[i])
			continue
		}
		res.Stats = append(res.Stats, *records[i])
		subjects = append(subjects, subject{label: season, values: records[i].Values})
	}
	if len(subjects) < 2 {
		res.note("Not enough seasons with stats to make a comparison")
		return nil
	}

	metrics := plan.Metrics
	if len(metrics) == 0 {
		metrics = sharedMetrics(subjects)
	}
	if len(metrics) == 0 {
		res.note("The seasons have no recorded metrics in common")
		return nil
	}
	res.Comparison = compareSeasons(subjects, metrics, displayName(cfg))
	return nil
}
