package engine

import (
	"context"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

var offensiveYards = []string{"passing_yards", "rushing_yards", "receiving_yards"}

type teamItem struct {
	name      string
	candidate models.EntityCandidate
	totals    *TeamTotals
	err       *query.QueryError
}

// resolveTeams resolves each team and sums its roster for the first season
// in the chain that has any rows.
func (e *Engine) resolveTeams(ctx context.Context, cfg *sports.Config, names []string, requested []string, metrics []string) []teamItem {
	chain := e.fetcher.SeasonChain(cfg, requested)
	items := make([]teamItem, len(names))
	e.forEach(ctx, len(names), func(ctx context.Context, i int) {
		item := teamItem{name: names[i]}
		defer func() { items[i] = item }()

		cand, err := e.resolver.ResolveTeam(ctx, cfg, names[i])
		if err != nil {
			item.err = asQueryError(err)
			return
		}
		item.candidate = cand

		for _, season := range chain {
			records, err := e.population.TeamSeasonStats(ctx, cfg, cand.Entity, season)
			if err != nil {
				item.err = query.ErrDataSourceUnavailable("store", err)
				return
			}
			if len(records) > 0 {
				totals := aggregateTeam(cfg, cand.Entity, season, records, metrics)
				item.totals = &totals
				return
			}
		}
		item.err = query.ErrNoStatsAvailable(cand.Entity.Name, chain)
	})
	return items
}

// aggregateTeam sums each player's season values. With no metrics requested
// every recorded metric is summed.
func aggregateTeam(cfg *sports.Config, team models.Entity, season string, records []models.StatsRecord, metrics []string) TeamTotals {
	totals := TeamTotals{
		Team:        team,
		Season:      season,
		PlayerCount: len(records),
		Totals:      make(map[string]float64),
	}

	want := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		want[m] = true
	}
	for _, rec := range records {
		for m, v := range rec.Values {
			if len(want) == 0 || want[m] {
				totals.Totals[m] += v
			}
		}
		if cfg.Sport == sports.NFL {
			for _, m := range offensiveYards {
				totals.TotalOffensiveYards += rec.Values[m]
			}
		}
	}
	for m, v := range totals.Totals {
		totals.Totals[m] = round2(v)
	}
	totals.TotalOffensiveYards = round2(totals.TotalOffensiveYards)
	return totals
}

func collectTeams(res *ExecutionResult, items []teamItem) []teamItem {
	var ok []teamItem
	for _, it := range items {
		if it.err != nil {
			res.addError(it.name, it.err)
			continue
		}
		ok = append(ok, it)
		res.Entities = append(res.Entities, it.candidate)
		res.TeamStats = append(res.TeamStats, *it.totals)
	}
	return ok
}

func (e *Engine) handleTeamStats(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	if len(plan.Teams) == 0 {
		return query.ErrEntityNotFound("")
	}
	items := e.resolveTeams(ctx, cfg, plan.Teams, requestedSeasons(cfg, plan), plan.Metrics)
	if len(items) == 1 && items[0].err != nil {
		return singleFailure(res, items[0].name, items[0].err)
	}
	collectTeams(res, items)
	return nil
}

func (e *Engine) handleTeamComparison(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	items := e.resolveTeams(ctx, cfg, plan.Teams, requestedSeasons(cfg, plan), plan.Metrics)
	ok := collectTeams(res, items)
	if len(ok) < 2 {
		res.note("Not enough teams could be resolved to make a comparison")
		return nil
	}

	subjects := make([]subject, len(ok))
	for i, it := range ok {
		values := it.totals.Totals
		if cfg.Sport == sports.NFL && len(plan.Metrics) == 0 {
			values = copyValues(values)
			values["total_offensive_yards"] = it.totals.TotalOffensiveYards
		}
		subjects[i] = subject{label: it.candidate.Entity.Name, values: values}
	}
	res.Comparison = e.compareSubjects(cfg, plan, subjects)
	if res.Comparison == nil {
		res.note("The teams have no recorded metrics in common")
	}
	return nil
}

func copyValues(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
