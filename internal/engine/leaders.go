package engine

import (
	"context"
	"fmt"

	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/internal/store"
)

// leaderMetric picks the metric a population query orders by.
func leaderMetric(cfg *sports.Config, plan *query.QueryPlan) string {
	if len(plan.Metrics) > 0 {
		return plan.Metrics[0]
	}
	if plan.Filters.SortMetric != "" && cfg.IsKnownMetric(plan.Filters.SortMetric) {
		return plan.Filters.SortMetric
	}
	return cfg.PrimaryMetric
}

// handleLeaders serves leaderboards, a named player's rank, league
// aggregates and threshold filters. All of them rank the same population
// and report its league average alongside.
func (e *Engine) handleLeaders(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error {
	metric := leaderMetric(cfg, plan)
	filter := store.PopulationFilter{Position: plan.Filters.Position}

	board := &Leaderboard{
		Metric:      metric,
		DisplayName: displayName(cfg)(metric),
		Position:    filter.Position,
	}

	if len(plan.Teams) == 1 {
		team, err := e.resolver.ResolveTeam(ctx, cfg, plan.Teams[0])
		if err != nil {
			return singleFailure(res, plan.Teams[0], err)
		}
		id := team.Entity.ID
		filter.TeamID = &id
		board.Team = team.Entity.Name
		res.Entities = append(res.Entities, team)
	}

	if plan.QueryType == query.AggregateStat && len(plan.Players()) == 1 {
		e.aggregatePlayer(ctx, cfg, plan, res)
	}

	// first season in the chain with anyone recording the metric
	chain := e.fetcher.SeasonChain(cfg, requestedSeasons(cfg, plan))
	var summary store.Summary
	for _, season := range chain {
		filter.Season = season
		s, err := e.population.MetricSummary(ctx, cfg, filter, metric)
		if err != nil {
			return query.ErrDataSourceUnavailable("store", err)
		}
		if s.Count > 0 {
			summary = s
			break
		}
	}
	if summary.Count == 0 {
		res.addError(metric, query.ErrNoStatsAvailable(board.DisplayName, chain))
		return nil
	}
	board.Season = filter.Season
	board.LeagueAverage = round2(summary.Average)
	board.LeagueTotal = round2(summary.Total)
	board.Population = summary.Count

	lq := store.LeaderboardQuery{
		PopulationFilter: filter,
		Metric:           metric,
		Ascending:        plan.Filters.SortOrder == "asc",
		Limit:            plan.Filters.Limit,
	}
	if plan.QueryType == query.ThresholdQuery && plan.Filters.ThresholdOp != "" {
		lq.ThresholdOp = plan.Filters.ThresholdOp
		lq.ThresholdValue = plan.Filters.ThresholdValue
		board.ThresholdOp = lq.ThresholdOp
		board.ThresholdValue = lq.ThresholdValue
	} else if lq.Limit <= 0 {
		lq.Limit = e.opts.LeaderboardLimit
	}

	rows, err := e.population.Leaderboard(ctx, cfg, lq)
	if err != nil {
		return query.ErrDataSourceUnavailable("store", err)
	}
	board.Rows = rankRows(rows)
	res.Leaderboard = board

	if plan.QueryType == query.AggregateStat {
		res.note(fmt.Sprintf("League total %s in %s: %.2f across %d players (average %.2f)",
			board.DisplayName, board.Season, board.LeagueTotal, board.Population, board.LeagueAverage))
	}

	if plan.QueryType == query.PlayerRanking && len(plan.Players()) > 0 {
		return e.rankPlayer(ctx, cfg, plan, res, lq)
	}
	return nil
}

// aggregatePlayer answers a total asked about one named player: their
// record plus average x games arithmetic, next to the league context.
// A failure here is reported for the player and the league figures are
// still returned.
func (e *Engine) aggregatePlayer(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) {
	item := e.resolvePlayers(ctx, cfg, plan.Players(), requestedSeasons(cfg, plan), plan.Metrics)[0]
	if item.err != nil {
		if item.err.Kind == query.KindAmbiguousEntity {
			res.Ambiguity = item.err
			return
		}
		res.addError(item.name, item.err)
		return
	}

	res.Entities = append(res.Entities, item.candidate)
	res.Stats = append(res.Stats, *item.record)
	name := item.candidate.Entity.Name
	if item.record.Note != "" {
		res.note(fmt.Sprintf("%s: %s", name, item.record.Note))
	}
	res.Calculations = append(res.Calculations, seasonTotals(cfg, name, item.record)...)
}

// rankRows numbers rows in order, giving equal values the same rank.
func rankRows(rows []store.LeaderRow) []LeaderEntry {
	out := make([]LeaderEntry, len(rows))
	for i, row := range rows {
		out[i] = LeaderEntry{Rank: i + 1, LeaderRow: row}
		if i > 0 && row.Value == rows[i-1].Value {
			out[i].Rank = out[i-1].Rank
		}
	}
	return out
}

// rankPlayer locates the named player within the whole population.
func (e *Engine) rankPlayer(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult, lq store.LeaderboardQuery) error {
	name := plan.Players()[0]
	cand, err := e.resolver.ResolvePlayer(ctx, cfg, name, []string{lq.Metric})
	if err != nil {
		if qe, ok := query.AsQueryError(err); ok {
			res.addError(name, qe)
			return nil
		}
		return err
	}
	res.Entities = append(res.Entities, cand)

	lq.Limit = 0
	lq.ThresholdOp = ""
	rows, err := e.population.Leaderboard(ctx, cfg, lq)
	if err != nil {
		return query.ErrDataSourceUnavailable("store", err)
	}
	for _, entry := range rankRows(rows) {
		if entry.Entity.ID == cand.Entity.ID {
			res.Ranking = &Ranking{
				Entity:     entry.Entity,
				Metric:     lq.Metric,
				Season:     lq.Season,
				Value:      entry.Value,
				Rank:       entry.Rank,
				Population: len(rows),
			}
			return nil
		}
	}
	res.addError(name, query.ErrNoStatsAvailable(cand.Entity.Name, []string{lq.Season}))
	return nil
}
