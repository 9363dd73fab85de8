package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/internal/store"
)

// EntityResolver maps free-text names to players and teams.
type EntityResolver interface {
	ResolvePlayer(ctx context.Context, cfg *sports.Config, name string, metrics []string) (models.EntityCandidate, error)
	ResolveTeam(ctx context.Context, cfg *sports.Config, name string) (models.EntityCandidate, error)
}

// StatsFetcher is the tiered stats lookup.
type StatsFetcher interface {
	FetchStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string, metrics []string) (*models.StatsRecord, error)
	FetchWithFallback(ctx context.Context, cfg *sports.Config, entity models.Entity, requested []string, metrics []string) (*models.StatsRecord, error)
	GameLogWithFallback(ctx context.Context, cfg *sports.Config, entity models.Entity, requested []string) (string, []models.GameRecord, error)
	SeasonChain(cfg *sports.Config, requested []string) []string
}

// Population answers league-wide and team-wide questions from the store.
type Population interface {
	Leaderboard(ctx context.Context, cfg *sports.Config, lq store.LeaderboardQuery) ([]store.LeaderRow, error)
	MetricSummary(ctx context.Context, cfg *sports.Config, f store.PopulationFilter, metric string) (store.Summary, error)
	TeamSeasonStats(ctx context.Context, cfg *sports.Config, team models.Entity, season string) ([]models.StatsRecord, error)
}

// Handler executes one query type and fills res.
type Handler func(ctx context.Context, cfg *sports.Config, plan *query.QueryPlan, res *ExecutionResult) error

type Options struct {
	BatchConcurrency int
	LeaderboardLimit int
}

type Engine struct {
	registry   *sports.Registry
	classifier *query.Classifier
	resolver   EntityResolver
	fetcher    StatsFetcher
	population Population
	logger     *logrus.Logger
	opts       Options
	handlers   map[query.QueryType]Handler
}

func NewEngine(registry *sports.Registry, classifier *query.Classifier, resolver EntityResolver, fetcher StatsFetcher, population Population, opts Options, logger *logrus.Logger) *Engine {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 4
	}
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = 10
	}
	e := &Engine{
		registry:   registry,
		classifier: classifier,
		resolver:   resolver,
		fetcher:    fetcher,
		population: population,
		logger:     logger,
		opts:       opts,
	}
	e.handlers = map[query.QueryType]Handler{
		query.SingleEntityStat:          e.handleSingleEntity,
		query.MultiStatPlayer:           e.handleSingleEntity,
		query.PlayerComparison:          e.handlePlayerComparison,
		query.MultiPlayerComparison:     e.handlePlayerComparison,
		query.TeamComparison:            e.handleTeamComparison,
		query.MultiTeamComparison:       e.handleTeamComparison,
		query.SeasonComparison:          e.handleSeasonComparison,
		query.MultiSeasonComparison:     e.handleSeasonComparison,
		query.TeamStats:                 e.handleTeamStats,
		query.LeagueLeaders:             e.handleLeaders,
		query.PlayerRanking:             e.handleLeaders,
		query.AggregateStat:             e.handleLeaders,
		query.ThresholdQuery:            e.handleLeaders,
		query.GameSpecificStats:         e.handleGameSpecific,
		query.ContextualPerformance:     e.handleContextual,
		query.GamePerformanceComparison: e.handleGameRanking,
	}
	return e
}

// Handles reports whether a handler is registered for t.
func (e *Engine) Handles(t query.QueryType) bool {
	_, ok := e.handlers[t]
	return ok
}

type requestIDKey struct{}

// WithRequestID attaches the caller's request id so results and logs carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Classify exposes the classifier on its own.
func (e *Engine) Classify(desc query.QueryDescription) (*query.QueryPlan, error) {
	return e.classifier.Classify(desc)
}

// Execute classifies desc and runs the matching handler. Errors returned
// here fail the whole request; per-entity failures land in res.Errors.
func (e *Engine) Execute(ctx context.Context, desc query.QueryDescription) (*ExecutionResult, error) {
	start := time.Now()
	id := requestID(ctx)

	plan, err := e.classifier.Classify(desc)
	if err != nil {
		services.RecordQuery("unclassified", failureOutcome(err), time.Since(start))
		return nil, err
	}
	cfg, _ := e.registry.Get(string(plan.Sport))

	log := e.logger.WithFields(logrus.Fields{
		"component":  "engine",
		"request_id": id,
		"sport":      plan.Sport,
		"query_type": plan.QueryType,
	})

	finish := func(outcome string) {
		services.RecordQuery(string(plan.QueryType), outcome, time.Since(start))
	}

	if bad := unknownMetrics(cfg, plan.Metrics); len(bad) > 0 {
		err := query.ErrUnsupportedMetric(string(plan.Sport), bad)
		finish(failureOutcome(err))
		return nil, err
	}

	handler, ok := e.handlers[plan.QueryType]
	if !ok {
		err := query.ErrUnsupportedQueryType(plan.QueryType)
		finish(failureOutcome(err))
		return nil, err
	}

	res := &ExecutionResult{
		RequestID:      id,
		Plan:           plan,
		ResponseFormat: plan.ResponseFormat,
	}
	if err := handler(ctx, cfg, plan, res); err != nil {
		log.WithError(err).Info("Query failed")
		finish(failureOutcome(err))
		return nil, err
	}

	outcome := "ok"
	switch {
	case res.Ambiguity != nil:
		outcome = "ambiguous"
	case len(res.Errors) > 0:
		outcome = "partial"
		res.note("Some requested items could not be answered: " + strings.Join(errorKeys(res.Errors), ", "))
	}
	finish(outcome)

	log.WithFields(logrus.Fields{
		"outcome":  outcome,
		"errors":   len(res.Errors),
		"duration": time.Since(start).String(),
	}).Info("Query executed")
	return res, nil
}

// failureOutcome labels a failed query: "rejected" when the request asked
// for something this deployment does not serve, "error" otherwise.
func failureOutcome(err error) string {
	if qe, ok := query.AsQueryError(err); ok && qe.IsConfiguration() {
		return "rejected"
	}
	return "error"
}

func unknownMetrics(cfg *sports.Config, metrics []string) []string {
	var bad []string
	for _, m := range metrics {
		if !cfg.IsKnownMetric(m) {
			bad = append(bad, m)
		}
	}
	return bad
}

func errorKeys(errs map[string]*query.QueryError) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// requestedSeasons turns the plan's season filters into season strings.
func requestedSeasons(cfg *sports.Config, plan *query.QueryPlan) []string {
	var out []string
	for _, y := range plan.Filters.SeasonYears {
		out = append(out, cfg.Season(y))
	}
	if s := strings.TrimSpace(plan.Filters.Season); s != "" {
		if y, ok := sports.SeasonYear(s); ok {
			s = cfg.Season(y)
		}
		out = append(out, s)
	}
	return out
}

func displayName(cfg *sports.Config) func(string) string {
	return func(metric string) string {
		if m, ok := cfg.Stat(metric); ok {
			return m.DisplayName
		}
		return metric
	}
}

// batchItem is the outcome of resolving and fetching one name.
type batchItem struct {
	name      string
	candidate models.EntityCandidate
	record    *models.StatsRecord
	err       *query.QueryError
}

// forEach runs fn for every index with bounded parallelism. fn records its
// own failure; one item failing never cancels the others.
func (e *Engine) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	var g errgroup.Group
	g.SetLimit(e.opts.BatchConcurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

// asQueryError keeps structured errors and wraps anything else as a store
// failure so it can sit in the error map.
func asQueryError(err error) *query.QueryError {
	if qe, ok := query.AsQueryError(err); ok {
		return qe
	}
	return query.ErrDataSourceUnavailable("store", err)
}

// resolvePlayers resolves and fetches each name independently.
func (e *Engine) resolvePlayers(ctx context.Context, cfg *sports.Config, names []string, seasons []string, metrics []string) []batchItem {
	items := make([]batchItem, len(names))
	e.forEach(ctx, len(names), func(ctx context.Context, i int) {
		item := batchItem{name: names[i]}
		defer func() { items[i] = item }()

		cand, err := e.resolver.ResolvePlayer(ctx, cfg, names[i], metrics)
		if err != nil {
			item.err = asQueryError(err)
			return
		}
		item.candidate = cand

		rec, err := e.fetcher.FetchWithFallback(ctx, cfg, cand.Entity, seasons, metrics)
		if err != nil {
			item.err = asQueryError(err)
			return
		}
		item.record = rec
	})
	return items
}

// collect splits a batch into successes and the result's error map.
func collect(res *ExecutionResult, items []batchItem) []batchItem {
	var ok []batchItem
	for _, it := range items {
		if it.err != nil {
			res.addError(it.name, it.err)
			continue
		}
		ok = append(ok, it)
		res.Entities = append(res.Entities, it.candidate)
		if it.record != nil {
			res.Stats = append(res.Stats, *it.record)
		}
	}
	return ok
}

// singleFailure turns the sole entity's error into the result shape: an
// ambiguous name is answered with a clarification, missing stats with an
// error entry, anything else fails the request.
func singleFailure(res *ExecutionResult, name string, err error) error {
	qe, ok := query.AsQueryError(err)
	if !ok {
		return err
	}
	switch qe.Kind {
	case query.KindAmbiguousEntity:
		res.Ambiguity = qe
		return nil
	case query.KindNoStatsAvailable:
		res.addError(name, qe)
		return nil
	}
	return qe
}

// uniqueLabels disambiguates identical display names with the entity id.
func uniqueLabels(items []batchItem) []string {
	count := make(map[string]int)
	for _, it := range items {
		count[it.candidate.Entity.Name]++
	}
	out := make([]string, len(items))
	for i, it := range items {
		label := it.candidate.Entity.Name
		if label == "" {
			label = it.name
		}
		if count[it.candidate.Entity.Name] > 1 {
			label = label + " #" + strconv.FormatUint(uint64(it.candidate.Entity.ID), 10)
		}
		out[i] = label
	}
	return out
}
