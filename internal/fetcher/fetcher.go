package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// Tier names, also used as metric labels.
const (
	TierCache  = "cache"
	TierStore  = "store"
	TierRemote = "remote"
	TierCareer = "career"
)

// Cache is the fast tier.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Store is the persistent tier. Lookups return nil, nil on a miss.
type Store interface {
	SeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string) (*models.StatsRecord, error)
	CareerStats(ctx context.Context, cfg *sports.Config, entity models.Entity) (*models.StatsRecord, error)
	SaveSeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, rec *models.StatsRecord) error
	GameLog(ctx context.Context, entity models.Entity, season string) ([]models.GameRecord, error)
	SaveGameLog(ctx context.Context, entity models.Entity, season string, games []models.GameRecord) error
}

// OpponentTagger is implemented by stores that know team divisions and
// conferences. Remote game logs carry neither.
type OpponentTagger interface {
	TagOpponents(ctx context.Context, entity models.Entity, games []models.GameRecord) ([]models.GameRecord, error)
}

// Remote is the slow tier. Lookups return nil, nil when the source has nothing.
type Remote interface {
	SeasonStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string, metrics []string) (*models.StatsRecord, error)
	GameLog(ctx context.Context, cfg *sports.Config, entity models.Entity, season string) ([]models.GameRecord, error)
}

type Options struct {
	StatsTTL        time.Duration
	GameLogTTL      time.Duration
	FallbackSeasons int
	Now             func() time.Time
}

// Fetcher looks stats up cache first, then store, then remote, writing what
// the slower tiers return back into the faster ones.
type Fetcher struct {
	cache  Cache
	store  Store
	remote Remote
	logger *logrus.Logger
	opts   Options
}

// NewFetcher builds a fetcher. remote may be nil when no remote source is
// configured.
func NewFetcher(cache Cache, store Store, remote Remote, opts Options, logger *logrus.Logger) *Fetcher {
	if opts.StatsTTL <= 0 {
		opts.StatsTTL = time.Hour
	}
	if opts.GameLogTTL <= 0 {
		opts.GameLogTTL = 6 * time.Hour
	}
	if opts.FallbackSeasons <= 0 {
		opts.FallbackSeasons = 3
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Fetcher{
		cache:  cache,
		store:  store,
		remote: remote,
		logger: logger,
		opts:   opts,
	}
}

// Now is the clock used to compute the current season.
func (f *Fetcher) Now() time.Time {
	return f.opts.Now()
}

func (f *Fetcher) log(entity models.Entity, season string) *logrus.Entry {
	return f.logger.WithFields(logrus.Fields{
		"component": "fetcher",
		"entity_id": entity.ID,
		"entity":    entity.Name,
		"season":    season,
	})
}

// FetchStats returns one season of stats for an entity, or nil, nil when no
// tier has it. A DataSourceUnavailable error is returned only when every
// tier that was tried failed.
func (f *Fetcher) FetchStats(ctx context.Context, cfg *sports.Config, entity models.Entity, season string, metrics []string) (*models.StatsRecord, error) {
	key := services.StatsCacheKey(string(cfg.Sport), entity.ID, season, metrics)
	log := f.log(entity, season)

	var cached models.StatsRecord
	switch err := f.cache.Get(ctx, key, &cached); {
	case err == nil:
		services.RecordFetch(TierCache, "hit")
		log.Debug("Stats served from cache")
		cached.Source = TierCache
		return &cached, nil
	case errors.Is(err, services.ErrCacheMiss):
		services.RecordFetch(TierCache, "miss")
	default:
		services.RecordFetch(TierCache, "error")
		log.WithError(err).Warn("Cache lookup failed")
	}

	var (
		attempted, failed int
		lastTier          string
		lastErr           error
	)

	attempted++
	rec, err := f.store.SeasonStats(ctx, cfg, entity, season)
	if err != nil {
		failed++
		lastTier, lastErr = TierStore, err
		services.RecordFetch(TierStore, "error")
		log.WithError(err).Warn("Store lookup failed")
		rec = nil
	}
	rec = project(cfg, rec, metrics)
	if rec != nil {
		services.RecordFetch(TierStore, "hit")
	} else if err == nil {
		services.RecordFetch(TierStore, "miss")
		log.Debug("Stats not in store")
	}

	if rec == nil && f.remote != nil {
		attempted++
		remote, err := f.remote.SeasonStats(ctx, cfg, entity, season, metrics)
		switch {
		case err != nil:
			failed++
			lastTier, lastErr = TierRemote, err
			services.RecordFetch(TierRemote, "error")
			log.WithError(err).Warn("Remote lookup failed")
		case remote.Empty():
			services.RecordFetch(TierRemote, "miss")
			log.Debug("Stats not available remotely")
		default:
			services.RecordFetch(TierRemote, "hit")
			if err := f.store.SaveSeasonStats(ctx, cfg, entity, remote); err != nil {
				log.WithError(err).Warn("Failed to write remote stats back to store")
			}
			rec = project(cfg, remote, metrics)
		}
	}

	if rec == nil {
		if failed > 0 && failed == attempted {
			return nil, query.ErrDataSourceUnavailable(lastTier, lastErr)
		}
		return nil, nil
	}

	// same key always holds the same computed value, so racing writers are harmless
	if err := f.cache.Set(ctx, key, rec, f.opts.StatsTTL); err != nil {
		log.WithError(err).Warn("Failed to cache stats")
	}
	return rec, nil
}

// SeasonChain lists the seasons tried for a request: requested seasons in
// order, then the current season, then the preceding ones.
func (f *Fetcher) SeasonChain(cfg *sports.Config, requested []string) []string {
	seen := make(map[string]bool)
	var chain []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			chain = append(chain, s)
		}
	}

	for _, s := range requested {
		add(s)
	}
	current := cfg.CurrentSeasonYear(f.opts.Now())
	add(cfg.Season(current))
	for i := 1; i <= f.opts.FallbackSeasons; i++ {
		add(cfg.Season(current - i))
	}
	return chain
}

// FetchWithFallback walks the season chain and returns the first season
// with stats. Failing that it returns career totals, and failing that a
// NoStatsAvailable error naming the seasons tried.
func (f *Fetcher) FetchWithFallback(ctx context.Context, cfg *sports.Config, entity models.Entity, requested []string, metrics []string) (*models.StatsRecord, error) {
	chain := f.SeasonChain(cfg, requested)

	var unavailable error
	for _, season := range chain {
		rec, err := f.FetchStats(ctx, cfg, entity, season, metrics)
		if err != nil {
			if !query.IsKind(err, query.KindDataSourceUnavailable) {
				return nil, err
			}
			unavailable = err
			continue
		}
		if rec == nil {
			continue
		}
		if len(requested) > 0 && season != requested[0] && rec.Note == "" {
			out := *rec
			out.Note = fmt.Sprintf("No stats for %s; showing %s", requested[0], season)
			return &out, nil
		}
		return rec, nil
	}

	career, err := f.store.CareerStats(ctx, cfg, entity)
	switch {
	case err != nil:
		services.RecordFetch(TierCareer, "error")
		f.log(entity, sports.CareerSeason).WithError(err).Warn("Career lookup failed")
		if unavailable == nil {
			unavailable = query.ErrDataSourceUnavailable(TierStore, err)
		}
	case project(cfg, career, metrics) != nil:
		services.RecordFetch(TierCareer, "hit")
		rec := project(cfg, career, metrics)
		rec.Source = TierCareer
		if rec.Note == "" {
			rec.Note = "Career totals"
		}
		return rec, nil
	default:
		services.RecordFetch(TierCareer, "miss")
	}

	if unavailable != nil {
		return nil, unavailable
	}
	return nil, query.ErrNoStatsAvailable(entity.Name, chain)
}

// FetchGameLog returns a player's games for a season through the same
// tiers. An empty result means no tier had the log.
func (f *Fetcher) FetchGameLog(ctx context.Context, cfg *sports.Config, entity models.Entity, season string) ([]models.GameRecord, error) {
	key := services.GameLogCacheKey(string(cfg.Sport), entity.ID, season)
	log := f.log(entity, season)

	var cached []models.GameRecord
	switch err := f.cache.Get(ctx, key, &cached); {
	case err == nil:
		services.RecordFetch(TierCache, "hit")
		return cached, nil
	case errors.Is(err, services.ErrCacheMiss):
		services.RecordFetch(TierCache, "miss")
	default:
		services.RecordFetch(TierCache, "error")
		log.WithError(err).Warn("Cache lookup failed")
	}

	games, storeErr := f.store.GameLog(ctx, entity, season)
	if storeErr != nil {
		services.RecordFetch(TierStore, "error")
		log.WithError(storeErr).Warn("Store game log lookup failed")
	}

	if len(games) == 0 && f.remote != nil {
		remote, err := f.remote.GameLog(ctx, cfg, entity, season)
		if err != nil {
			services.RecordFetch(TierRemote, "error")
			log.WithError(err).Warn("Remote game log lookup failed")
			if storeErr != nil {
				return nil, query.ErrDataSourceUnavailable(TierRemote, err)
			}
			return nil, nil
		}
		if len(remote) > 0 {
			services.RecordFetch(TierRemote, "hit")
			if tagger, ok := f.store.(OpponentTagger); ok {
				tagged, err := tagger.TagOpponents(ctx, entity, remote)
				if err != nil {
					log.WithError(err).Warn("Failed to tag opponents on remote game log")
				}
				remote = tagged
			}
			if err := f.store.SaveGameLog(ctx, entity, season, remote); err != nil {
				log.WithError(err).Warn("Failed to write game log back to store")
			}
			games = remote
		}
	} else if storeErr != nil {
		return nil, query.ErrDataSourceUnavailable(TierStore, storeErr)
	}

	if len(games) == 0 {
		return nil, nil
	}
	if err := f.cache.Set(ctx, key, games, f.opts.GameLogTTL); err != nil {
		log.WithError(err).Warn("Failed to cache game log")
	}
	return games, nil
}

// GameLogWithFallback walks the season chain until a season has games.
func (f *Fetcher) GameLogWithFallback(ctx context.Context, cfg *sports.Config, entity models.Entity, requested []string) (string, []models.GameRecord, error) {
	chain := f.SeasonChain(cfg, requested)
	var unavailable error
	for _, season := range chain {
		games, err := f.FetchGameLog(ctx, cfg, entity, season)
		if err != nil {
			unavailable = err
			continue
		}
		if len(games) > 0 {
			return season, games, nil
		}
	}
	if unavailable != nil {
		return "", nil, unavailable
	}
	return "", nil, query.ErrNoStatsAvailable(entity.Name, chain)
}

// project narrows rec to the requested metrics, filling derived metrics from
// their components. It returns nil when none of the metrics are present.
func project(cfg *sports.Config, rec *models.StatsRecord, metrics []string) *models.StatsRecord {
	if rec.Empty() {
		return nil
	}
	if len(metrics) == 0 {
		out := *rec
		return &out
	}

	values := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		if v, ok := rec.Values[m]; ok {
			values[m] = v
			continue
		}
		comps, ok := cfg.Derived[m]
		if !ok {
			continue
		}
		var sum float64
		var found bool
		for _, c := range comps {
			if v, ok := rec.Values[c]; ok {
				sum += v
				found = true
			}
		}
		if found {
			values[m] = sum
		}
	}
	if len(values) == 0 {
		return nil
	}

	out := *rec
	out.Values = values
	return &out
}
