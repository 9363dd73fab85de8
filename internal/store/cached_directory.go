package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/services"
)

// CachedDirectory puts the name searches the resolver runs behind the fast
// cache. Latest-season lookups go straight to the repository since they
// change as stats are written back.
type CachedDirectory struct {
	repo   *Repository
	cache  services.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedDirectory(repo *Repository, cache services.Cache, ttl time.Duration, logger *logrus.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedDirectory{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (d *CachedDirectory) SearchPlayers(ctx context.Context, sport string, terms []string) ([]models.Entity, error) {
	return d.cached(ctx, services.DirectoryCacheKey(sport, "players", terms), func() ([]models.Entity, error) {
		return d.repo.SearchPlayers(ctx, sport, terms)
	})
}

func (d *CachedDirectory) SearchTeams(ctx context.Context, sport string, terms []string) ([]models.Entity, error) {
	return d.cached(ctx, services.DirectoryCacheKey(sport, "teams", terms), func() ([]models.Entity, error) {
		return d.repo.SearchTeams(ctx, sport, terms)
	})
}

func (d *CachedDirectory) LatestSeasonStats(ctx context.Context, entity models.Entity) (*models.StatsRecord, error) {
	return d.repo.LatestSeasonStats(ctx, entity)
}

func (d *CachedDirectory) cached(ctx context.Context, key string, load func() ([]models.Entity, error)) ([]models.Entity, error) {
	var entities []models.Entity
	if err := d.cache.Get(ctx, key, &entities); err == nil {
		return entities, nil
	}

	entities, err := load()
	if err != nil {
		return nil, err
	}
	// empty results are not cached so a newly ingested player shows up at once
	if len(entities) > 0 {
		if err := d.cache.Set(ctx, key, entities, d.ttl); err != nil {
			d.logger.WithFields(logrus.Fields{
				"component": "store",
				"key":       key,
				"error":     err,
			}).Warn("Failed to cache directory search")
		}
	}
	return entities, nil
}
