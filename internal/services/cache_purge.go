package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// CachePurgeScheduler invalidates cached stats on a schedule. Entries also
// expire by TTL; the purges cover the cases a TTL cannot: a new season
// starting, and in-season game logs that change daily.
type CachePurgeScheduler struct {
	cache     Cache
	sports    []*sports.Config
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	mu        sync.Mutex
	isRunning bool
}

func NewCachePurgeScheduler(cache Cache, enabled []*sports.Config, schedule string, logger *logrus.Logger) *CachePurgeScheduler {
	return &CachePurgeScheduler{
		cache:    cache,
		sports:   enabled,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *CachePurgeScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cache purge scheduler is already running")
	}

	for _, cfg := range s.sports {
		sport := string(cfg.Sport)
		// shortly after midnight on the first day of the boundary month
		spec := fmt.Sprintf("5 0 1 %d *", int(cfg.BoundaryMonth))
		if _, err := s.cron.AddFunc(spec, func() { s.PurgeSport(context.Background(), sport) }); err != nil {
			return fmt.Errorf("failed to schedule season purge for %s: %w", sport, err)
		}
	}

	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, func() { s.PurgeGameLogs(context.Background()) }); err != nil {
			return fmt.Errorf("failed to schedule game log purge: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithFields(logrus.Fields{
		"component": "cache_purge",
		"sports":    len(s.sports),
		"schedule":  s.schedule,
	}).Info("Cache purge scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *CachePurgeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Cache purge scheduler stopped")
}

// PurgeSport drops every cached entry for a sport. Run when the current
// season rolls over.
func (s *CachePurgeScheduler) PurgeSport(ctx context.Context, sport string) int {
	return s.purge(ctx, SportCachePrefix(sport), "season_boundary")
}

// PurgeGameLogs drops cached game logs for every enabled sport.
func (s *CachePurgeScheduler) PurgeGameLogs(ctx context.Context) int {
	var total int
	for _, cfg := range s.sports {
		total += s.purge(ctx, GameLogCachePrefix(string(cfg.Sport)), "gamelog_sweep")
	}
	return total
}

func (s *CachePurgeScheduler) purge(ctx context.Context, prefix, reason string) int {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	n, err := s.cache.DeletePrefix(ctx, prefix)
	log := s.logger.WithFields(logrus.Fields{
		"component": "cache_purge",
		"prefix":    prefix,
		"reason":    reason,
		"deleted":   n,
	})
	if err != nil {
		log.WithError(err).Error("Cache purge failed")
	} else {
		log.Info("Cache purged")
	}
	cachePurgedTotal.WithLabelValues(reason).Add(float64(n))
	return n
}
