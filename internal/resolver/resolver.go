package resolver

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// Directory is the read side of the persistent store the resolver needs.
type Directory interface {
	// SearchPlayers returns players of the sport whose name contains any term.
	SearchPlayers(ctx context.Context, sport string, terms []string) ([]models.Entity, error)
	// SearchTeams does the same over team name, display name and abbreviation.
	SearchTeams(ctx context.Context, sport string, terms []string) ([]models.Entity, error)
	// LatestSeasonStats returns the most recent season on record, or nil.
	LatestSeasonStats(ctx context.Context, entity models.Entity) (*models.StatsRecord, error)
}

type Resolver struct {
	directory  Directory
	thresholds Thresholds
	logger     *logrus.Logger
}

func NewResolver(directory Directory, thresholds Thresholds, logger *logrus.Logger) *Resolver {
	return &Resolver{
		directory:  directory,
		thresholds: thresholds,
		logger:     logger,
	}
}

func (r *Resolver) Thresholds() Thresholds {
	return r.thresholds
}

// Candidates returns every player matching name, ordered by confidence.
func (r *Resolver) Candidates(ctx context.Context, sport, name string) ([]models.EntityCandidate, error) {
	terms := searchTerms(name)
	if len(terms) == 0 {
		return nil, nil
	}
	pool, err := r.directory.SearchPlayers(ctx, sport, terms)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return matchNames(name, pool, playerNames), nil
}

// TeamCandidates returns every team matching name, ordered by confidence.
func (r *Resolver) TeamCandidates(ctx context.Context, sport, name string) ([]models.EntityCandidate, error) {
	terms := searchTerms(name)
	if len(terms) == 0 {
		return nil, nil
	}
	pool, err := r.directory.SearchTeams(ctx, sport, terms)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	return matchNames(name, pool, teamNames), nil
}

// ResolvePlayer picks one player for name or returns a *query.QueryError of
// kind EntityNotFound, AmbiguousEntity or DataSourceUnavailable.
func (r *Resolver) ResolvePlayer(ctx context.Context, cfg *sports.Config, name string, metrics []string) (models.EntityCandidate, error) {
	candidates, err := r.Candidates(ctx, string(cfg.Sport), name)
	if err != nil {
		return models.EntityCandidate{}, query.ErrDataSourceUnavailable("store", err)
	}
	if len(candidates) == 0 {
		return models.EntityCandidate{}, query.ErrEntityNotFound(name)
	}

	d := r.Disambiguate(ctx, cfg, candidates, metrics)
	log := r.logger.WithFields(logrus.Fields{
		"component":  "resolver",
		"name":       name,
		"resolved":   d.Best.Entity.Name,
		"entity_id":  d.Best.Entity.ID,
		"confidence": d.Confidence,
		"candidates": len(candidates),
	})

	if d.Ambiguous(r.thresholds) {
		log.Info("Entity name is ambiguous")
		return d.Best, query.ErrAmbiguousEntity(name, d.Best, d.Alternatives, d.Confidence)
	}

	log.Debug("Entity resolved")
	best := d.Best
	best.Confidence = d.Confidence
	return best, nil
}

// ResolveTeam picks the best team for name. Teams are not scored on activity.
func (r *Resolver) ResolveTeam(ctx context.Context, cfg *sports.Config, name string) (models.EntityCandidate, error) {
	candidates, err := r.TeamCandidates(ctx, string(cfg.Sport), name)
	if err != nil {
		return models.EntityCandidate{}, query.ErrDataSourceUnavailable("store", err)
	}
	if len(candidates) == 0 {
		return models.EntityCandidate{}, query.ErrEntityNotFound(name)
	}
	if len(candidates) > 1 && candidates[0].Confidence == candidates[1].Confidence &&
		candidates[0].Confidence < r.thresholds.Ambiguity {
		return candidates[0], query.ErrAmbiguousEntity(name, candidates[0], capAlternatives(candidates[1:], r.thresholds.MaxAlternatives), candidates[0].Confidence)
	}
	return candidates[0], nil
}

func capAlternatives(in []models.EntityCandidate, n int) []models.EntityCandidate {
	if len(in) > n {
		in = in[:n]
	}
	return append([]models.EntityCandidate(nil), in...)
}
