package resolver

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// Thresholds are the hand-tuned numbers of the disambiguation model. They are
// configurable so they can be calibrated against real outcomes.
type Thresholds struct {
	Ambiguity       float64 // below this, with alternatives, ask the caller
	GapHigh         float64
	GapMedium       float64
	BoostHigh       float64
	BoostMedium     float64
	PenaltyLow      float64
	CapHigh         float64
	CapMedium       float64
	Floor           float64
	PositionMatch   float64
	ActivityPerGame float64
	ActivityCap     float64
	StatsDivisor    float64
	StatsCap        float64
	MaxAlternatives int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Ambiguity:       0.7,
		GapHigh:         50,
		GapMedium:       20,
		BoostHigh:       0.2,
		BoostMedium:     0.1,
		PenaltyLow:      0.1,
		CapHigh:         0.95,
		CapMedium:       0.85,
		Floor:           0.5,
		PositionMatch:   40,
		ActivityPerGame: 2,
		ActivityCap:     25,
		StatsDivisor:    10,
		StatsCap:        20,
		MaxAlternatives: 3,
	}
}

// Disambiguation is the outcome of scoring several candidates for one name.
type Disambiguation struct {
	Best         models.EntityCandidate   `json:"best"`
	Confidence   float64                  `json:"confidence"`
	Alternatives []models.EntityCandidate `json:"alternatives,omitempty"`
}

// Ambiguous reports whether the caller should ask a follow-up question
// instead of picking Best.
func (d Disambiguation) Ambiguous(t Thresholds) bool {
	return d.Confidence < t.Ambiguity && len(d.Alternatives) > 0
}

// Disambiguate scores each candidate by match confidence, position relevance,
// recent activity and statistical prominence, then derives a final confidence
// from the gap between the top two scores.
func (r *Resolver) Disambiguate(ctx context.Context, cfg *sports.Config, candidates []models.EntityCandidate, metrics []string) Disambiguation {
	if len(candidates) == 0 {
		return Disambiguation{}
	}
	if len(candidates) == 1 {
		return Disambiguation{Best: candidates[0], Confidence: candidates[0].Confidence}
	}

	positions := cfg.PositionsForMetrics(metrics)
	scored := make([]models.EntityCandidate, len(candidates))
	for i, c := range candidates {
		latest, err := r.directory.LatestSeasonStats(ctx, c.Entity)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"component": "resolver",
				"entity_id": c.Entity.ID,
				"error":     err,
			}).Warn("Failed to load stats for disambiguation, scoring without them")
			latest = nil
		}
		c.Score = r.score(cfg, c, positions, latest)
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Entity.ID < scored[j].Entity.ID
	})

	best := scored[0]
	gap := best.Score - scored[1].Score
	confidence := r.finalConfidence(best.Confidence, gap)

	alts := scored[1:]
	if len(alts) > r.thresholds.MaxAlternatives {
		alts = alts[:r.thresholds.MaxAlternatives]
	}

	return Disambiguation{
		Best:         best,
		Confidence:   confidence,
		Alternatives: append([]models.EntityCandidate(nil), alts...),
	}
}

func (r *Resolver) finalConfidence(base, gap float64) float64 {
	t := r.thresholds
	switch {
	case gap > t.GapHigh:
		return math.Min(t.CapHigh, base+t.BoostHigh)
	case gap > t.GapMedium:
		return math.Min(t.CapMedium, base+t.BoostMedium)
	default:
		return math.Max(t.Floor, base-t.PenaltyLow)
	}
}

func (r *Resolver) score(cfg *sports.Config, c models.EntityCandidate, positions map[string]bool, latest *models.StatsRecord) float64 {
	total := c.Confidence * 100
	total += r.positionBonus(cfg, c.Entity.Position, positions)
	if latest != nil {
		total += math.Min(float64(latest.GamesPlayed)*r.thresholds.ActivityPerGame, r.thresholds.ActivityCap)
		total += r.prominenceBonus(cfg, latest)
	}
	return total
}

func (r *Resolver) positionBonus(cfg *sports.Config, position string, positions map[string]bool) float64 {
	if position == "" {
		return 0
	}
	if positions[position] {
		return r.thresholds.PositionMatch
	}
	return cfg.PositionPriority(position)
}

// prominenceBonus weights recorded metrics only; unrecorded ones contribute nothing.
func (r *Resolver) prominenceBonus(cfg *sports.Config, latest *models.StatsRecord) float64 {
	var sum float64
	for metric, weight := range cfg.ProminenceWeights() {
		if latest.Has(metric) {
			sum += latest.Value(metric) * weight
		}
	}
	if sum <= 0 {
		return 0
	}
	return math.Min(sum/r.thresholds.StatsDivisor, r.thresholds.StatsCap)
}
