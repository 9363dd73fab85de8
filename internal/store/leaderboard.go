package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

// PopulationFilter narrows the set of players a league query runs over.
type PopulationFilter struct {
	Season   string
	Position string
	TeamID   *uint
}

// LeaderboardQuery orders the filtered population by one metric.
type LeaderboardQuery struct {
	PopulationFilter
	Metric    string
	Ascending bool
	Limit     int // 0 means no limit

	// Threshold keeps only rows where value <op> ThresholdValue.
	ThresholdOp    string
	ThresholdValue float64
}

type LeaderRow struct {
	Entity      models.Entity `json:"entity"`
	Value       float64       `json:"value"`
	GamesPlayed int           `json:"games_played"`
}

// Summary is the league-wide context for a metric over a population.
type Summary struct {
	Average float64 `json:"average"`
	Total   float64 `json:"total"`
	Count   int64   `json:"count"`
}

type leaderScan struct {
	PlayerID    uint
	ExternalID  string
	Name        string
	Position    string
	TeamID      *uint
	TeamName    string
	TeamDisplay string
	GamesPlayed int
	Value       float64
}

func (r *Repository) population(ctx context.Context, cfg *sports.Config, f PopulationFilter, col metricColumn) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("player_season_stats AS s").
		Joins("JOIN players p ON p.id = s.player_id").
		Where("p.sport = ? AND s.season = ?", string(cfg.Sport), f.Season).
		Where(col.present)
	if f.Position != "" {
		q = q.Where("UPPER(p.position) = ?", strings.ToUpper(f.Position))
	}
	if f.TeamID != nil {
		q = q.Where("COALESCE(s.team_id, p.current_team_id) = ?", *f.TeamID)
	}
	return q
}

// Leaderboard returns players ordered by the metric, best first unless
// Ascending is set.
func (r *Repository) Leaderboard(ctx context.Context, cfg *sports.Config, lq LeaderboardQuery) ([]LeaderRow, error) {
	col, err := columnFor(cfg, lq.Metric, "s")
	if err != nil {
		return nil, err
	}

	q := r.population(ctx, cfg, lq.PopulationFilter, col).
		Joins("LEFT JOIN teams t ON t.id = COALESCE(s.team_id, p.current_team_id)").
		Select("p.id AS player_id, p.external_id, p.name, p.position, COALESCE(s.team_id, p.current_team_id) AS team_id, " +
			"t.name AS team_name, t.display_name AS team_display, s.games_played, " + col.expr + " AS value")

	switch lq.ThresholdOp {
	case query.ThresholdGT:
		q = q.Where(col.expr+" > ?", lq.ThresholdValue)
	case query.ThresholdGTE:
		q = q.Where(col.expr+" >= ?", lq.ThresholdValue)
	case query.ThresholdLT:
		q = q.Where(col.expr+" < ?", lq.ThresholdValue)
	case "":
	default:
		return nil, fmt.Errorf("unknown threshold operator %q", lq.ThresholdOp)
	}

	order := "value DESC"
	if lq.Ascending {
		order = "value ASC"
	}
	q = q.Order(order).Order("p.name")
	if lq.Limit > 0 {
		q = q.Limit(lq.Limit)
	}

	var rows []leaderScan
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s leaderboard: %w", lq.Metric, err)
	}

	out := make([]LeaderRow, 0, len(rows))
	for _, row := range rows {
		team := row.TeamDisplay
		if team == "" {
			team = row.TeamName
		}
		out = append(out, LeaderRow{
			Entity: models.Entity{
				ID:         row.PlayerID,
				ExternalID: row.ExternalID,
				Kind:       models.EntityPlayer,
				Sport:      string(cfg.Sport),
				Name:       row.Name,
				Position:   row.Position,
				TeamID:     row.TeamID,
				TeamName:   team,
			},
			Value:       row.Value,
			GamesPlayed: row.GamesPlayed,
		})
	}
	return out, nil
}

// MetricSummary computes average, sum and count of the metric over the
// same population a leaderboard would rank.
func (r *Repository) MetricSummary(ctx context.Context, cfg *sports.Config, f PopulationFilter, metric string) (Summary, error) {
	col, err := columnFor(cfg, metric, "s")
	if err != nil {
		return Summary{}, err
	}

	var out struct {
		Average *float64
		Total   *float64
		Count   int64
	}
	err = r.population(ctx, cfg, f, col).
		Select("AVG(" + col.expr + ") AS average, SUM(" + col.expr + ") AS total, COUNT(*) AS count").
		Scan(&out).Error
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarise %s: %w", metric, err)
	}

	s := Summary{Count: out.Count}
	if out.Average != nil {
		s.Average = *out.Average
	}
	if out.Total != nil {
		s.Total = *out.Total
	}
	return s, nil
}
