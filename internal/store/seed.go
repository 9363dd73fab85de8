package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
)

type seedPlayer struct {
	externalID string
	name       string
	position   string
	team       string
	// stats per seasons-ago offset (0 is the current season)
	seasons map[int]seedSeason
}

type seedSeason struct {
	games  int
	values map[string]float64
}

var seedTeams = []models.Team{
	{ExternalID: "nfl-dal", Sport: "NFL", Name: "Cowboys", DisplayName: "Dallas Cowboys", Abbreviation: "DAL", Conference: "NFC", Division: "NFC East"},
	{ExternalID: "nfl-phi", Sport: "NFL", Name: "Eagles", DisplayName: "Philadelphia Eagles", Abbreviation: "PHI", Conference: "NFC", Division: "NFC East"},
	{ExternalID: "nfl-pit", Sport: "NFL", Name: "Steelers", DisplayName: "Pittsburgh Steelers", Abbreviation: "PIT", Conference: "AFC", Division: "AFC North"},
	{ExternalID: "nfl-bal", Sport: "NFL", Name: "Ravens", DisplayName: "Baltimore Ravens", Abbreviation: "BAL", Conference: "AFC", Division: "AFC North"},
	{ExternalID: "nfl-car", Sport: "NFL", Name: "Panthers", DisplayName: "Carolina Panthers", Abbreviation: "CAR", Conference: "NFC", Division: "NFC South"},
}

var seedPlayers = []seedPlayer{
	{"nfl-4361259", "Micah Parsons", "LB", "DAL", map[int]seedSeason{
		0: {17, map[string]float64{"sacks": 14, "tackles": 64}},
		1: {17, map[string]float64{"sacks": 13.5, "tackles": 65}},
		2: {17, map[string]float64{"sacks": 13, "tackles": 84}},
	}},
	{"nfl-3045282", "T.J. Watt", "OLB", "PIT", map[int]seedSeason{
		0: {17, map[string]float64{"sacks": 19, "tackles": 68, "interceptions": 1}},
		1: {10, map[string]float64{"sacks": 5.5, "tackles": 37}},
	}},
	{"nfl-3916387", "Lamar Jackson", "QB", "BAL", map[int]seedSeason{
		0: {16, map[string]float64{"passing_yards": 3678, "passing_touchdowns": 24, "rushing_yards": 821, "rushing_touchdowns": 5}},
		1: {12, map[string]float64{"passing_yards": 2242, "passing_touchdowns": 17, "rushing_yards": 764, "rushing_touchdowns": 3}},
	}},
	{"nfl-4429013", "Lamar Jackson", "CB", "CAR", map[int]seedSeason{
		0: {5, map[string]float64{"tackles": 9}},
	}},
	{"nfl-3915416", "Jalen Hurts", "QB", "PHI", map[int]seedSeason{
		0: {17, map[string]float64{"passing_yards": 3858, "passing_touchdowns": 23, "rushing_yards": 605, "rushing_touchdowns": 15}},
	}},
	{"nfl-4241478", "CeeDee Lamb", "WR", "DAL", map[int]seedSeason{
		0: {17, map[string]float64{"receiving_yards": 1749, "receiving_touchdowns": 12, "receptions": 135}},
		1: {17, map[string]float64{"receiving_yards": 1359, "receiving_touchdowns": 9, "receptions": 107}},
	}},
	{"nfl-3117251", "Dak Prescott", "QB", "DAL", map[int]seedSeason{
		0: {17, map[string]float64{"passing_yards": 4516, "passing_touchdowns": 36, "rushing_yards": 242, "rushing_touchdowns": 2}},
	}},
}

// Seed loads a small NFL data set relative to the current season so the
// service has something to answer against in development.
func (r *Repository) Seed(ctx context.Context, now time.Time) error {
	cfg, err := r.config(string(sports.NFL))
	if err != nil {
		return err
	}
	current := cfg.CurrentSeasonYear(now)

	teamIDs := make(map[string]uint, len(seedTeams))
	for i := range seedTeams {
		team := seedTeams[i]
		if err := r.UpsertTeam(ctx, &team); err != nil {
			return fmt.Errorf("failed to seed team %s: %w", team.Name, err)
		}
		teamIDs[team.Abbreviation] = team.ID
	}

	for _, sp := range seedPlayers {
		teamID := teamIDs[sp.team]
		player := models.Player{
			ExternalID:    sp.externalID,
			Sport:         string(sports.NFL),
			Name:          sp.name,
			Position:      sp.position,
			CurrentTeamID: &teamID,
		}
		if err := r.UpsertPlayer(ctx, &player); err != nil {
			return fmt.Errorf("failed to seed player %s: %w", sp.name, err)
		}

		for offset, season := range sp.seasons {
			row := models.PlayerSeasonStats{
				PlayerID:    player.ID,
				Season:      cfg.Season(current - offset),
				TeamID:      &teamID,
				GamesPlayed: season.games,
				StatLine:    lineFromValues(cfg, season.values),
				Source:      "ingest",
			}
			err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "player_id"}, {Name: "season"}},
				UpdateAll: true,
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("failed to seed %s season for %s: %w", row.Season, sp.name, err)
			}
		}
	}

	r.logger.WithFields(logrus.Fields{
		"component": "store",
		"teams":     len(seedTeams),
		"players":   len(seedPlayers),
	}).Info("Seed data loaded")
	return nil
}
