package store

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
)

type RepositoryTestSuite struct {
	suite.Suite
	db   *database.DB
	repo *Repository
	nfl  *sports.Config
	ctx  context.Context

	cowboys  models.Team
	steelers models.Team
}

func (s *RepositoryTestSuite) SetupSuite() {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := gormDB.DB()
	s.Require().NoError(err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)

	s.db = &database.DB{DB: gormDB}
	s.Require().NoError(s.db.AutoMigrate(models.Tables()...))

	registry := sports.NewRegistry(nil)
	s.nfl, _ = registry.Get("NFL")
	s.repo = NewRepository(s.db, registry, logrus.New())
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) SetupTest() {
	for _, table := range models.TableNames() {
		s.db.Exec("DELETE FROM " + table)
	}

	s.cowboys = models.Team{ExternalID: "dal", Sport: "NFL", Name: "Cowboys", DisplayName: "Dallas Cowboys", Abbreviation: "DAL"}
	s.steelers = models.Team{ExternalID: "pit", Sport: "NFL", Name: "Steelers", DisplayName: "Pittsburgh Steelers", Abbreviation: "PIT"}
	s.Require().NoError(s.repo.UpsertTeam(s.ctx, &s.cowboys))
	s.Require().NoError(s.repo.UpsertTeam(s.ctx, &s.steelers))
}

func (s *RepositoryTestSuite) addPlayer(name, position string, team *models.Team) models.Entity {
	p := models.Player{ExternalID: "x-" + name + position, Sport: "NFL", Name: name, Position: position}
	teamName := ""
	if team != nil {
		p.CurrentTeamID = &team.ID
		teamName = team.DisplayName
	}
	s.Require().NoError(s.repo.UpsertPlayer(s.ctx, &p))
	return p.AsEntity(teamName)
}

func (s *RepositoryTestSuite) addSeason(e models.Entity, season string, games int, values map[string]float64) {
	s.Require().NoError(s.repo.SaveSeasonStats(s.ctx, s.nfl, e, &models.StatsRecord{
		Season: season, GamesPlayed: games, Values: values, Source: "ingest",
	}))
}

func (s *RepositoryTestSuite) TestSearchPlayersAttachesTeam() {
	s.addPlayer("Micah Parsons", "LB", &s.cowboys)
	s.addPlayer("T.J. Watt", "OLB", &s.steelers)

	got, err := s.repo.SearchPlayers(s.ctx, "nfl", []string{"parsons"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Micah Parsons", got[0].Name)
	s.Equal("Dallas Cowboys", got[0].TeamName)
	s.Equal(models.EntityPlayer, got[0].Kind)

	got, err = s.repo.SearchPlayers(s.ctx, "NFL", []string{"watt", "parsons"})
	s.Require().NoError(err)
	s.Len(got, 2)

	got, err = s.repo.SearchPlayers(s.ctx, "NBA", []string{"watt"})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *RepositoryTestSuite) TestSearchTeams() {
	got, err := s.repo.SearchTeams(s.ctx, "NFL", []string{"dal"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Dallas Cowboys", got[0].Name)
	s.Equal("Cowboys", got[0].ShortName)

	got, err = s.repo.SearchTeams(s.ctx, "NFL", []string{"pittsburgh"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("PIT", got[0].Abbreviation)
}

func (s *RepositoryTestSuite) TestSeasonStatsMapsMetricsAndDerived() {
	e := s.addPlayer("Jalen Hurts", "QB", nil)
	s.addSeason(e, "2024", 17, map[string]float64{"passing_touchdowns": 23, "rushing_touchdowns": 15, "passing_yards": 3858})

	rec, err := s.repo.SeasonStats(s.ctx, s.nfl, e, "2024")
	s.Require().NoError(err)
	s.Require().NotNil(rec)
	s.Equal("2024", rec.Season)
	s.Equal(17, rec.GamesPlayed)
	s.Equal(3858.0, rec.Value("passing_yards"))
	s.Equal(38.0, rec.Value("total_touchdowns"))
	s.False(rec.Has("sacks"))

	missing, err := s.repo.SeasonStats(s.ctx, s.nfl, e, "2019")
	s.NoError(err)
	s.Nil(missing)
}

func (s *RepositoryTestSuite) TestSaveSeasonStatsUpsertsPresentColumns() {
	e := s.addPlayer("Micah Parsons", "LB", &s.cowboys)
	s.addSeason(e, "2024", 17, map[string]float64{"sacks": 14, "tackles": 64})
	s.addSeason(e, "2024", 0, map[string]float64{"sacks": 14.5})

	var count int64
	s.db.Model(&models.PlayerSeasonStats{}).Count(&count)
	s.Equal(int64(1), count)

	rec, err := s.repo.SeasonStats(s.ctx, s.nfl, e, "2024")
	s.Require().NoError(err)
	s.Equal(14.5, rec.Value("sacks"))
	s.Equal(64.0, rec.Value("tackles"))
	s.Equal(17, rec.GamesPlayed)
}

func (s *RepositoryTestSuite) TestLatestAndCareer() {
	e := s.addPlayer("Micah Parsons", "LB", &s.cowboys)
	s.addSeason(e, "2022", 17, map[string]float64{"sacks": 13})
	s.addSeason(e, "2023", 17, map[string]float64{"sacks": 14})

	latest, err := s.repo.LatestSeasonStats(s.ctx, e)
	s.Require().NoError(err)
	s.Equal("2023", latest.Season)

	career, err := s.repo.CareerStats(s.ctx, s.nfl, e)
	s.NoError(err)
	s.Nil(career)

	var line models.StatLine
	line.Set("sacks", 27)
	s.Require().NoError(s.db.Create(&models.CareerStats{PlayerID: e.ID, TotalGames: 34, SeasonsPlayed: 2, StatLine: line}).Error)

	career, err = s.repo.CareerStats(s.ctx, s.nfl, e)
	s.Require().NoError(err)
	s.Equal(sports.CareerSeason, career.Season)
	s.Equal(27.0, career.Value("sacks"))
	s.NotEmpty(career.Note)
}

func (s *RepositoryTestSuite) TestGameLogRoundTrip() {
	e := s.addPlayer("CeeDee Lamb", "WR", &s.cowboys)
	day := time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC)
	games := []models.GameRecord{
		{Week: 2, Date: day.AddDate(0, 0, 7), Opponent: "New Orleans Saints", IsHome: true, Result: "L", Stats: map[string]float64{"receiving_yards": 67}},
		{Week: 1, Date: day, Opponent: "Cleveland Browns", Result: "W", Stats: map[string]float64{"receiving_yards": 61}},
	}
	s.Require().NoError(s.repo.SaveGameLog(s.ctx, e, "2024", games))
	s.Require().NoError(s.repo.SaveGameLog(s.ctx, e, "2024", games[:1]))

	got, err := s.repo.GameLog(s.ctx, e, "2024")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(1, got[0].Week)
	s.Equal(61.0, got[0].Stats["receiving_yards"])
	s.True(got[1].IsHome)
}

func (s *RepositoryTestSuite) TestLeaderboardAndSummary() {
	parsons := s.addPlayer("Micah Parsons", "LB", &s.cowboys)
	watt := s.addPlayer("T.J. Watt", "OLB", &s.steelers)
	lb := s.addPlayer("Backup Linebacker", "LB", &s.steelers)
	s.addSeason(parsons, "2024", 17, map[string]float64{"sacks": 14})
	s.addSeason(watt, "2024", 17, map[string]float64{"sacks": 19})
	s.addSeason(lb, "2024", 10, map[string]float64{"sacks": 3})
	s.addSeason(lb, "2023", 10, map[string]float64{"sacks": 30})

	rows, err := s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024"},
		Metric:           "sacks",
		Limit:            2,
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("T.J. Watt", rows[0].Entity.Name)
	s.Equal("Pittsburgh Steelers", rows[0].Entity.TeamName)
	s.Equal(19.0, rows[0].Value)
	s.Equal("Micah Parsons", rows[1].Entity.Name)

	rows, err = s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024", Position: "lb"},
		Metric:           "sacks",
	})
	s.Require().NoError(err)
	s.Len(rows, 2)

	rows, err = s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024"},
		Metric:           "sacks",
		ThresholdOp:      query.ThresholdGTE,
		ThresholdValue:   14,
	})
	s.Require().NoError(err)
	s.Len(rows, 2)

	rows, err = s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024", TeamID: &s.steelers.ID},
		Metric:           "sacks",
		Ascending:        true,
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("Backup Linebacker", rows[0].Entity.Name)

	sum, err := s.repo.MetricSummary(s.ctx, s.nfl, PopulationFilter{Season: "2024"}, "sacks")
	s.Require().NoError(err)
	s.Equal(int64(3), sum.Count)
	s.Equal(36.0, sum.Total)
	s.InDelta(12.0, sum.Average, 1e-9)

	_, err = s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{PopulationFilter: PopulationFilter{Season: "2024"}, Metric: "points"})
	s.Error(err)
}

func (s *RepositoryTestSuite) TestLeaderboardDerivedMetric() {
	hurts := s.addPlayer("Jalen Hurts", "QB", nil)
	dak := s.addPlayer("Dak Prescott", "QB", &s.cowboys)
	s.addSeason(hurts, "2024", 17, map[string]float64{"passing_touchdowns": 23, "rushing_touchdowns": 15})
	s.addSeason(dak, "2024", 17, map[string]float64{"passing_touchdowns": 36, "rushing_touchdowns": 2})

	rows, err := s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024"},
		Metric:           "total_touchdowns",
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(38.0, rows[0].Value)
	s.Equal(38.0, rows[1].Value)
	// ties fall back to name order
	s.Equal("Dak Prescott", rows[0].Entity.Name)
}

func (s *RepositoryTestSuite) TestTeamSeasonStats() {
	lamb := s.addPlayer("CeeDee Lamb", "WR", &s.cowboys)
	dak := s.addPlayer("Dak Prescott", "QB", &s.cowboys)
	watt := s.addPlayer("T.J. Watt", "OLB", &s.steelers)
	s.addSeason(lamb, "2024", 17, map[string]float64{"receiving_yards": 1749})
	s.addSeason(dak, "2024", 17, map[string]float64{"passing_yards": 4516})
	s.addSeason(watt, "2024", 17, map[string]float64{"sacks": 19})

	// a row written without a team id still counts for the current team
	lamb.TeamID = nil
	s.addSeason(lamb, "2023", 17, map[string]float64{"receiving_yards": 1359})

	got, err := s.repo.TeamSeasonStats(s.ctx, s.nfl, s.cowboys.AsEntity(), "2024")
	s.Require().NoError(err)
	s.Len(got, 2)

	got, err = s.repo.TeamSeasonStats(s.ctx, s.nfl, s.cowboys.AsEntity(), "2023")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("CeeDee Lamb", got[0].EntityName)

	seasons, err := s.repo.Seasons(s.ctx, "NFL")
	s.Require().NoError(err)
	s.Equal([]string{"2024", "2023"}, seasons)
}

func (s *RepositoryTestSuite) TestSeedIsRepeatable() {
	for _, table := range models.TableNames() {
		s.db.Exec("DELETE FROM " + table)
	}
	now := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.Seed(s.ctx, now))
	s.Require().NoError(s.repo.Seed(s.ctx, now))

	var players, teams int64
	s.db.Model(&models.Player{}).Count(&players)
	s.db.Model(&models.Team{}).Count(&teams)
	s.Equal(int64(len(seedPlayers)), players)
	s.Equal(int64(len(seedTeams)), teams)

	rows, err := s.repo.Leaderboard(s.ctx, s.nfl, LeaderboardQuery{
		PopulationFilter: PopulationFilter{Season: "2024"},
		Metric:           "sacks",
		Limit:            1,
	})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("T.J. Watt", rows[0].Entity.Name)
}

func (s *RepositoryTestSuite) TestTagOpponents() {
	s.Require().NoError(s.db.Model(&s.cowboys).Updates(models.Team{Conference: "NFC", Division: "East"}).Error)
	s.Require().NoError(s.db.Model(&s.steelers).Updates(models.Team{Conference: "AFC", Division: "North"}).Error)
	giants := models.Team{ExternalID: "nyg", Sport: "NFL", Name: "Giants", DisplayName: "New York Giants", Abbreviation: "NYG", Conference: "NFC", Division: "East"}
	niners := models.Team{ExternalID: "sf", Sport: "NFL", Name: "49ers", DisplayName: "San Francisco 49ers", Abbreviation: "SF", Conference: "NFC", Division: "West"}
	// same division name, other conference
	bills := models.Team{ExternalID: "buf", Sport: "NFL", Name: "Bills", DisplayName: "Buffalo Bills", Abbreviation: "BUF", Conference: "AFC", Division: "East"}
	for _, t := range []*models.Team{&giants, &niners, &bills} {
		s.Require().NoError(s.repo.UpsertTeam(s.ctx, t))
	}

	parsons := s.addPlayer("Micah Parsons", "LB", &s.cowboys)
	games := []models.GameRecord{
		{Week: 1, OpponentAbbr: "nyg"},
		{Week: 2, OpponentAbbr: "SF"},
		{Week: 3, OpponentAbbr: "PIT"},
		{Week: 4, OpponentAbbr: "BUF"},
		{Week: 5, OpponentAbbr: "KC"},
	}

	got, err := s.repo.TagOpponents(s.ctx, parsons, games)
	s.Require().NoError(err)
	s.Require().Len(got, 5)
	s.True(got[0].IsDivision)
	s.True(got[0].IsConference)
	s.False(got[1].IsDivision)
	s.True(got[1].IsConference)
	for _, g := range got[2:] {
		s.False(g.IsDivision, "week %d", g.Week)
		s.False(g.IsConference, "week %d", g.Week)
	}
	// input is not modified
	s.False(games[0].IsDivision)

	free := s.addPlayer("Free Agent", "LB", nil)
	untouched, err := s.repo.TagOpponents(s.ctx, free, games)
	s.Require().NoError(err)
	s.Equal(games, untouched)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestCachedDirectoryServesRepeatSearches() {
	cache, err := services.NewLocalCache()
	s.Require().NoError(err)
	defer cache.Close()

	dir := NewCachedDirectory(s.repo, cache, time.Hour, logrus.New())
	parsons := s.addPlayer("Micah Parsons", "LB", &s.cowboys)

	first, err := dir.SearchPlayers(s.ctx, "NFL", []string{"parsons"})
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	// served from cache even after the row is gone
	s.Require().NoError(s.db.Exec("DELETE FROM players WHERE id = ?", parsons.ID).Error)
	second, err := dir.SearchPlayers(s.ctx, "nfl", []string{"PARSONS"})
	s.Require().NoError(err)
	s.Equal(first, second)

	none, err := dir.SearchPlayers(s.ctx, "NFL", []string{"nobody"})
	s.Require().NoError(err)
	s.Empty(none)
	var cached []models.Entity
	s.Error(cache.Get(s.ctx, services.DirectoryCacheKey("NFL", "players", []string{"nobody"}), &cached))
}
