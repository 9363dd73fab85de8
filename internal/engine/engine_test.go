package engine

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitts-dev/sports-query-engine/internal/fetcher"
	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/resolver"
	"github.com/stitts-dev/sports-query-engine/internal/services"
	"github.com/stitts-dev/sports-query-engine/internal/sports"
	"github.com/stitts-dev/sports-query-engine/internal/store"
	"github.com/stitts-dev/sports-query-engine/pkg/database"
)

// EngineTestSuite runs queries end to end against an in-memory store.
// The clock is pinned inside the 2024 NFL season.
type EngineTestSuite struct {
	suite.Suite
	db       *database.DB
	repo     *store.Repository
	registry *sports.Registry
	nfl      *sports.Config
	engine   *Engine
	ctx      context.Context

	teams   map[string]models.Team
	players map[string]models.Entity
}

func (s *EngineTestSuite) SetupSuite() {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := gormDB.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.db = &database.DB{DB: gormDB}
	s.Require().NoError(s.db.AutoMigrate(models.Tables()...))

	s.registry = sports.NewRegistry(nil)
	s.nfl, _ = s.registry.Get("NFL")
	s.repo = store.NewRepository(s.db, s.registry, quietLogger())
	s.ctx = context.Background()
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func (s *EngineTestSuite) SetupTest() {
	for _, table := range models.TableNames() {
		s.db.Exec("DELETE FROM " + table)
	}
	s.loadFixture()

	cache, err := services.NewLocalCache()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = cache.Close() })

	now := time.Date(2024, time.November, 1, 12, 0, 0, 0, time.UTC)
	logger := quietLogger()
	s.engine = NewEngine(
		s.registry,
		query.NewClassifier(s.registry, logger),
		resolver.NewResolver(s.repo, resolver.DefaultThresholds(), logger),
		fetcher.NewFetcher(cache, s.repo, nil, fetcher.Options{Now: func() time.Time { return now }}, logger),
		s.repo,
		Options{},
		logger,
	)
}

func (s *EngineTestSuite) addTeam(abbr, name, display string) {
	t := models.Team{ExternalID: "nfl-" + abbr, Sport: "NFL", Name: name, DisplayName: display, Abbreviation: abbr}
	s.Require().NoError(s.repo.UpsertTeam(s.ctx, &t))
	s.teams[abbr] = t
}

func (s *EngineTestSuite) addPlayer(key, name, position, team string) models.Entity {
	t := s.teams[team]
	p := models.Player{ExternalID: "nfl-" + key, Sport: "NFL", Name: name, Position: position, CurrentTeamID: &t.ID}
	s.Require().NoError(s.repo.UpsertPlayer(s.ctx, &p))
	e := p.AsEntity(t.DisplayName)
	s.players[key] = e
	return e
}

func (s *EngineTestSuite) addSeason(e models.Entity, season string, games int, values map[string]float64) {
	s.Require().NoError(s.repo.SaveSeasonStats(s.ctx, s.nfl, e, &models.StatsRecord{
		Season: season, GamesPlayed: games, Values: values, Source: "ingest",
	}))
}

func (s *EngineTestSuite) loadFixture() {
	s.teams = make(map[string]models.Team)
	s.players = make(map[string]models.Entity)

	s.addTeam("DAL", "Cowboys", "Dallas Cowboys")
	s.addTeam("PIT", "Steelers", "Pittsburgh Steelers")
	s.addTeam("BAL", "Ravens", "Baltimore Ravens")
	s.addTeam("CAR", "Panthers", "Carolina Panthers")
	s.addTeam("PHI", "Eagles", "Philadelphia Eagles")

	parsons := s.addPlayer("parsons", "Micah Parsons", "LB", "DAL")
	s.addSeason(parsons, "2022", 17, map[string]float64{"sacks": 8, "tackles": 60})
	s.addSeason(parsons, "2023", 17, map[string]float64{"sacks": 12, "tackles": 62})
	s.addSeason(parsons, "2024", 17, map[string]float64{"sacks": 14, "tackles": 64})

	watt := s.addPlayer("watt", "T.J. Watt", "OLB", "PIT")
	s.addSeason(watt, "2024", 17, map[string]float64{"sacks": 19, "tackles": 68})

	qb := s.addPlayer("lamar-qb", "Lamar Jackson", "QB", "BAL")
	s.addSeason(qb, "2024", 10, map[string]float64{"passing_yards": 2000, "passing_touchdowns": 10})

	cb := s.addPlayer("lamar-cb", "Lamar Jackson", "CB", "CAR")
	s.addSeason(cb, "2024", 12, map[string]float64{"interceptions": 2})

	dak := s.addPlayer("prescott", "Dak Prescott", "QB", "DAL")
	s.addSeason(dak, "2024", 17, map[string]float64{"passing_yards": 4516, "passing_touchdowns": 36, "rushing_yards": 242})

	lamb := s.addPlayer("lamb", "CeeDee Lamb", "WR", "DAL")
	s.addSeason(lamb, "2024", 17, map[string]float64{"receiving_yards": 1749, "receiving_touchdowns": 12, "receptions": 135})

	hurts := s.addPlayer("hurts", "Jalen Hurts", "QB", "PHI")
	s.addSeason(hurts, "2024", 17, map[string]float64{"passing_yards": 3858, "passing_touchdowns": 23, "rushing_yards": 605})

	// on a roster but never recorded a stat
	s.addPlayer("rookie", "Shedeur Sanders", "QB", "CAR")

	week := func(n int) time.Time { return time.Date(2024, time.September, 1, 20, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(n-1)) }
	s.Require().NoError(s.repo.SaveGameLog(s.ctx, parsons, "2024", []models.GameRecord{
		{Week: 1, Date: week(1), Opponent: "Cleveland Browns", OpponentAbbr: "CLE", Result: "W", Stats: map[string]float64{"sacks": 1, "tackles": 4}},
		{Week: 2, Date: week(2), Opponent: "New Orleans Saints", OpponentAbbr: "NO", IsHome: true, Result: "L", Stats: map[string]float64{"sacks": 0.5, "tackles": 6}},
		{Week: 3, Date: week(3), Opponent: "Baltimore Ravens", OpponentAbbr: "BAL", IsHome: true, Result: "L", Stats: map[string]float64{"sacks": 2, "tackles": 3}},
		{Week: 4, Date: week(4), Opponent: "New York Giants", OpponentAbbr: "NYG", IsDivision: true, IsConference: true, Result: "W", Stats: map[string]float64{"sacks": 3, "tackles": 5}},
	}))
}

func (s *EngineTestSuite) execute(desc query.QueryDescription) *ExecutionResult {
	if desc.Sport == "" {
		desc.Sport = "NFL"
	}
	res, err := s.engine.Execute(WithRequestID(s.ctx, "test-request"), desc)
	s.Require().NoError(err)
	s.Require().NotNil(res)
	s.Equal("test-request", res.RequestID)
	return res
}

func (s *EngineTestSuite) TestEveryQueryTypeHasHandler() {
	for _, t := range query.AllQueryTypes {
		s.True(s.engine.Handles(t), "no handler for %s", t)
	}
}

func (s *EngineTestSuite) TestSingleEntityStat() {
	res := s.execute(query.QueryDescription{
		Question:    "How many sacks does Micah Parsons have?",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.SingleEntityStat, res.Plan.QueryType)
	s.Require().Len(res.Entities, 1)
	s.Equal(1.0, res.Entities[0].Confidence)
	s.Require().Len(res.Stats, 1)
	s.Equal("2024", res.Stats[0].Season)
	s.Equal(14.0, res.Stats[0].Values["sacks"])
	s.NotContains(res.Stats[0].Values, "tackles")
	s.Empty(res.Errors)
}

func (s *EngineTestSuite) TestSingleEntityFallsBackToEarlierSeason() {
	res := s.execute(query.QueryDescription{
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
		Season:      "2025",
	})

	s.Require().Len(res.Stats, 1)
	s.Equal("2024", res.Stats[0].Season)
	s.Require().NotEmpty(res.Notes)
	s.Contains(res.Notes[0], "No stats for 2025")
}

func (s *EngineTestSuite) TestPlayerComparisonPicksWinner() {
	res := s.execute(query.QueryDescription{
		Question:    "Who has more sacks, Micah Parsons or T.J. Watt?",
		PlayerNames: []string{"Micah Parsons", "T.J. Watt"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.PlayerComparison, res.Plan.QueryType)
	s.Require().NotNil(res.Comparison)
	s.Equal("pairwise", res.Comparison.Kind)
	s.Equal("T.J. Watt", res.Comparison.Winner)
	s.Equal("T.J. Watt", res.Comparison.Metrics[0].Winner)
	s.Equal(19.0, res.Comparison.Metrics[0].Values["T.J. Watt"])
}

func (s *EngineTestSuite) TestBatchKeepsPartialResults() {
	res := s.execute(query.QueryDescription{
		Question:    "Compare sacks for Micah Parsons, T.J. Watt and Nobody Real",
		PlayerNames: []string{"Micah Parsons", "T.J. Watt", "Nobody Real"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.MultiPlayerComparison, res.Plan.QueryType)
	s.Require().Contains(res.Errors, "Nobody Real")
	s.Equal(query.KindEntityNotFound, res.Errors["Nobody Real"].Kind)

	s.Require().NotNil(res.Comparison)
	s.Require().Len(res.Comparison.Standings, 2)
	s.Equal("T.J. Watt", res.Comparison.Standings[0].Label)
	s.Equal(2, res.Comparison.Standings[0].Points)
	s.Contains(res.Notes, "Some requested items could not be answered: Nobody Real")
}

func (s *EngineTestSuite) TestAmbiguousNameAsksForClarification() {
	res := s.execute(query.QueryDescription{
		PlayerNames: []string{"Lamarr Jackson"},
	})

	s.Require().NotNil(res.Ambiguity)
	s.Equal(query.KindAmbiguousEntity, res.Ambiguity.Kind)
	s.Less(res.Ambiguity.Confidence, 0.7)
	s.Require().NotNil(res.Ambiguity.BestGuess)
	s.Equal("QB", res.Ambiguity.BestGuess.Entity.Position)
	s.Require().Len(res.Ambiguity.Alternatives, 1)
	s.Equal("CB", res.Ambiguity.Alternatives[0].Entity.Position)
	s.Empty(res.Stats)
}

func (s *EngineTestSuite) TestUnknownPlayerFailsRequest() {
	_, err := s.engine.Execute(s.ctx, query.QueryDescription{Sport: "NFL", PlayerNames: []string{"Nobody Real"}})
	s.True(query.IsKind(err, query.KindEntityNotFound))
}

func (s *EngineTestSuite) TestNoStatsReportsSeasonsTried() {
	res := s.execute(query.QueryDescription{PlayerNames: []string{"Shedeur Sanders"}})

	s.Require().Contains(res.Errors, "Shedeur Sanders")
	qe := res.Errors["Shedeur Sanders"]
	s.Equal(query.KindNoStatsAvailable, qe.Kind)
	s.Equal([]string{"2024", "2023", "2022", "2021"}, qe.SeasonsAttempted)
}

func (s *EngineTestSuite) TestConfigurationErrorsAreFatal() {
	_, err := s.engine.Execute(s.ctx, query.QueryDescription{
		Sport:       "NFL",
		PlayerNames: []string{"Micah Parsons", "Nobody Real"},
		Metrics:     []string{"sacks", "goals_against_average"},
	})
	s.True(query.IsKind(err, query.KindUnsupportedMetric))

	_, err = s.engine.Execute(s.ctx, query.QueryDescription{Sport: "CRICKET", PlayerNames: []string{"Micah Parsons"}})
	s.True(query.IsKind(err, query.KindUnsupportedSport))
}

func (s *EngineTestSuite) TestMultiSeasonTrend() {
	res := s.execute(query.QueryDescription{
		Question:         "How have Micah Parsons' sacks changed from 2022 to 2024?",
		PlayerNames:      []string{"Micah Parsons"},
		Metrics:          []string{"sacks"},
		SeasonYears:      []int{2024, 2022, 2023},
		ComparisonTarget: "season",
	})

	s.Equal(query.MultiSeasonComparison, res.Plan.QueryType)
	s.Require().NotNil(res.Comparison)
	s.Equal([]string{"2022", "2023", "2024"}, res.Comparison.Subjects)
	s.Require().Len(res.Comparison.Trend, 2)
	s.Equal(trendImproved, res.Comparison.Trend[0].Direction)
	s.Equal(4.0, res.Comparison.Trend[0].Delta)
	s.Equal(trendImproved, res.Comparison.Trend[1].Direction)
	s.Equal("2024", res.Comparison.Standings[0].Label)
}

func (s *EngineTestSuite) TestSeasonComparisonMissingSeason() {
	res := s.execute(query.QueryDescription{
		PlayerNames:      []string{"T.J. Watt"},
		Metrics:          []string{"sacks"},
		SeasonYears:      []int{2023, 2024},
		ComparisonTarget: "season",
	})

	s.Equal(query.SeasonComparison, res.Plan.QueryType)
	s.Require().Contains(res.Errors, "2023")
	s.Nil(res.Comparison)
	s.Contains(res.Notes, "Not enough seasons with stats to make a comparison")
}

func (s *EngineTestSuite) TestLeagueLeaders() {
	res := s.execute(query.QueryDescription{
		Question: "Who leads the league in sacks?",
		Metrics:  []string{"sacks"},
	})

	s.Equal(query.LeagueLeaders, res.Plan.QueryType)
	s.Require().NotNil(res.Leaderboard)
	board := res.Leaderboard
	s.Equal("2024", board.Season)
	s.Require().Len(board.Rows, 2)
	s.Equal("T.J. Watt", board.Rows[0].Entity.Name)
	s.Equal(1, board.Rows[0].Rank)
	s.Equal(16.5, board.LeagueAverage)
	s.EqualValues(2, board.Population)
}

func (s *EngineTestSuite) TestPlayerRanking() {
	res := s.execute(query.QueryDescription{
		Question:    "Where does Micah Parsons rank in sacks?",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.PlayerRanking, res.Plan.QueryType)
	s.Require().NotNil(res.Ranking)
	s.Equal(2, res.Ranking.Rank)
	s.Equal(2, res.Ranking.Population)
	s.Equal(14.0, res.Ranking.Value)
}

func (s *EngineTestSuite) TestThresholdQuery() {
	res := s.execute(query.QueryDescription{
		Question: "Which players have more than 15 sacks?",
		Metrics:  []string{"sacks"},
	})

	s.Equal(query.ThresholdQuery, res.Plan.QueryType)
	s.Require().NotNil(res.Leaderboard)
	s.Equal(query.ThresholdGT, res.Leaderboard.ThresholdOp)
	s.Require().Len(res.Leaderboard.Rows, 1)
	s.Equal("T.J. Watt", res.Leaderboard.Rows[0].Entity.Name)
}

func (s *EngineTestSuite) TestAggregateStat() {
	res := s.execute(query.QueryDescription{
		Question: "What is the league average for sacks?",
		Metrics:  []string{"sacks"},
	})

	s.Equal(query.AggregateStat, res.Plan.QueryType)
	s.Require().NotNil(res.Leaderboard)
	s.Equal(33.0, res.Leaderboard.LeagueTotal)
	s.Require().NotEmpty(res.Notes)
	s.Contains(res.Notes[0], "League total Sacks in 2024")
}

// addLeBron stores a per-game NBA line for the current 2024-25 season.
func (s *EngineTestSuite) addLeBron() {
	nba, ok := s.registry.Get("NBA")
	s.Require().True(ok)

	team := models.Team{ExternalID: "nba-lal", Sport: "NBA", Name: "Lakers", DisplayName: "Los Angeles Lakers", Abbreviation: "LAL"}
	s.Require().NoError(s.repo.UpsertTeam(s.ctx, &team))
	p := models.Player{ExternalID: "nba-lebron", Sport: "NBA", Name: "LeBron James", Position: "SF", CurrentTeamID: &team.ID}
	s.Require().NoError(s.repo.UpsertPlayer(s.ctx, &p))
	s.Require().NoError(s.repo.SaveSeasonStats(s.ctx, nba, p.AsEntity(team.DisplayName), &models.StatsRecord{
		Season: "2024-25", GamesPlayed: 70, Values: map[string]float64{"points": 25}, Source: "ingest",
	}))
}

func (s *EngineTestSuite) TestSeasonTotalForSinglePlayer() {
	s.addLeBron()

	res := s.execute(query.QueryDescription{
		Question:    "How many points did LeBron James score for the season?",
		Sport:       "NBA",
		PlayerNames: []string{"LeBron James"},
		Metrics:     []string{"points"},
	})

	s.Equal(query.SingleEntityStat, res.Plan.QueryType)
	s.Require().Len(res.Calculations, 1)
	calc := res.Calculations[0]
	s.Equal("LeBron James", calc.Entity)
	s.Equal(25.0, calc.PerGame)
	s.Equal(70, calc.GamesPlayed)
	s.Equal(1750.0, calc.Total)
}

func (s *EngineTestSuite) TestAggregateStatForNamedPlayer() {
	s.addLeBron()

	for _, question := range []string{
		"How many total points did LeBron James score this season?",
		"What is LeBron James's season total in points?",
	} {
		res := s.execute(query.QueryDescription{
			Question:    question,
			Sport:       "NBA",
			PlayerNames: []string{"LeBron James"},
			Metrics:     []string{"points"},
		})

		s.Equal(query.AggregateStat, res.Plan.QueryType, question)
		s.Require().Len(res.Entities, 1, question)
		s.Equal("LeBron James", res.Entities[0].Entity.Name)
		s.Require().Len(res.Stats, 1, question)
		s.Equal("2024-25", res.Stats[0].Season)
		s.Require().Len(res.Calculations, 1, question)
		s.Equal(1750.0, res.Calculations[0].Total)

		s.Require().NotNil(res.Leaderboard, question)
		s.Equal("2024-25", res.Leaderboard.Season)
		s.Equal(int64(1), res.Leaderboard.Population)
		s.Empty(res.Errors, question)
	}
}

func (s *EngineTestSuite) TestAggregateStatUnknownPlayerKeepsLeagueContext() {
	res := s.execute(query.QueryDescription{
		Question:    "What is the total sacks for Nobody Real?",
		PlayerNames: []string{"Nobody Real"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.AggregateStat, res.Plan.QueryType)
	s.Require().Contains(res.Errors, "Nobody Real")
	s.Equal(query.KindEntityNotFound, res.Errors["Nobody Real"].Kind)
	s.Require().NotNil(res.Leaderboard)
	s.Equal(33.0, res.Leaderboard.LeagueTotal)
}

func (s *EngineTestSuite) TestExactNameSharedByTwoPlayersResolvesWithoutFollowUp() {
	res := s.execute(query.QueryDescription{
		Question:    "Lamar Jackson stats",
		PlayerNames: []string{"Lamar Jackson"},
	})

	s.Equal(query.SingleEntityStat, res.Plan.QueryType)
	s.Nil(res.Ambiguity)
	s.Require().Len(res.Entities, 1)
	s.Equal(s.players["lamar-qb"].ID, res.Entities[0].Entity.ID)
	s.InDelta(0.9, res.Entities[0].Confidence, 1e-9)
	s.Require().Len(res.Stats, 1)
	s.Equal(2000.0, res.Stats[0].Values["passing_yards"])
}

func (s *EngineTestSuite) TestTeamStats() {
	res := s.execute(query.QueryDescription{TeamNames: []string{"Cowboys"}})

	s.Equal(query.TeamStats, res.Plan.QueryType)
	s.Require().Len(res.TeamStats, 1)
	totals := res.TeamStats[0]
	s.Equal("Dallas Cowboys", totals.Team.Name)
	s.Equal(3, totals.PlayerCount)
	s.Equal(14.0, totals.Totals["sacks"])
	s.Equal(6507.0, totals.TotalOffensiveYards)
}

func (s *EngineTestSuite) TestTeamComparison() {
	res := s.execute(query.QueryDescription{
		Question:  "Compare the Cowboys and Eagles in passing yards",
		TeamNames: []string{"Cowboys", "Eagles"},
		Metrics:   []string{"passing_yards"},
	})

	s.Equal(query.TeamComparison, res.Plan.QueryType)
	s.Require().NotNil(res.Comparison)
	s.Equal("Dallas Cowboys", res.Comparison.Winner)
	s.Equal(3858.0, res.Comparison.Metrics[0].Values["Philadelphia Eagles"])
}

func (s *EngineTestSuite) TestGameSpecificStats() {
	res := s.execute(query.QueryDescription{
		Question:    "How did Micah Parsons do in week 3 against the Ravens?",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.GameSpecificStats, res.Plan.QueryType)
	s.Equal(3, res.Plan.Filters.Week)
	s.Require().Len(res.Games, 1)
	s.Equal("Baltimore Ravens", res.Games[0].Opponent)
	s.Equal(map[string]float64{"sacks": 2}, res.Games[0].Stats)
}

func (s *EngineTestSuite) TestGameSpecificNoMatch() {
	res := s.execute(query.QueryDescription{
		Question:    "How did Micah Parsons do in week 9 against the Steelers?",
		PlayerNames: []string{"Micah Parsons"},
	})

	s.Empty(res.Games)
	s.Require().NotEmpty(res.Notes)
	s.Contains(res.Notes[0], "week 9")
}

func (s *EngineTestSuite) TestContextualPerformance() {
	res := s.execute(query.QueryDescription{
		Question:    "Micah Parsons sacks at home vs away",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.ContextualPerformance, res.Plan.QueryType)
	s.Require().Len(res.Buckets, 2)
	s.Equal(1.25, res.Buckets[0].PerGame["sacks"])
	s.Equal(2.0, res.Buckets[1].PerGame["sacks"])
	s.Equal(2, res.Buckets[1].Wins)
}

func (s *EngineTestSuite) TestContextualByDivision() {
	res := s.execute(query.QueryDescription{
		Question:    "Micah Parsons sacks in division games",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.ContextualPerformance, res.Plan.QueryType)
	s.Require().Len(res.Buckets, 3)
	s.Equal("division", res.Buckets[0].Name)
	s.Equal(1, res.Buckets[0].Games)
	s.Equal(3.0, res.Buckets[0].Totals["sacks"])
	s.Empty(res.Notes)
}

func (s *EngineTestSuite) TestContextualNotesUnknownOpponentCategories() {
	watt := s.players["watt"]
	s.Require().NoError(s.repo.SaveGameLog(s.ctx, watt, "2024", []models.GameRecord{
		{Week: 1, Date: time.Date(2024, time.September, 8, 17, 0, 0, 0, time.UTC), Opponent: "Atlanta Falcons", OpponentAbbr: "ATL", Result: "W", Stats: map[string]float64{"sacks": 1}},
		{Week: 2, Date: time.Date(2024, time.September, 15, 17, 0, 0, 0, time.UTC), Opponent: "Denver Broncos", OpponentAbbr: "DEN", Result: "W", Stats: map[string]float64{"sacks": 2}},
	}))

	res := s.execute(query.QueryDescription{
		Question:    "T.J. Watt sacks in division games",
		PlayerNames: []string{"T.J. Watt"},
		Metrics:     []string{"sacks"},
	})

	s.Equal(query.ContextualPerformance, res.Plan.QueryType)
	s.Require().Len(res.Buckets, 3)
	s.Equal(2, res.Buckets[2].Games)
	s.Require().Len(res.Notes, 1)
	s.Contains(res.Notes[0], "Opponent categories are unknown")
}

func (s *EngineTestSuite) TestGameRanking() {
	res := s.execute(query.QueryDescription{
		Question:    "What was Micah Parsons' best game?",
		PlayerNames: []string{"Micah Parsons"},
		Metrics:     []string{"sacks"},
		Limit:       2,
	})

	s.Equal(query.GamePerformanceComparison, res.Plan.QueryType)
	s.Require().Len(res.Games, 2)
	s.Equal(4, res.Games[0].Week)
	s.Require().NotNil(res.GameSummary)
	s.Equal(4, res.GameSummary.Games)
	s.Equal(1.63, res.GameSummary.Average)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
