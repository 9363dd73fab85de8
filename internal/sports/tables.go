package sports

import "time"

var (
	nflDefense = []string{"DE", "DT", "LB", "OLB", "ILB", "MLB", "EDGE", "DL"}
	nbaAll     = []string{"PG", "SG", "SF", "PF", "C"}
	mlbHitters = []string{"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH"}
	nhlSkaters = []string{"C", "LW", "RW", "D"}
)

func builtin() map[Sport]*Config {
	return map[Sport]*Config{
		NFL: nflConfig(),
		NBA: nbaConfig(),
		MLB: mlbConfig(),
		NHL: nhlConfig(),
	}
}

func nflConfig() *Config {
	return &Config{
		Sport:         NFL,
		SeasonFormat:  SingleYear,
		BoundaryMonth: time.August,
		Positions: []string{"QB", "RB", "WR", "TE", "FB", "DE", "DT", "LB", "CB", "S",
			"MLB", "OLB", "ILB", "EDGE", "DL", "DB", "K", "P"},
		PrimaryMetric: "passing_yards",
		Stats: []StatMapping{
			{Metric: "passing_yards", Column: "passing_yards", APIField: "passingYards", DisplayName: "Passing Yards", Category: "offense",
				Positions: []string{"QB"}, UserTerms: []string{"passing yards", "pass yards", "yards passing"}},
			{Metric: "passing_touchdowns", Column: "passing_touchdowns", APIField: "passingTouchdowns", DisplayName: "Passing Touchdowns", Category: "offense",
				Positions: []string{"QB"}, UserTerms: []string{"passing tds", "pass tds", "passing touchdowns"}},
			{Metric: "rushing_yards", Column: "rushing_yards", APIField: "rushingYards", DisplayName: "Rushing Yards", Category: "offense",
				Positions: []string{"RB", "QB", "FB"}, UserTerms: []string{"rushing yards", "rush yards", "yards rushing"}},
			{Metric: "rushing_touchdowns", Column: "rushing_touchdowns", APIField: "rushingTouchdowns", DisplayName: "Rushing Touchdowns", Category: "offense",
				Positions: []string{"RB", "QB", "FB"}, UserTerms: []string{"rushing tds", "rush tds", "rushing touchdowns"}},
			{Metric: "receiving_yards", Column: "receiving_yards", APIField: "receivingYards", DisplayName: "Receiving Yards", Category: "offense",
				Positions: []string{"WR", "TE", "RB"}, UserTerms: []string{"receiving yards", "rec yards", "yards receiving"}},
			{Metric: "receiving_touchdowns", Column: "receiving_touchdowns", APIField: "receivingTouchdowns", DisplayName: "Receiving Touchdowns", Category: "offense",
				Positions: []string{"WR", "TE", "RB"}, UserTerms: []string{"receiving tds", "rec tds", "receiving touchdowns"}},
			{Metric: "receptions", Column: "receptions", APIField: "receptions", DisplayName: "Receptions", Category: "offense",
				Positions: []string{"WR", "TE", "RB"}, UserTerms: []string{"receptions", "catches", "rec"}},
			{Metric: "passer_rating", Column: "passer_rating", APIField: "passerRating", DisplayName: "Passer Rating", Category: "offense",
				Positions: []string{"QB"}, UserTerms: []string{"passer rating", "qb rating", "rating"}},
			{Metric: "sacks", Column: "sacks", APIField: "sacks", DisplayName: "Sacks", Category: "defense",
				Positions: nflDefense, UserTerms: []string{"sacks", "sck"}},
			{Metric: "tackles", Column: "tackles", APIField: "tackles", DisplayName: "Tackles", Category: "defense",
				Positions: []string{"LB", "DE", "DT", "S", "CB", "MLB", "OLB", "ILB", "DL", "DB"}, UserTerms: []string{"tackles", "tkl"}},
			{Metric: "interceptions", Column: "interceptions", APIField: "interceptions", DisplayName: "Interceptions", Category: "defense",
				Positions: []string{"CB", "S", "LB", "DB"}, UserTerms: []string{"interceptions", "int", "picks"}},
			{Metric: "field_goals_made", Column: "field_goals_made", APIField: "fieldGoalsMade", DisplayName: "Field Goals Made", Category: "special_teams",
				Positions: []string{"K"}, UserTerms: []string{"field goals", "fg made", "field goals made"}},
		},
		Derived: map[string][]string{
			"total_touchdowns":      {"passing_touchdowns", "rushing_touchdowns", "receiving_touchdowns"},
			"total_offensive_yards": {"passing_yards", "rushing_yards", "receiving_yards"},
		},
		positionPriority: map[string]float64{
			"QB": 30, "RB": 25, "WR": 25, "TE": 20, "OL": 15, "DL": 18,
			"LB": 20, "CB": 22, "S": 20, "K": 10, "P": 8, "LS": 5,
		},
		defaultPriority: 5,
		prominenceWeights: map[string]float64{
			"passing_yards": 0.01, "rushing_yards": 0.01, "receiving_yards": 0.01,
			"passing_touchdowns": 2, "rushing_touchdowns": 2, "receiving_touchdowns": 2,
			"sacks": 3, "interceptions": 4,
		},
	}
}

func nbaConfig() *Config {
	return &Config{
		Sport:         NBA,
		SeasonFormat:  SplitYear,
		BoundaryMonth: time.August,
		Positions:     []string{"PG", "SG", "SF", "PF", "C", "G", "F"},
		PrimaryMetric: "points",
		Stats: []StatMapping{
			{Metric: "points", Column: "points", APIField: "points", DisplayName: "Points", Category: "scoring",
				Positions: nbaAll, UserTerms: []string{"points", "pts", "scoring"}, PerGame: true},
			{Metric: "rebounds", Column: "rebounds", APIField: "rebounds", DisplayName: "Rebounds", Category: "rebounding",
				Positions: []string{"PF", "C", "SF"}, UserTerms: []string{"rebounds", "reb", "boards"}, PerGame: true},
			{Metric: "assists", Column: "assists", APIField: "assists", DisplayName: "Assists", Category: "playmaking",
				Positions: []string{"PG", "SG"}, UserTerms: []string{"assists", "ast", "dimes"}, PerGame: true},
			{Metric: "steals", Column: "steals", APIField: "steals", DisplayName: "Steals", Category: "defense",
				Positions: []string{"PG", "SG", "SF"}, UserTerms: []string{"steals", "stl"}, PerGame: true},
			{Metric: "blocks", Column: "blocks", APIField: "blocks", DisplayName: "Blocks", Category: "defense",
				Positions: []string{"C", "PF"}, UserTerms: []string{"blocks", "blk", "swats"}, PerGame: true},
			{Metric: "three_pointers_made", Column: "three_pointers_made", APIField: "threePointersMade", DisplayName: "Three Pointers Made", Category: "shooting",
				Positions: []string{"PG", "SG", "SF"}, UserTerms: []string{"three pointers", "3pm", "threes", "3 pointers made"}, PerGame: true},
			{Metric: "field_goals_made", Column: "field_goals_made_basketball", APIField: "fieldGoalsMade", DisplayName: "Field Goals Made", Category: "shooting",
				Positions: nbaAll, UserTerms: []string{"field goals", "fg made", "shots made"}, PerGame: true},
			{Metric: "free_throws_made", Column: "free_throws_made", APIField: "freeThrowsMade", DisplayName: "Free Throws Made", Category: "shooting",
				Positions: nbaAll, UserTerms: []string{"free throws", "ft made", "free throws made"}, PerGame: true},
			{Metric: "minutes", Column: "minutes_played", APIField: "minutesPlayed", DisplayName: "Minutes Played", Category: "usage",
				Positions: nbaAll, UserTerms: []string{"minutes", "min", "minutes played"}, PerGame: true},
		},
		positionPriority: map[string]float64{
			"PG": 25, "SG": 25, "SF": 25, "PF": 22, "C": 22, "G": 20, "F": 20,
		},
		defaultPriority: 5,
		prominenceWeights: map[string]float64{
			"points": 1, "rebounds": 1, "assists": 1, "steals": 3, "blocks": 3,
		},
	}
}

func mlbConfig() *Config {
	return &Config{
		Sport:         MLB,
		SeasonFormat:  SingleYear,
		BoundaryMonth: time.March,
		Positions:     []string{"P", "C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH"},
		PrimaryMetric: "home_runs",
		Stats: []StatMapping{
			{Metric: "batting_average", Column: "batting_average", APIField: "battingAverage", DisplayName: "Batting Average", Category: "batting",
				Positions: mlbHitters, UserTerms: []string{"batting average", "avg", "ba"}},
			{Metric: "home_runs", Column: "home_runs", APIField: "homeRuns", DisplayName: "Home Runs", Category: "batting",
				Positions: mlbHitters, UserTerms: []string{"home runs", "hr", "homers"}},
			{Metric: "rbi", Column: "runs_batted_in", APIField: "runsBattedIn", DisplayName: "RBIs", Category: "batting",
				Positions: mlbHitters, UserTerms: []string{"rbi", "rbis", "runs batted in"}},
			{Metric: "era", Column: "earned_run_average", APIField: "earnedRunAverage", DisplayName: "ERA", Category: "pitching",
				Positions: []string{"P"}, UserTerms: []string{"era", "earned run average"}},
			{Metric: "wins", Column: "wins", APIField: "wins", DisplayName: "Wins", Category: "pitching",
				Positions: []string{"P"}, UserTerms: []string{"wins", "w"}},
			{Metric: "strikeouts", Column: "strikeouts", APIField: "strikeouts", DisplayName: "Strikeouts", Category: "pitching",
				Positions: []string{"P"}, UserTerms: []string{"strikeouts", "k", "so"}},
		},
		positionPriority: map[string]float64{
			"P": 25, "C": 20, "1B": 20, "2B": 20, "3B": 20, "SS": 22, "LF": 20, "CF": 22, "RF": 20, "DH": 18,
		},
		defaultPriority: 5,
		prominenceWeights: map[string]float64{
			"home_runs": 2, "rbi": 0.5, "wins": 2, "strikeouts": 0.1,
		},
	}
}

func nhlConfig() *Config {
	return &Config{
		Sport:         NHL,
		SeasonFormat:  SplitYear,
		BoundaryMonth: time.September,
		Positions:     []string{"C", "LW", "RW", "D", "G"},
		PrimaryMetric: "points",
		Stats: []StatMapping{
			{Metric: "goals", Column: "goals", APIField: "goals", DisplayName: "Goals", Category: "scoring",
				Positions: nhlSkaters, UserTerms: []string{"goals", "g"}},
			{Metric: "assists", Column: "assists_hockey", APIField: "assists", DisplayName: "Assists", Category: "scoring",
				Positions: nhlSkaters, UserTerms: []string{"assists", "a"}},
			{Metric: "points", Column: "points_hockey", APIField: "points", DisplayName: "Points", Category: "scoring",
				Positions: nhlSkaters, UserTerms: []string{"points", "pts"}},
			{Metric: "penalty_minutes", Column: "penalty_minutes", APIField: "penaltyMinutes", DisplayName: "Penalty Minutes", Category: "discipline",
				Positions: nhlSkaters, UserTerms: []string{"penalty minutes", "pim", "penalties"}},
			{Metric: "plus_minus", Column: "plus_minus", APIField: "plusMinus", DisplayName: "Plus/Minus", Category: "impact",
				Positions: nhlSkaters, UserTerms: []string{"plus minus", "+/-", "plus/minus"}},
		},
		positionPriority: map[string]float64{
			"C": 25, "LW": 22, "RW": 22, "D": 20, "G": 15,
		},
		defaultPriority: 5,
		prominenceWeights: map[string]float64{
			"goals": 2, "assists": 1, "points": 0.5,
		},
	}
}
