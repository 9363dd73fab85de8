package models

import "time"

// StatLine is the fixed set of numeric stat columns shared by the season and
// career tables. A nil column means the stat was never recorded.
type StatLine struct {
	// NFL
	PassingYards        *float64 `json:"passing_yards,omitempty"`
	PassingTouchdowns   *float64 `json:"passing_touchdowns,omitempty"`
	RushingYards        *float64 `json:"rushing_yards,omitempty"`
	RushingTouchdowns   *float64 `json:"rushing_touchdowns,omitempty"`
	ReceivingYards      *float64 `json:"receiving_yards,omitempty"`
	ReceivingTouchdowns *float64 `json:"receiving_touchdowns,omitempty"`
	Receptions          *float64 `json:"receptions,omitempty"`
	PasserRating        *float64 `json:"passer_rating,omitempty"`
	Sacks               *float64 `json:"sacks,omitempty"`
	Tackles             *float64 `json:"tackles,omitempty"`
	Interceptions       *float64 `json:"interceptions,omitempty"`
	FieldGoalsMade      *float64 `json:"field_goals_made,omitempty"`

	// NBA (per-game averages)
	Points                   *float64 `json:"points,omitempty"`
	Rebounds                 *float64 `json:"rebounds,omitempty"`
	Assists                  *float64 `json:"assists,omitempty"`
	Steals                   *float64 `json:"steals,omitempty"`
	Blocks                   *float64 `json:"blocks,omitempty"`
	ThreePointersMade        *float64 `json:"three_pointers_made,omitempty"`
	FieldGoalsMadeBasketball *float64 `json:"field_goals_made_basketball,omitempty"`
	FreeThrowsMade           *float64 `json:"free_throws_made,omitempty"`
	MinutesPlayed            *float64 `json:"minutes_played,omitempty"`

	// MLB
	BattingAverage   *float64 `json:"batting_average,omitempty"`
	HomeRuns         *float64 `json:"home_runs,omitempty"`
	RunsBattedIn     *float64 `json:"runs_batted_in,omitempty"`
	EarnedRunAverage *float64 `json:"earned_run_average,omitempty"`
	Wins             *float64 `json:"wins,omitempty"`
	Strikeouts       *float64 `json:"strikeouts,omitempty"`

	// NHL
	Goals          *float64 `json:"goals,omitempty"`
	AssistsHockey  *float64 `json:"assists_hockey,omitempty"`
	PointsHockey   *float64 `json:"points_hockey,omitempty"`
	PenaltyMinutes *float64 `json:"penalty_minutes,omitempty"`
	PlusMinus      *float64 `json:"plus_minus,omitempty"`
}

func (s *StatLine) columns() map[string]**float64 {
	return map[string]**float64{
		"passing_yards":               &s.PassingYards,
		"passing_touchdowns":          &s.PassingTouchdowns,
		"rushing_yards":               &s.RushingYards,
		"rushing_touchdowns":          &s.RushingTouchdowns,
		"receiving_yards":             &s.ReceivingYards,
		"receiving_touchdowns":        &s.ReceivingTouchdowns,
		"receptions":                  &s.Receptions,
		"passer_rating":               &s.PasserRating,
		"sacks":                       &s.Sacks,
		"tackles":                     &s.Tackles,
		"interceptions":               &s.Interceptions,
		"field_goals_made":            &s.FieldGoalsMade,
		"points":                      &s.Points,
		"rebounds":                    &s.Rebounds,
		"assists":                     &s.Assists,
		"steals":                      &s.Steals,
		"blocks":                      &s.Blocks,
		"three_pointers_made":         &s.ThreePointersMade,
		"field_goals_made_basketball": &s.FieldGoalsMadeBasketball,
		"free_throws_made":            &s.FreeThrowsMade,
		"minutes_played":              &s.MinutesPlayed,
		"batting_average":             &s.BattingAverage,
		"home_runs":                   &s.HomeRuns,
		"runs_batted_in":              &s.RunsBattedIn,
		"earned_run_average":          &s.EarnedRunAverage,
		"wins":                        &s.Wins,
		"strikeouts":                  &s.Strikeouts,
		"goals":                       &s.Goals,
		"assists_hockey":              &s.AssistsHockey,
		"points_hockey":               &s.PointsHockey,
		"penalty_minutes":             &s.PenaltyMinutes,
		"plus_minus":                  &s.PlusMinus,
	}
}

// Values returns recorded columns keyed by column name.
func (s *StatLine) Values() map[string]float64 {
	out := make(map[string]float64)
	for col, ptr := range s.columns() {
		if *ptr != nil {
			out[col] = **ptr
		}
	}
	return out
}

// Set records a value for a column. Unknown columns are ignored.
func (s *StatLine) Set(column string, v float64) bool {
	ptr, ok := s.columns()[column]
	if !ok {
		return false
	}
	val := v
	*ptr = &val
	return true
}

// HasColumn reports whether column is part of the stat line.
func HasColumn(column string) bool {
	_, ok := (&StatLine{}).columns()[column]
	return ok
}

type PlayerSeasonStats struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PlayerID     uint      `gorm:"uniqueIndex:idx_player_season;not null" json:"player_id"`
	Season       string    `gorm:"uniqueIndex:idx_player_season;not null" json:"season"`
	TeamID       *uint     `gorm:"index" json:"team_id,omitempty"`
	GamesPlayed  int       `json:"games_played"`
	GamesStarted int       `json:"games_started"`
	StatLine     StatLine  `gorm:"embedded" json:"stats"`
	Source       string    `json:"source"` // "ingest", "remote"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerSeasonStats) TableName() string {
	return "player_season_stats"
}

// CareerStats holds season-summed totals for players with no per-season rows.
type CareerStats struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PlayerID      uint      `gorm:"uniqueIndex;not null" json:"player_id"`
	TotalGames    int       `json:"total_games"`
	SeasonsPlayed int       `json:"seasons_played"`
	StatLine      StatLine  `gorm:"embedded;embeddedPrefix:career_" json:"stats"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CareerStats) TableName() string {
	return "career_stats"
}
