package engine

import (
	"github.com/stitts-dev/sports-query-engine/internal/models"
	"github.com/stitts-dev/sports-query-engine/internal/query"
	"github.com/stitts-dev/sports-query-engine/internal/store"
)

// ExecutionResult is what a query produces. Only the blocks relevant to the
// query type are set.
type ExecutionResult struct {
	RequestID      string                       `json:"request_id"`
	Plan           *query.QueryPlan             `json:"plan"`
	Entities       []models.EntityCandidate     `json:"entities,omitempty"`
	Stats          []models.StatsRecord         `json:"stats,omitempty"`
	TeamStats      []TeamTotals                 `json:"team_stats,omitempty"`
	Comparison     *Comparison                  `json:"comparison,omitempty"`
	Ranking        *Ranking                     `json:"ranking,omitempty"`
	Leaderboard    *Leaderboard                 `json:"leaderboard,omitempty"`
	Games          []GameEntry                  `json:"games,omitempty"`
	GameSummary    *GameSummary                 `json:"game_summary,omitempty"`
	Buckets        []Bucket                     `json:"buckets,omitempty"`
	Calculations   []Calculation                `json:"calculations,omitempty"`
	Errors         map[string]*query.QueryError `json:"errors,omitempty"`
	ResponseFormat query.ResponseFormat         `json:"response_format"`
	Notes          []string                     `json:"notes,omitempty"`
	Ambiguity      *query.QueryError            `json:"ambiguity,omitempty"`
}

func (r *ExecutionResult) addError(key string, err *query.QueryError) {
	if r.Errors == nil {
		r.Errors = make(map[string]*query.QueryError)
	}
	r.Errors[key] = err
}

func (r *ExecutionResult) note(s string) {
	r.Notes = append(r.Notes, s)
}

// RankedValue is one subject's place in a per-metric or overall ranking.
type RankedValue struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Rank   int     `json:"rank"`
	Points int     `json:"points,omitempty"`
}

type MetricComparison struct {
	Metric      string             `json:"metric"`
	DisplayName string             `json:"display_name,omitempty"`
	Values      map[string]float64 `json:"values"`
	// Winner is empty on a tie or in n-way comparisons.
	Winner    string        `json:"winner,omitempty"`
	Ranking   []RankedValue `json:"ranking,omitempty"`
	Change    *float64      `json:"change,omitempty"`
	PctChange *float64      `json:"pct_change,omitempty"`
}

type TrendStep struct {
	Metric    string  `json:"metric"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // improved, declined, stable
}

type Comparison struct {
	Kind     string             `json:"kind"` // pairwise, n_way, season, multi_season
	Subjects []string           `json:"subjects"`
	Metrics  []MetricComparison `json:"metrics"`

	// pairwise
	Wins   map[string]int `json:"wins,omitempty"`
	Winner string         `json:"winner,omitempty"`
	Tie    bool           `json:"tie,omitempty"`

	// n-way and 3+ seasons
	Standings []RankedValue `json:"standings,omitempty"`
	Trend     []TrendStep   `json:"trend,omitempty"`
}

// Ranking places one named player within the filtered population.
type Ranking struct {
	Entity     models.Entity `json:"entity"`
	Metric     string        `json:"metric"`
	Season     string        `json:"season"`
	Value      float64       `json:"value"`
	Rank       int           `json:"rank"`
	Population int           `json:"population"`
}

type LeaderEntry struct {
	Rank int `json:"rank"`
	store.LeaderRow
}

type Leaderboard struct {
	Metric         string        `json:"metric"`
	DisplayName    string        `json:"display_name,omitempty"`
	Season         string        `json:"season"`
	Position       string        `json:"position,omitempty"`
	Team           string        `json:"team,omitempty"`
	ThresholdOp    string        `json:"threshold_op,omitempty"`
	ThresholdValue float64       `json:"threshold_value,omitempty"`
	Rows           []LeaderEntry `json:"rows"`
	LeagueAverage  float64       `json:"league_average"`
	LeagueTotal    float64       `json:"league_total"`
	Population     int64         `json:"population"`
}

// TeamTotals sums player season stats for one team.
type TeamTotals struct {
	Team                models.Entity      `json:"team"`
	Season              string             `json:"season"`
	PlayerCount         int                `json:"player_count"`
	Totals              map[string]float64 `json:"totals"`
	TotalOffensiveYards float64            `json:"total_offensive_yards,omitempty"`
}

type GameEntry struct {
	Rank int `json:"rank,omitempty"`
	models.GameRecord
}

type GameSummary struct {
	Metric  string  `json:"metric"`
	Order   string  `json:"order"`
	Games   int     `json:"games"`
	Average float64 `json:"average"`
	Best    float64 `json:"best"`
	Worst   float64 `json:"worst"`
}

// Bucket aggregates the games of one venue or opponent category.
type Bucket struct {
	Name    string             `json:"name"`
	Games   int                `json:"games"`
	Wins    int                `json:"wins"`
	Losses  int                `json:"losses"`
	Ties    int                `json:"ties"`
	Totals  map[string]float64 `json:"totals"`
	PerGame map[string]float64 `json:"per_game"`
}

// Calculation surfaces arithmetic the engine did on top of stored values.
type Calculation struct {
	Entity      string  `json:"entity"`
	Metric      string  `json:"metric"`
	Description string  `json:"description"`
	PerGame     float64 `json:"per_game"`
	GamesPlayed int     `json:"games_played"`
	Total       float64 `json:"total"`
}
