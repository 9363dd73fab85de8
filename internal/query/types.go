package query

import "github.com/stitts-dev/sports-query-engine/internal/sports"

type QueryType string

const (
	SingleEntityStat          QueryType = "single_entity_stat"
	MultiStatPlayer           QueryType = "multi_stat_player"
	PlayerComparison          QueryType = "player_comparison"
	MultiPlayerComparison     QueryType = "multi_player_comparison"
	TeamComparison            QueryType = "team_comparison"
	MultiTeamComparison       QueryType = "multi_team_comparison"
	SeasonComparison          QueryType = "season_comparison"
	MultiSeasonComparison     QueryType = "multi_season_comparison"
	TeamStats                 QueryType = "team_stats"
	LeagueLeaders             QueryType = "league_leaders"
	PlayerRanking             QueryType = "player_ranking"
	AggregateStat             QueryType = "aggregate_stat"
	ThresholdQuery            QueryType = "threshold_query"
	GameSpecificStats         QueryType = "game_specific_stats"
	ContextualPerformance     QueryType = "contextual_performance"
	GamePerformanceComparison QueryType = "game_performance_comparison"
)

// AllQueryTypes lists every query type the classifier can produce.
var AllQueryTypes = []QueryType{
	SingleEntityStat, MultiStatPlayer,
	PlayerComparison, MultiPlayerComparison,
	TeamComparison, MultiTeamComparison,
	SeasonComparison, MultiSeasonComparison,
	TeamStats, LeagueLeaders, PlayerRanking, AggregateStat, ThresholdQuery,
	GameSpecificStats, ContextualPerformance, GamePerformanceComparison,
}

type ResponseFormat string

const (
	FormatSimple          ResponseFormat = "simple"
	FormatDetailed        ResponseFormat = "detailed"
	FormatComparisonTable ResponseFormat = "comparison_table"
	FormatRanking         ResponseFormat = "ranking"
)

// QueryDescription is the structured question handed over by the upstream
// language layer. The engine never mutates it.
type QueryDescription struct {
	Question          string   `json:"question"`
	Sport             string   `json:"sport" binding:"required"`
	PlayerNames       []string `json:"player_names,omitempty"`
	TeamNames         []string `json:"team_names,omitempty"`
	Metrics           []string `json:"metrics,omitempty"`
	SeasonYears       []int    `json:"season_years,omitempty"`
	Season            string   `json:"season,omitempty"`
	Strategy          string   `json:"strategy,omitempty"`
	Position          string   `json:"position,omitempty"`
	ComparisonTarget  string   `json:"comparison_target,omitempty"`  // "player", "team", "season"
	OutputExpectation string   `json:"output_expectation,omitempty"` // "comparison", ...
	Limit             int      `json:"limit,omitempty"`
}

// Filters narrow the population or game log a plan operates on.
type Filters struct {
	SeasonYears    []int   `json:"season_years,omitempty"`
	Season         string  `json:"season,omitempty"`
	Position       string  `json:"position,omitempty"`
	Week           int     `json:"week,omitempty"`
	Opponent       string  `json:"opponent,omitempty"`
	Venue          string  `json:"venue,omitempty"`         // "home", "away"
	OpponentType   string  `json:"opponent_type,omitempty"` // "division", "conference"
	SortMetric     string  `json:"sort_metric,omitempty"`
	SortOrder      string  `json:"sort_order,omitempty"` // "desc", "asc"
	ThresholdOp    string  `json:"threshold_op,omitempty"`
	ThresholdValue float64 `json:"threshold_value,omitempty"`
	SeasonTotal    bool    `json:"season_total,omitempty"`
	Limit          int     `json:"limit,omitempty"`
}

const (
	ThresholdGT  = "gt"
	ThresholdGTE = "gte"
	ThresholdLT  = "lt"
)

type QueryPlan struct {
	QueryType         QueryType      `json:"query_type"`
	Sport             sports.Sport   `json:"sport"`
	PrimaryEntities   []string       `json:"primary_entities,omitempty"`
	SecondaryEntities []string       `json:"secondary_entities,omitempty"`
	Teams             []string       `json:"teams,omitempty"`
	Metrics           []string       `json:"metrics,omitempty"`
	Filters           Filters        `json:"filters"`
	AggregationType   string         `json:"aggregation_type"`
	ProcessingSteps   []string       `json:"processing_steps"`
	DataSourcesNeeded []string       `json:"data_sources_needed"`
	ResponseFormat    ResponseFormat `json:"response_format"`
}

// Players returns every player name the plan refers to.
func (p *QueryPlan) Players() []string {
	out := make([]string, 0, len(p.PrimaryEntities)+len(p.SecondaryEntities))
	out = append(out, p.PrimaryEntities...)
	return append(out, p.SecondaryEntities...)
}
