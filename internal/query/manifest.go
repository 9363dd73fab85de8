package query

type manifest struct {
	steps       []string
	sources     []string
	format      ResponseFormat
	aggregation string
}

var manifests = map[QueryType]manifest{
	SingleEntityStat: {
		steps:       []string{"resolve_player_id", "fetch_player_stats", "extract_requested_metrics", "format_simple_response"},
		sources:     []string{"PlayerStats"},
		format:      FormatSimple,
		aggregation: "none",
	},
	MultiStatPlayer: {
		steps:       []string{"resolve_player_id", "fetch_player_stats", "extract_requested_metrics", "format_detailed_response"},
		sources:     []string{"PlayerStats"},
		format:      FormatDetailed,
		aggregation: "none",
	},
	PlayerComparison: {
		steps:       []string{"resolve_all_player_ids", "fetch_all_player_stats", "extract_metrics_for_all_players", "compare_metrics", "format_comparison_response"},
		sources:     []string{"PlayerStats", "MultiplePlayerStats"},
		format:      FormatComparisonTable,
		aggregation: "pairwise",
	},
	MultiPlayerComparison: {
		steps:       []string{"resolve_all_player_ids", "batch_fetch_player_stats", "extract_metrics_for_all_players", "perform_n_way_comparison", "rank_by_metrics", "format_multi_comparison_response"},
		sources:     []string{"PlayerStats", "BatchPlayerStats"},
		format:      FormatComparisonTable,
		aggregation: "n_way",
	},
	TeamComparison: {
		steps:       []string{"resolve_all_team_ids", "fetch_all_team_stats", "extract_metrics_for_all_teams", "compare_team_metrics", "format_team_comparison_response"},
		sources:     []string{"TeamStats", "MultipleTeamStats"},
		format:      FormatComparisonTable,
		aggregation: "pairwise",
	},
	MultiTeamComparison: {
		steps:       []string{"resolve_all_team_ids", "batch_fetch_team_stats", "extract_metrics_for_all_teams", "perform_n_way_team_comparison", "rank_teams_by_metrics", "format_multi_team_comparison_response"},
		sources:     []string{"TeamStats", "BatchTeamStats"},
		format:      FormatComparisonTable,
		aggregation: "n_way",
	},
	SeasonComparison: {
		steps:       []string{"resolve_player_id", "fetch_multi_season_stats", "extract_metrics_across_seasons", "compare_season_metrics", "format_season_comparison_response"},
		sources:     []string{"PlayerStats", "MultiSeasonStats"},
		format:      FormatComparisonTable,
		aggregation: "season_delta",
	},
	MultiSeasonComparison: {
		steps:       []string{"resolve_player_id", "batch_fetch_multi_season_stats", "extract_metrics_across_all_seasons", "perform_n_way_season_comparison", "identify_trends", "format_multi_season_response"},
		sources:     []string{"PlayerStats", "BatchSeasonStats"},
		format:      FormatComparisonTable,
		aggregation: "season_trend",
	},
	TeamStats: {
		steps:       []string{"resolve_team_id", "fetch_players_by_team", "aggregate_team_stats", "format_team_response"},
		sources:     []string{"TeamStats", "PlayersByTeam"},
		format:      FormatDetailed,
		aggregation: "team_sum",
	},
	LeagueLeaders: {
		steps:       []string{"fetch_league_stats", "rank_by_metric", "format_ranking_response"},
		sources:     []string{"LeagueStats", "AllPlayersStats"},
		format:      FormatRanking,
		aggregation: "leaderboard",
	},
	PlayerRanking: {
		steps:       []string{"resolve_player_id", "fetch_player_stats", "fetch_league_stats", "calculate_player_rank", "format_ranking_response"},
		sources:     []string{"PlayerStats", "LeagueStats"},
		format:      FormatRanking,
		aggregation: "leaderboard",
	},
	AggregateStat: {
		steps:       []string{"fetch_league_stats", "aggregate_metric", "calculate_league_average", "format_detailed_response"},
		sources:     []string{"LeagueStats", "AllPlayersStats"},
		format:      FormatDetailed,
		aggregation: "sum_average",
	},
	ThresholdQuery: {
		steps:       []string{"fetch_league_stats", "apply_threshold_filter", "rank_by_metric", "format_ranking_response"},
		sources:     []string{"LeagueStats", "AllPlayersStats"},
		format:      FormatRanking,
		aggregation: "threshold",
	},
	GameSpecificStats: {
		steps:       []string{"resolve_player_id", "fetch_player_gamelog", "filter_by_game_context", "extract_game_stats", "format_game_response"},
		sources:     []string{"PlayerGamelog"},
		format:      FormatDetailed,
		aggregation: "game_filter",
	},
	ContextualPerformance: {
		steps:       []string{"resolve_player_id", "fetch_player_gamelog", "filter_by_context", "aggregate_contextual_stats", "format_contextual_response"},
		sources:     []string{"PlayerGamelog"},
		format:      FormatComparisonTable,
		aggregation: "venue_split",
	},
	GamePerformanceComparison: {
		steps:       []string{"resolve_player_id", "fetch_player_gamelog", "rank_games_by_performance", "identify_best_worst_games", "format_game_ranking_response"},
		sources:     []string{"PlayerGamelog"},
		format:      FormatRanking,
		aggregation: "game_rank",
	},
}

var unknownManifest = manifest{
	steps:       []string{"unknown_query_type"},
	sources:     []string{},
	format:      FormatSimple,
	aggregation: "none",
}

func manifestFor(t QueryType) manifest {
	if m, ok := manifests[t]; ok {
		return m
	}
	return unknownManifest
}

// ProcessingSteps returns a copy of the step list for a query type.
func ProcessingSteps(t QueryType) []string {
	return append([]string(nil), manifestFor(t).steps...)
}

// DataSources returns a copy of the data-source tags for a query type.
func DataSources(t QueryType) []string {
	return append([]string(nil), manifestFor(t).sources...)
}
