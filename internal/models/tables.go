package models

// Tables lists every persisted model in dependency order.
func Tables() []interface{} {
	return []interface{}{
		&Team{},
		&Player{},
		&PlayerSeasonStats{},
		&CareerStats{},
		&GameLog{},
	}
}

// TableNames is Tables in reverse, for dropping.
func TableNames() []string {
	return []string{"game_logs", "career_stats", "player_season_stats", "players", "teams"}
}
