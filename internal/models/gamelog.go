package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameLog is one game of a player's season. Stats are keyed by metric id.
type GameLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	PlayerID     uint              `gorm:"uniqueIndex:idx_gamelog_player_game;index:idx_gamelog_player_season;not null" json:"player_id"`
	Season       string            `gorm:"index:idx_gamelog_player_season;not null" json:"season"`
	GameDate     time.Time         `gorm:"uniqueIndex:idx_gamelog_player_game;not null" json:"game_date"`
	Week         int               `json:"week,omitempty"`
	Opponent     string            `json:"opponent"`
	OpponentAbbr string            `json:"opponent_abbr"`
	IsHome       bool              `json:"is_home"`
	IsDivision   bool              `json:"is_division"`
	IsConference bool              `json:"is_conference"`
	Result       string            `json:"result"` // "W", "L", "T"
	Stats        datatypes.JSONMap `json:"stats"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TableName specifies the table name for GORM
func (GameLog) TableName() string {
	return "game_logs"
}

// Record converts the row to its transient form.
func (g GameLog) Record() GameRecord {
	stats := make(map[string]float64, len(g.Stats))
	for k, v := range g.Stats {
		if f, ok := toFloat(v); ok {
			stats[k] = f
		}
	}
	return GameRecord{
		Week:         g.Week,
		Date:         g.GameDate,
		Opponent:     g.Opponent,
		OpponentAbbr: g.OpponentAbbr,
		IsHome:       g.IsHome,
		IsDivision:   g.IsDivision,
		IsConference: g.IsConference,
		Result:       g.Result,
		Stats:        stats,
	}
}

// GameLogFromRecord is the inverse of Record, used when writing remote logs back.
func GameLogFromRecord(playerID uint, season string, r GameRecord) GameLog {
	stats := make(datatypes.JSONMap, len(r.Stats))
	for k, v := range r.Stats {
		stats[k] = v
	}
	return GameLog{
		PlayerID:     playerID,
		Season:       season,
		GameDate:     r.Date,
		Week:         r.Week,
		Opponent:     r.Opponent,
		OpponentAbbr: r.OpponentAbbr,
		IsHome:       r.IsHome,
		IsDivision:   r.IsDivision,
		IsConference: r.IsConference,
		Result:       r.Result,
		Stats:        stats,
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
