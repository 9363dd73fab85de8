package models

import "time"

type EntityKind string

const (
	EntityPlayer EntityKind = "player"
	EntityTeam   EntityKind = "team"
)

// Entity is a request-scoped view of a player or team row.
type Entity struct {
	ID           uint       `json:"id"`
	ExternalID   string     `json:"external_id"`
	Kind         EntityKind `json:"kind"`
	Sport        string     `json:"sport"`
	Name         string     `json:"name"`
	ShortName    string     `json:"short_name,omitempty"`
	Abbreviation string     `json:"abbreviation,omitempty"`
	Position     string     `json:"position,omitempty"`
	TeamID       *uint      `json:"team_id,omitempty"`
	TeamName     string     `json:"team_name,omitempty"`
}

// StatsRecord is a sparse metric map for one entity and one season.
type StatsRecord struct {
	EntityID    uint               `json:"entity_id"`
	EntityName  string             `json:"entity_name"`
	Season      string             `json:"season"`
	GamesPlayed int                `json:"games_played"`
	Values      map[string]float64 `json:"values"`
	Source      string             `json:"source"` // "cache", "store", "remote", "career"
	Note        string             `json:"note,omitempty"`
}

// Value returns the metric value, treating an unrecorded metric as zero.
func (r *StatsRecord) Value(metric string) float64 {
	if r == nil {
		return 0
	}
	return r.Values[metric]
}

// Has distinguishes a recorded zero from a metric that was never recorded.
func (r *StatsRecord) Has(metric string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Values[metric]
	return ok
}

func (r *StatsRecord) Empty() bool {
	return r == nil || len(r.Values) == 0
}

// GameRecord is one entry of a game-by-game log.
type GameRecord struct {
	Week         int                `json:"week,omitempty"`
	Date         time.Time          `json:"date"`
	Opponent     string             `json:"opponent"`
	OpponentAbbr string             `json:"opponent_abbr,omitempty"`
	IsHome       bool               `json:"is_home"`
	IsDivision   bool               `json:"is_division"`
	IsConference bool               `json:"is_conference"`
	Result       string             `json:"result,omitempty"`
	Stats        map[string]float64 `json:"stats"`
}

// EntityCandidate pairs an entity with the confidence of a name match.
type EntityCandidate struct {
	Entity     Entity  `json:"entity"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy,omitempty"`
	Score      float64 `json:"score,omitempty"` // disambiguation score, when computed
}
