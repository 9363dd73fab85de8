package models

import "time"

// Player rows point at their team; teams never hold player slices.
type Player struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ExternalID    string    `gorm:"index;not null" json:"external_id"`
	Sport         string    `gorm:"index;not null" json:"sport"`
	Name          string    `gorm:"index;not null" json:"name"`
	Position      string    `gorm:"index" json:"position"`
	CurrentTeamID *uint     `gorm:"index" json:"current_team_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Player) TableName() string {
	return "players"
}

func (p Player) AsEntity(teamName string) Entity {
	return Entity{
		ID:         p.ID,
		ExternalID: p.ExternalID,
		Kind:       EntityPlayer,
		Sport:      p.Sport,
		Name:       p.Name,
		Position:   p.Position,
		TeamID:     p.CurrentTeamID,
		TeamName:   teamName,
	}
}
