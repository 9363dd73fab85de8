package models

import "time"

type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExternalID   string    `gorm:"index;not null" json:"external_id"`
	Sport        string    `gorm:"index;not null" json:"sport"` // "NFL", "NBA", "MLB", "NHL"
	Name         string    `gorm:"index;not null" json:"name"`  // "Cowboys"
	DisplayName  string    `json:"display_name"`                // "Dallas Cowboys"
	Abbreviation string    `gorm:"index" json:"abbreviation"`   // "DAL"
	Conference   string    `json:"conference"`
	Division     string    `json:"division"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}

// AsEntity converts the row into the transient record the engine works with.
func (t Team) AsEntity() Entity {
	name := t.DisplayName
	if name == "" {
		name = t.Name
	}
	return Entity{
		ID:           t.ID,
		ExternalID:   t.ExternalID,
		Kind:         EntityTeam,
		Sport:        t.Sport,
		Name:         name,
		ShortName:    t.Name,
		Abbreviation: t.Abbreviation,
	}
}
