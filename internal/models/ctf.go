package models

import (
	"time"

	"github.com/google/uuid"
)

// CTF is a competition record belonging to a team. Notepad holds the path of
// the external HedgeDoc note created alongside it.
type CTF struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeamID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"team_id"`
	Name       string      `gorm:"not null;size:128" json:"name"`
	Notepad    string      `gorm:"not null" json:"notepad"`
	Archived   bool        `gorm:"default:false" json:"archived"`
	Challenges []Challenge `gorm:"foreignKey:CTFID" json:"challenges,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
