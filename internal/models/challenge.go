package models

import (
	"time"

	"github.com/google/uuid"
)

type Challenge struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CTFID     uuid.UUID `gorm:"type:uuid;not null;index" json:"ctf_id"`
	Name      string    `gorm:"not null;size:128" json:"name"`
	Notepad   string    `gorm:"not null" json:"notepad"`
	Points    int       `json:"points"`
	Solved    bool      `gorm:"default:false" json:"solved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
