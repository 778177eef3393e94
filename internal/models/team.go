package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TeamSocials struct {
	Twitter string `json:"twitter,omitempty"`
	Website string `json:"website,omitempty"`
}

// Team groups users under a single owner. Name is stored lower-cased and
// unique, matching the username convention.
type Team struct {
	ID        uuid.UUID                        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string                           `gorm:"uniqueIndex;not null;size:64" json:"name"`
	OwnerID   uuid.UUID                        `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     User                             `gorm:"foreignKey:OwnerID" json:"-"`
	Socials   datatypes.JSONType[TeamSocials]  `json:"socials"`
	Members   []User                           `gorm:"many2many:team_members" json:"members,omitempty"`
	Invites   []TeamInvite                     `gorm:"foreignKey:TeamID" json:"-"`
	CTFs      []CTF                            `gorm:"foreignKey:TeamID" json:"-"`
	CreatedAt time.Time                        `json:"created_at"`
	UpdatedAt time.Time                        `json:"updated_at"`
}

// IsOwner reports whether user owns the team.
func (t *Team) IsOwner(user *User) bool {
	return user != nil && t.OwnerID == user.ID
}

// InTeam reports whether user is the owner or a loaded member. Members must
// already be preloaded; this is a pure check, it performs no I/O.
func (t *Team) InTeam(user *User) bool {
	if t.IsOwner(user) {
		return true
	}
	if user == nil {
		return false
	}
	for i := range t.Members {
		if t.Members[i].ID == user.ID {
			return true
		}
	}
	return false
}
