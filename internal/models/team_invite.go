package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamInvite is a short shareable code that grants team membership. A zero
// MaxUses means unlimited; a nil ExpiresAt means the invite never expires.
type TeamInvite struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TeamID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"team_id"`
	Team        Team       `gorm:"foreignKey:TeamID" json:"-"`
	Code        string     `gorm:"uniqueIndex;not null;size:6" json:"code"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxUses     int        `gorm:"default:0" json:"max_uses"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	Uses        []User     `gorm:"many2many:invite_uses" json:"-"`
}

// IsUsable reports whether the invite can still be redeemed.
func (i *TeamInvite) IsUsable() bool {
	if i.ExpiresAt != nil && !time.Now().Before(*i.ExpiresAt) {
		return false
	}
	if i.MaxUses > 0 && len(i.Uses) >= i.MaxUses {
		return false
	}
	return true
}
