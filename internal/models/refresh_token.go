package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a single-use-per-rotation credential. Records are never
// hard-deleted; revocation links to the replacement token so replayed
// tokens can be traced back through the chain.
type RefreshToken struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User       `gorm:"foreignKey:UserID" json:"-"`
	Token           string     `gorm:"uniqueIndex;not null;size:128" json:"-"`
	ExpiresAt       time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedByIP     string     `gorm:"size:45" json:"created_by_ip"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokedByIP     string     `gorm:"size:45" json:"revoked_by_ip,omitempty"`
	ReplacedByToken string     `gorm:"size:128" json:"-"`
}

// IsExpired reports whether the token's lifetime has passed. Derived at
// read time, never stored.
func (t *RefreshToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// IsActive reports whether the token is usable: not revoked and not expired.
func (t *RefreshToken) IsActive() bool {
	return t.RevokedAt == nil && !t.IsExpired()
}
