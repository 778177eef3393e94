package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record. Username is the lower-cased lookup key;
// UsernameCapitalization preserves the casing chosen at registration.
type User struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username               string    `gorm:"uniqueIndex;not null;size:64" json:"username"`
	UsernameCapitalization string    `gorm:"size:64" json:"usernameCapitalization"`
	Password               string    `gorm:"not null" json:"-"`
	IsAdmin                bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
