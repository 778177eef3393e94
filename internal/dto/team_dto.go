package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/models"
)

type CreateTeamRequest struct {
	TeamName string `json:"teamName"`
}

type UpdateTeamRequest struct {
	Socials *models.TeamSocials `json:"socials,omitempty"`
}

type TeamResponse struct {
	ID      uuid.UUID          `json:"id"`
	Name    string             `json:"name"`
	OwnerID uuid.UUID          `json:"ownerId"`
	Socials models.TeamSocials `json:"socials"`
	Members []UserResponse     `json:"members,omitempty"`
}

type CreateInviteRequest struct {
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	MaxUses   int        `json:"maxUses,omitempty"`
}

// InviteResponse is what authenticated viewers see. Anonymous viewers get
// the reduced PublicInviteResponse instead.
type InviteResponse struct {
	Code      string     `json:"code"`
	TeamID    uuid.UUID  `json:"teamId"`
	TeamName  string     `json:"teamName"`
	CreatedBy uuid.UUID  `json:"createdBy"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	MaxUses   int        `json:"maxUses"`
	Uses      int        `json:"uses"`
}

type PublicInviteResponse struct {
	Code     string `json:"code"`
	TeamName string `json:"teamName"`
}
