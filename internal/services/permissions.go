package services

import "github.com/flagforge/flagforge-backend/internal/models"

// The single authorization rule used across team and CTF operations:
// an admin always bypasses, everyone else needs the relevant predicate.
// Centralized here so handlers never roll their own checks.

func requireTeamMember(user *models.User, team *models.Team) error {
	if user.IsAdmin || team.InTeam(user) {
		return nil
	}
	return ErrInvalidPermissions
}

func requireTeamOwner(user *models.User, team *models.Team) error {
	if user.IsAdmin || team.IsOwner(user) {
		return nil
	}
	return ErrInvalidPermissions
}
