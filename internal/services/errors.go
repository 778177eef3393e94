package services

import "github.com/flagforge/flagforge-backend/internal/apperr"

// Stable error codes surfaced to clients. Login failures for a missing user
// and a wrong password are deliberately the same value so usernames cannot
// be enumerated.
var (
	ErrUserExists         = apperr.Conflict("error_user_exists", "This username is already taken")
	ErrInvalidCredentials = apperr.BadRequest("error_invalid_credentials", "Username or password is incorrect")
	ErrInvalidToken       = apperr.Unauthorized("error_invalid_token", "Refresh token is invalid, expired or revoked")
	ErrUserNotFound       = apperr.NotFound("error_user_not_found", "User not found")
	ErrInvalidPermissions = apperr.Forbidden("error_invalid_permissions", "You do not have permission to perform this action")
	ErrTeamExists         = apperr.Conflict("error_team_exists", "A team with this name already exists")
	ErrTeamNotFound       = apperr.NotFound("error_team_not_found", "Team not found")
	ErrCTFNotFound        = apperr.NotFound("error_ctf_not_found", "CTF not found")
	ErrChallengeNotFound  = apperr.NotFound("error_challenge_not_found", "Challenge not found")
	ErrInviteNotFound     = apperr.NotFound("error_invite_not_found", "Invite not found")
	ErrInviteNotUsable    = apperr.BadRequest("error_invite_not_usable", "Invite is expired or has no uses left")
	ErrAlreadyInTeam      = apperr.Conflict("error_already_in_team", "User is already a member of this team")
	ErrUserOwnsTeam       = apperr.Conflict("error_user_owns_team", "Account cannot be deleted while it owns a team")
)
