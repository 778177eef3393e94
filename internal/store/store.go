package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrTokenNotActive  = errors.New("refresh token is not active")
	ErrInviteNotUsable = errors.New("invite is expired or has no uses left")
)

// UserStore persists credential records. Usernames are expected to be
// lower-cased by the caller before lookup or insert; the unique index on
// users.username is the authoritative duplicate guard.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
}

// RefreshTokenStore persists the rotation chain. Tokens are never deleted,
// only revoked, so replayed values can be detected and traced.
type RefreshTokenStore interface {
	// Active returns the record for token only if it exists, is unrevoked
	// and unexpired; otherwise ErrTokenNotActive.
	Active(ctx context.Context, token string) (*models.RefreshToken, error)
	Create(ctx context.Context, rt *models.RefreshToken) error
	// Revoke marks token revoked if and only if it is still unrevoked and
	// unexpired. Returns ErrTokenNotActive when another caller won the
	// race or the token was already dead. replacedBy may be empty.
	Revoke(ctx context.Context, tokenValue, ip, replacedBy string) error
	// Rotate persists next and revokes the old token as one unit: the old
	// token's revocation is committed before next becomes visible.
	Rotate(ctx context.Context, oldValue string, next *models.RefreshToken, ip string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, ip string) error
}

// TeamStore persists teams and their invites. FindByID and FindInvite return
// fully-formed aggregates (members, uses preloaded) so permission predicates
// stay pure.
type TeamStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	FindByName(ctx context.Context, name string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Save(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, team *models.Team) error
	CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateInvite(ctx context.Context, invite *models.TeamInvite) error
	FindInvite(ctx context.Context, code string) (*models.TeamInvite, error)
	// UseInvite records the use and adds the user as a member in one unit.
	// Usability (expiry, max uses) is re-checked inside the same unit, so
	// two concurrent redeems of a one-use invite cannot both join; the
	// loser gets ErrInviteNotUsable.
	UseInvite(ctx context.Context, invite *models.TeamInvite, user *models.User) error
}

type CTFStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CTF, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, includeArchived bool) ([]models.CTF, error)
	Create(ctx context.Context, ctf *models.CTF) error
	Save(ctx context.Context, ctf *models.CTF) error
}

type ChallengeStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error)
	Create(ctx context.Context, challenge *models.Challenge) error
	Save(ctx context.Context, challenge *models.Challenge) error
}
