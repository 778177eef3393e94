package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

type UserService struct {
	users      store.UserStore
	teams      store.TeamStore
	tokens     store.RefreshTokenStore
	bcryptCost int
}

func NewUserService(users store.UserStore, teams store.TeamStore, tokens store.RefreshTokenStore, bcryptCost int) *UserService {
	return &UserService{users: users, teams: teams, tokens: tokens, bcryptCost: bcryptCost}
}

// Get returns the sanitized view of the actor, or of another user when the
// actor is that user or an admin.
func (s *UserService) Get(ctx context.Context, actor *models.User, targetID *uuid.UUID) (*dto.UserResponse, error) {
	if targetID == nil || *targetID == actor.ID {
		view := SanitizeUser(actor)
		return &view, nil
	}
	if !actor.IsAdmin {
		return nil, ErrInvalidPermissions
	}

	target, err := s.users.FindByID(ctx, *targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		slog.Error("user lookup failed", "error", err)
		return nil, apperr.Internal()
	}
	view := SanitizeUser(target)
	return &view, nil
}

// Update changes the actor's username and/or password. A username change
// keeps the chosen capitalization and re-runs the uniqueness check on the
// lower-cased form.
func (s *UserService) Update(ctx context.Context, actor *models.User, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Username != nil {
		normalized := strings.ToLower(*req.Username)
		if normalized != actor.Username {
			if _, err := s.users.FindByUsername(ctx, normalized); err == nil {
				return nil, ErrUserExists
			} else if !errors.Is(err, store.ErrNotFound) {
				slog.Error("username lookup failed during update", "error", err)
				return nil, apperr.Internal()
			}
		}
		actor.Username = normalized
		actor.UsernameCapitalization = *req.Username
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			slog.Error("password hashing failed", "error", err)
			return nil, apperr.Internal()
		}
		actor.Password = string(hash)
	}

	if err := s.users.Save(ctx, actor); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserExists
		}
		slog.Error("failed to save user", "error", err)
		return nil, apperr.Internal()
	}

	view := SanitizeUser(actor)
	return &view, nil
}

// Delete removes the actor's account. Refused while the actor owns a team;
// all of the actor's active refresh tokens are revoked first.
func (s *UserService) Delete(ctx context.Context, actor *models.User, sourceIP string) error {
	owned, err := s.teams.CountOwnedBy(ctx, actor.ID)
	if err != nil {
		slog.Error("owned-team count failed", "error", err)
		return apperr.Internal()
	}
	if owned > 0 {
		return ErrUserOwnsTeam
	}

	if err := s.tokens.RevokeAllForUser(ctx, actor.ID, sourceIP); err != nil {
		slog.Error("failed to revoke tokens for deleted user", "error", err)
		return apperr.Internal()
	}

	if err := s.users.Delete(ctx, actor); err != nil {
		slog.Error("failed to delete user", "error", err)
		return apperr.Internal()
	}
	return nil
}
