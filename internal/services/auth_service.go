package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
	"github.com/flagforge/flagforge-backend/internal/token"
)

// AuthService implements the session lifecycle: registration, login, logout
// and refresh-token rotation. All returned user views are sanitized.
type AuthService struct {
	users         store.UserStore
	tokens        store.RefreshTokenStore
	issuer        *token.Issuer
	refreshExpiry time.Duration
	bcryptCost    int
}

func NewAuthService(users store.UserStore, tokens store.RefreshTokenStore, issuer *token.Issuer, refreshExpiry time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		issuer:        issuer,
		refreshExpiry: refreshExpiry,
		bcryptCost:    bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, sourceIP string) (*dto.AuthResponse, error) {
	normalized := strings.ToLower(username)

	// Best-effort pre-check; the unique index is the authoritative guard.
	if _, err := s.users.FindByUsername(ctx, normalized); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("username lookup failed during register", "error", err)
		return nil, apperr.Internal()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		return nil, apperr.Internal()
	}

	user := models.User{
		Username:               normalized,
		UsernameCapitalization: username,
		Password:               string(hash),
		IsAdmin:                false,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserExists
		}
		slog.Error("failed to create user", "error", err)
		return nil, apperr.Internal()
	}

	return s.issueTokens(ctx, &user, sourceIP)
}

// Authenticate verifies credentials. A missing user and a wrong password
// produce the identical error.
func (s *AuthService) Authenticate(ctx context.Context, username, password, sourceIP string) (*dto.AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		slog.Error("username lookup failed during login", "error", err)
		return nil, apperr.Internal()
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user, sourceIP)
}

// Logout revokes the presented refresh token. Revoking an already-dead
// token fails; the caller clears its cookie regardless.
func (s *AuthService) Logout(ctx context.Context, refreshToken, sourceIP string) error {
	if !token.ValidRefreshFormat(refreshToken) {
		return ErrInvalidToken
	}
	if err := s.tokens.Revoke(ctx, refreshToken, sourceIP, ""); err != nil {
		if errors.Is(err, store.ErrTokenNotActive) {
			return ErrInvalidToken
		}
		slog.Error("failed to revoke refresh token", "error", err)
		return apperr.Internal()
	}
	return nil
}

// Refresh rotates the presented refresh token and issues a fresh access
// token. Presenting a revoked token is treated as replay and rejected; two
// concurrent calls on the same token race and exactly one wins.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, sourceIP string) (*dto.AuthResponse, error) {
	if !token.ValidRefreshFormat(refreshToken) {
		return nil, ErrInvalidToken
	}

	current, err := s.tokens.Active(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotActive) {
			return nil, ErrInvalidToken
		}
		slog.Error("refresh token lookup failed", "error", err)
		return nil, apperr.Internal()
	}

	user, err := s.users.FindByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		slog.Error("user lookup failed during refresh", "error", err)
		return nil, apperr.Internal()
	}

	next, err := s.newRefreshToken(user, sourceIP)
	if err != nil {
		return nil, err
	}

	// The store commits the old token's revocation together with the new
	// record; a concurrent rotation of the same value loses here.
	if err := s.tokens.Rotate(ctx, refreshToken, next, sourceIP); err != nil {
		if errors.Is(err, store.ErrTokenNotActive) {
			return nil, ErrInvalidToken
		}
		slog.Error("refresh token rotation failed", "error", err)
		return nil, apperr.Internal()
	}

	access, err := s.issuer.Issue(user)
	if err != nil {
		slog.Error("access token issue failed", "error", err)
		return nil, apperr.Internal()
	}

	return &dto.AuthResponse{
		User:         SanitizeUser(user),
		AccessToken:  access,
		RefreshToken: next.Token,
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, sourceIP string) (*dto.AuthResponse, error) {
	refresh, err := s.newRefreshToken(user, sourceIP)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		slog.Error("failed to store refresh token", "error", err)
		return nil, apperr.Internal()
	}

	access, err := s.issuer.Issue(user)
	if err != nil {
		slog.Error("access token issue failed", "error", err)
		return nil, apperr.Internal()
	}

	return &dto.AuthResponse{
		User:         SanitizeUser(user),
		AccessToken:  access,
		RefreshToken: refresh.Token,
	}, nil
}

// newRefreshToken builds an unsaved record so callers control when it is
// persisted (Create on login/register, Rotate on refresh).
func (s *AuthService) newRefreshToken(user *models.User, sourceIP string) (*models.RefreshToken, error) {
	value, err := token.NewRefreshValue()
	if err != nil {
		slog.Error("refresh token generation failed", "error", err)
		return nil, apperr.Internal()
	}
	return &models.RefreshToken{
		UserID:      user.ID,
		Token:       value,
		ExpiresAt:   time.Now().Add(s.refreshExpiry),
		CreatedByIP: sourceIP,
	}, nil
}

// SanitizeUser maps a user record to the view safe to serialize.
func SanitizeUser(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                     user.ID,
		Username:               user.Username,
		UsernameCapitalization: user.UsernameCapitalization,
		IsAdmin:                user.IsAdmin,
	}
}
