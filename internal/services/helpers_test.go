package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/store"
	"github.com/flagforge/flagforge-backend/internal/token"
)

// errCode extracts the stable client-facing code from a service error.
func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected an apperr, got %v", err)
	return appErr.Code
}

type authFixture struct {
	users  *store.MemoryUserStore
	tokens *store.MemoryRefreshTokenStore
	issuer *token.Issuer
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := store.NewMemoryUserStore()
	tokens := store.NewMemoryRefreshTokenStore()
	issuer := token.NewIssuer("test-secret", 15*time.Minute)
	svc := NewAuthService(users, tokens, issuer, 7*24*time.Hour, bcrypt.MinCost)
	return &authFixture{users: users, tokens: tokens, issuer: issuer, svc: svc}
}
