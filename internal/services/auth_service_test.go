package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagforge/flagforge-backend/internal/token"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "Alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.User.Username)
	assert.Equal(t, "Alice", registered.User.UsernameCapitalization)
	assert.False(t, registered.User.IsAdmin)
	assert.True(t, token.ValidRefreshFormat(registered.RefreshToken))

	claims, err := f.issuer.Verify(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	// Login with any capitalization resolves to the same account.
	authed, err := f.svc.Authenticate(ctx, "ALICE", "correct horse battery", "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, authed.User.ID)
	assert.NotEqual(t, registered.RefreshToken, authed.RefreshToken, "each login mints its own refresh token")
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	stored, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegisterDuplicateUsernameIsCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "Alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "aLiCe", "another password!", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "error_user_exists", errCode(t, err))
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	_, wrongPassword := f.svc.Authenticate(ctx, "alice", "wrong password!!", "10.0.0.1")
	_, noSuchUser := f.svc.Authenticate(ctx, "bob", "wrong password!!", "10.0.0.1")

	require.Error(t, wrongPassword)
	require.Error(t, noSuchUser)
	assert.Equal(t, errCode(t, wrongPassword), errCode(t, noSuchUser),
		"wrong password and unknown user must be indistinguishable")
	assert.Equal(t, "error_invalid_credentials", errCode(t, wrongPassword))
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)
	first := registered.RefreshToken

	rotated, err := f.svc.Refresh(ctx, first, "10.0.0.9")
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated.RefreshToken)
	assert.Equal(t, registered.User.ID, rotated.User.ID)

	// The old record is revoked and chained to its replacement.
	old, ok := f.tokens.Token(first)
	require.True(t, ok)
	assert.NotNil(t, old.RevokedAt)
	assert.Equal(t, "10.0.0.9", old.RevokedByIP)
	assert.Equal(t, rotated.RefreshToken, old.ReplacedByToken)

	// The replacement is live and attributed to the rotating caller.
	next, ok := f.tokens.Token(rotated.RefreshToken)
	require.True(t, ok)
	assert.True(t, next.IsActive())
	assert.Equal(t, "10.0.0.9", next.CreatedByIP)
}

func TestRefreshRejectsReplayedToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, registered.RefreshToken, "10.0.0.1")
	require.NoError(t, err)

	// Presenting the already-rotated token again is replay, whether the
	// caller tries to refresh it or revoke it.
	_, err = f.svc.Refresh(ctx, registered.RefreshToken, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))

	err = f.svc.Logout(ctx, registered.RefreshToken, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))

	// The chain still works forward.
	_, err = f.svc.Refresh(ctx, rotated.RefreshToken, "10.0.0.1")
	assert.NoError(t, err)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	// Force the stored record past its lifetime.
	rt, ok := f.tokens.Token(registered.RefreshToken)
	require.True(t, ok)
	rt.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.tokens.Create(ctx, &rt))

	_, err = f.svc.Refresh(ctx, registered.RefreshToken, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))
}

func TestRefreshRejectsMalformedToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "short", "not hex at all"} {
		_, err := f.svc.Refresh(ctx, tok, "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, "error_invalid_token", errCode(t, err), "token %q", tok)
	}
}

func TestConcurrentRefreshHasSingleWinner(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Refresh(ctx, registered.RefreshToken, "10.0.0.1")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, "error_invalid_token", errCode(t, err))
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent rotation may win")
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, "alice", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, registered.RefreshToken, "10.0.0.5"))

	rt, ok := f.tokens.Token(registered.RefreshToken)
	require.True(t, ok)
	assert.NotNil(t, rt.RevokedAt)
	assert.Equal(t, "10.0.0.5", rt.RevokedByIP)
	assert.Empty(t, rt.ReplacedByToken, "plain revocation has no replacement")

	// A revoked token cannot be refreshed or logged out again.
	_, err = f.svc.Refresh(ctx, registered.RefreshToken, "10.0.0.5")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))

	err = f.svc.Logout(ctx, registered.RefreshToken, "10.0.0.5")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))
}

func TestLogoutRejectsUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	unknown, err := token.NewRefreshValue()
	require.NoError(t, err)

	err = f.svc.Logout(context.Background(), unknown, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_token", errCode(t, err))
}
