package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

func newTeamFixture(t *testing.T) (*TeamService, *store.MemoryTeamStore) {
	t.Helper()
	teams := store.NewMemoryTeamStore()
	return NewTeamService(teams), teams
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Username: "alice"}
}

func testAdmin() *models.User {
	return &models.User{ID: uuid.New(), Username: "root", IsAdmin: true}
}

// loadTeam fetches the stored record the way the route middleware would,
// with members attached.
func loadTeam(t *testing.T, teams *store.MemoryTeamStore, id uuid.UUID) *models.Team {
	t.Helper()
	team, err := teams.FindByID(context.Background(), id)
	require.NoError(t, err)
	return team
}

func TestTeamCreate(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "WreckTheLine")
	require.NoError(t, err)
	assert.Equal(t, "wrecktheline", created.Name, "team names are stored lower-cased")
	assert.Equal(t, owner.ID, created.OwnerID)

	stored := loadTeam(t, teams, created.ID)
	assert.Equal(t, "wrecktheline", stored.Name)
}

func TestTeamCreateDuplicateName(t *testing.T) {
	svc, _ := newTeamFixture(t)

	_, err := svc.Create(context.Background(), testUser(), "WreckTheLine")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testUser(), "wreckTHEline")
	require.Error(t, err)
	assert.Equal(t, "error_team_exists", errCode(t, err))
}

func TestTeamGetRequiresMembership(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	_, err = svc.Get(context.Background(), owner, team)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), testUser(), team)
	require.Error(t, err)
	assert.Equal(t, "error_invalid_permissions", errCode(t, err))

	_, err = svc.Get(context.Background(), testAdmin(), team)
	assert.NoError(t, err, "admins bypass membership checks")
}

func TestTeamUpdateOwnerOnly(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	socials := models.TeamSocials{Twitter: "squad_ctf", Website: "https://squad.example"}
	updated, err := svc.Update(context.Background(), owner, team, &dto.UpdateTeamRequest{Socials: &socials})
	require.NoError(t, err)
	assert.Equal(t, socials, updated.Socials)

	_, err = svc.Update(context.Background(), testUser(), loadTeam(t, teams, created.ID), &dto.UpdateTeamRequest{Socials: &socials})
	require.Error(t, err)
	assert.Equal(t, "error_invalid_permissions", errCode(t, err))
}

func TestTeamDelete(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	err = svc.Delete(context.Background(), testUser(), team)
	require.Error(t, err)
	assert.Equal(t, "error_invalid_permissions", errCode(t, err))

	require.NoError(t, svc.Delete(context.Background(), owner, team))

	_, err = teams.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInviteLifecycle(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()
	joiner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	invite, err := svc.CreateInvite(context.Background(), owner, team, &dto.CreateInviteRequest{})
	require.NoError(t, err)
	assert.Len(t, invite.Code, 6)
	assert.Equal(t, created.ID, invite.TeamID)

	// Anonymous preview exposes only the code and team name.
	preview, err := svc.GetInvite(context.Background(), nil, invite.Code)
	require.NoError(t, err)
	public, ok := preview.(*dto.PublicInviteResponse)
	require.True(t, ok)
	assert.Equal(t, "squad", public.TeamName)

	joined, err := svc.UseInvite(context.Background(), joiner, invite.Code)
	require.NoError(t, err)
	require.Len(t, joined.Members, 1)
	assert.Equal(t, joiner.ID, joined.Members[0].ID)

	// Redeeming twice is a conflict.
	_, err = svc.UseInvite(context.Background(), joiner, invite.Code)
	require.Error(t, err)
	assert.Equal(t, "error_already_in_team", errCode(t, err))
}

func TestInviteCreateRequiresOwner(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	_, err = svc.CreateInvite(context.Background(), testUser(), team, &dto.CreateInviteRequest{})
	require.Error(t, err)
	assert.Equal(t, "error_invalid_permissions", errCode(t, err))
}

func TestInviteExpiryAndUses(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	past := time.Now().Add(-time.Minute)
	expired, err := svc.CreateInvite(context.Background(), owner, team, &dto.CreateInviteRequest{ExpiresAt: &past})
	require.NoError(t, err)

	_, err = svc.UseInvite(context.Background(), testUser(), expired.Code)
	require.Error(t, err)
	assert.Equal(t, "error_invite_not_usable", errCode(t, err))

	limited, err := svc.CreateInvite(context.Background(), owner, team, &dto.CreateInviteRequest{MaxUses: 1})
	require.NoError(t, err)

	_, err = svc.UseInvite(context.Background(), testUser(), limited.Code)
	require.NoError(t, err)

	_, err = svc.UseInvite(context.Background(), testUser(), limited.Code)
	require.Error(t, err)
	assert.Equal(t, "error_invite_not_usable", errCode(t, err))
}

func TestInviteConcurrentRedeemSingleWinner(t *testing.T) {
	svc, teams := newTeamFixture(t)
	owner := testUser()

	created, err := svc.Create(context.Background(), owner, "squad")
	require.NoError(t, err)
	team := loadTeam(t, teams, created.ID)

	limited, err := svc.CreateInvite(context.Background(), owner, team, &dto.CreateInviteRequest{MaxUses: 1})
	require.NoError(t, err)

	const redeemers = 8
	errs := make([]error, redeemers)
	var wg sync.WaitGroup
	for i := 0; i < redeemers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UseInvite(context.Background(), testUser(), limited.Code)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.Equal(t, "error_invite_not_usable", errCode(t, err))
		}
	}
	assert.Equal(t, 1, wins, "a one-use invite admits exactly one redeemer")

	joined := loadTeam(t, teams, created.ID)
	assert.Len(t, joined.Members, 1)
}

func TestInviteUnknownCode(t *testing.T) {
	svc, _ := newTeamFixture(t)

	_, err := svc.GetInvite(context.Background(), testUser(), "abc123")
	require.Error(t, err)
	assert.Equal(t, "error_invite_not_found", errCode(t, err))

	_, err = svc.UseInvite(context.Background(), testUser(), "abc123")
	require.Error(t, err)
	assert.Equal(t, "error_invite_not_found", errCode(t, err))
}
