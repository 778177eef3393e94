package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

// fakeNotepad satisfies NotepadCreator without a network round-trip.
type fakeNotepad struct {
	pad   string
	err   error
	calls int
}

func (f *fakeNotepad) CreateNote(_ context.Context, title string) (string, error) {
	f.calls++
	return f.pad, f.err
}

func (f *fakeNotepad) CreateChallengeNote(_ context.Context, title string, points int) (string, error) {
	f.calls++
	return f.pad, f.err
}

func memberTeam(owner *models.User) *models.Team {
	return &models.Team{ID: uuid.New(), Name: "squad", OwnerID: owner.ID}
}

func TestCTFCreate(t *testing.T) {
	ctfs := store.NewMemoryCTFStore()
	notepad := &fakeNotepad{pad: "padpath"}
	svc := NewCTFService(ctfs, notepad)
	owner := testUser()
	team := memberTeam(owner)

	ctf, err := svc.Create(context.Background(), owner, team, "DefCamp Quals")
	require.NoError(t, err)
	assert.Equal(t, "DefCamp Quals", ctf.Name)
	assert.Equal(t, "padpath", ctf.Notepad)
	assert.Equal(t, team.ID, ctf.TeamID)
	assert.False(t, ctf.Archived)

	stored, err := ctfs.FindByID(context.Background(), ctf.ID)
	require.NoError(t, err)
	assert.Equal(t, "padpath", stored.Notepad)
}

func TestCTFCreateNotepadFailureLeavesNothing(t *testing.T) {
	ctfs := store.NewMemoryCTFStore()
	notepad := &fakeNotepad{err: errors.New("pad service down")}
	svc := NewCTFService(ctfs, notepad)
	owner := testUser()
	team := memberTeam(owner)

	_, err := svc.Create(context.Background(), owner, team, "DefCamp Quals")
	require.Error(t, err)

	listed, err := ctfs.ListByTeam(context.Background(), team.ID, true)
	require.NoError(t, err)
	assert.Empty(t, listed, "a failed notepad call must not leave a record behind")
}

func TestCTFCreateRequiresMembership(t *testing.T) {
	svc := NewCTFService(store.NewMemoryCTFStore(), &fakeNotepad{pad: "p"})
	team := memberTeam(testUser())

	_, err := svc.Create(context.Background(), testUser(), team, "quals")
	require.Error(t, err)
	assert.Equal(t, "error_invalid_permissions", errCode(t, err))

	_, err = svc.Create(context.Background(), testAdmin(), team, "quals")
	assert.NoError(t, err, "admins bypass membership checks")
}

func TestCTFListFiltersArchived(t *testing.T) {
	ctfs := store.NewMemoryCTFStore()
	svc := NewCTFService(ctfs, &fakeNotepad{pad: "p"})
	owner := testUser()
	team := memberTeam(owner)

	active, err := svc.Create(context.Background(), owner, team, "active")
	require.NoError(t, err)
	archived, err := svc.Create(context.Background(), owner, team, "old")
	require.NoError(t, err)
	_, err = svc.SetArchived(context.Background(), owner, team, archived.ID, true)
	require.NoError(t, err)

	visible, err := svc.List(context.Background(), owner, team, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := svc.List(context.Background(), owner, team, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCTFArchiveRoundtrip(t *testing.T) {
	ctfs := store.NewMemoryCTFStore()
	svc := NewCTFService(ctfs, &fakeNotepad{pad: "p"})
	owner := testUser()
	team := memberTeam(owner)

	ctf, err := svc.Create(context.Background(), owner, team, "quals")
	require.NoError(t, err)

	archived, err := svc.SetArchived(context.Background(), owner, team, ctf.ID, true)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	restored, err := svc.SetArchived(context.Background(), owner, team, ctf.ID, false)
	require.NoError(t, err)
	assert.False(t, restored.Archived)
}

func TestCTFCrossTeamIsNotFound(t *testing.T) {
	ctfs := store.NewMemoryCTFStore()
	svc := NewCTFService(ctfs, &fakeNotepad{pad: "p"})
	owner := testUser()
	team := memberTeam(owner)

	ctf, err := svc.Create(context.Background(), owner, team, "quals")
	require.NoError(t, err)

	otherOwner := testUser()
	otherTeam := memberTeam(otherOwner)
	_, err = svc.Get(context.Background(), otherOwner, otherTeam, ctf.ID)
	require.Error(t, err)
	assert.Equal(t, "error_ctf_not_found", errCode(t, err),
		"another team's CTF reads as missing, not forbidden")
}

func TestChallengeCreateAndUpdate(t *testing.T) {
	challenges := store.NewMemoryChallengeStore()
	notepad := &fakeNotepad{pad: "chalpad"}
	svc := NewChallengeService(challenges, notepad)
	owner := testUser()
	team := memberTeam(owner)
	ctf := &models.CTF{ID: uuid.New(), TeamID: team.ID, Name: "quals"}

	challenge, err := svc.Create(context.Background(), owner, team, ctf, &dto.CreateChallengeRequest{Name: "pwn1", Points: 500})
	require.NoError(t, err)
	assert.Equal(t, "pwn1", challenge.Name)
	assert.Equal(t, 500, challenge.Points)
	assert.Equal(t, "chalpad", challenge.Notepad)
	assert.False(t, challenge.Solved)

	solved := true
	updated, err := svc.Update(context.Background(), owner, team, ctf, challenge.ID, &dto.UpdateChallengeRequest{Solved: &solved})
	require.NoError(t, err)
	assert.True(t, updated.Solved)

	fetched, err := svc.Get(context.Background(), owner, team, ctf, challenge.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Solved)
}

func TestChallengeNotepadFailureLeavesNothing(t *testing.T) {
	challenges := store.NewMemoryChallengeStore()
	svc := NewChallengeService(challenges, &fakeNotepad{err: errors.New("pad service down")})
	owner := testUser()
	team := memberTeam(owner)
	ctf := &models.CTF{ID: uuid.New(), TeamID: team.ID}

	challenge, err := svc.Create(context.Background(), owner, team, ctf, &dto.CreateChallengeRequest{Name: "pwn1", Points: 100})
	require.Error(t, err)
	assert.Nil(t, challenge)
}

func TestChallengeCrossTeamCTFIsNotFound(t *testing.T) {
	challenges := store.NewMemoryChallengeStore()
	svc := NewChallengeService(challenges, &fakeNotepad{pad: "p"})

	victim := testUser()
	victimTeam := memberTeam(victim)
	victimCTF := &models.CTF{ID: uuid.New(), TeamID: victimTeam.ID}
	secret, err := svc.Create(context.Background(), victim, victimTeam, victimCTF, &dto.CreateChallengeRequest{Name: "pwn1", Points: 500})
	require.NoError(t, err)

	// A member of an unrelated team presents the victim's CTF under their
	// own team scope. Every operation must refuse.
	attacker := testUser()
	attackerTeam := memberTeam(attacker)

	_, err = svc.Get(context.Background(), attacker, attackerTeam, victimCTF, secret.ID)
	require.Error(t, err)
	assert.Equal(t, "error_ctf_not_found", errCode(t, err))

	solved := true
	_, err = svc.Update(context.Background(), attacker, attackerTeam, victimCTF, secret.ID, &dto.UpdateChallengeRequest{Solved: &solved})
	require.Error(t, err)
	assert.Equal(t, "error_ctf_not_found", errCode(t, err))

	_, err = svc.Create(context.Background(), attacker, attackerTeam, victimCTF, &dto.CreateChallengeRequest{Name: "planted", Points: 1})
	require.Error(t, err)
	assert.Equal(t, "error_ctf_not_found", errCode(t, err))

	fetched, err := svc.Get(context.Background(), victim, victimTeam, victimCTF, secret.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Solved, "the foreign update must not have landed")
}

func TestChallengeCrossCTFIsNotFound(t *testing.T) {
	challenges := store.NewMemoryChallengeStore()
	svc := NewChallengeService(challenges, &fakeNotepad{pad: "p"})
	owner := testUser()
	team := memberTeam(owner)
	ctf := &models.CTF{ID: uuid.New(), TeamID: team.ID}
	other := &models.CTF{ID: uuid.New(), TeamID: team.ID}

	challenge, err := svc.Create(context.Background(), owner, team, ctf, &dto.CreateChallengeRequest{Name: "pwn1", Points: 100})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), owner, team, other, challenge.ID)
	require.Error(t, err)
	assert.Equal(t, "error_challenge_not_found", errCode(t, err))
}
