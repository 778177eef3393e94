package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTeamIsOwner(t *testing.T) {
	owner := User{ID: uuid.New()}
	stranger := User{ID: uuid.New()}
	team := Team{ID: uuid.New(), OwnerID: owner.ID}

	assert.True(t, team.IsOwner(&owner))
	assert.False(t, team.IsOwner(&stranger))
	assert.False(t, team.IsOwner(nil))
}

func TestTeamInTeam(t *testing.T) {
	owner := User{ID: uuid.New()}
	member := User{ID: uuid.New()}
	stranger := User{ID: uuid.New()}
	team := Team{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Members: []User{member},
	}

	assert.True(t, team.InTeam(&owner), "owner counts as in the team")
	assert.True(t, team.InTeam(&member))
	assert.False(t, team.InTeam(&stranger))
	assert.False(t, team.InTeam(nil))
}

func TestTeamInviteIsUsable(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name   string
		invite TeamInvite
		want   bool
	}{
		{"no limits", TeamInvite{}, true},
		{"future expiry", TeamInvite{ExpiresAt: &future}, true},
		{"expired", TeamInvite{ExpiresAt: &past}, false},
		{"uses remaining", TeamInvite{MaxUses: 2, Uses: []User{{ID: uuid.New()}}}, true},
		{"uses exhausted", TeamInvite{MaxUses: 1, Uses: []User{{ID: uuid.New()}}}, false},
		{"zero max uses is unlimited", TeamInvite{MaxUses: 0, Uses: []User{{ID: uuid.New()}, {ID: uuid.New()}}}, true},
		{"expired beats remaining uses", TeamInvite{ExpiresAt: &past, MaxUses: 5}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.invite.IsUsable())
		})
	}
}
