package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/models"
)

// In-process store implementations backing the test suite. They mirror the
// semantics of the SQL stores, including the compare-and-set revocation that
// makes concurrent rotation race safely.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// --- users ---

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]models.User)}
}

func (m *MemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u
	return &user, nil
}

func (m *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}
	ensureID(&user.ID)
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryUserStore) Save(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username && u.ID != user.ID {
			return ErrDuplicate
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryUserStore) Delete(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, user.ID)
	return nil
}

// --- refresh tokens ---

type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[string]models.RefreshToken)}
}

func (m *MemoryRefreshTokenStore) Active(_ context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok || !rt.IsActive() {
		return nil, ErrTokenNotActive
	}
	out := rt
	return &out, nil
}

func (m *MemoryRefreshTokenStore) Create(_ context.Context, rt *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&rt.ID)
	rt.CreatedAt = time.Now()
	m.tokens[rt.Token] = *rt
	return nil
}

func (m *MemoryRefreshTokenStore) revokeLocked(tokenValue, ip, replacedBy string) error {
	rt, ok := m.tokens[tokenValue]
	if !ok || !rt.IsActive() {
		return ErrTokenNotActive
	}
	now := time.Now()
	rt.RevokedAt = &now
	rt.RevokedByIP = ip
	rt.ReplacedByToken = replacedBy
	m.tokens[tokenValue] = rt
	return nil
}

func (m *MemoryRefreshTokenStore) Revoke(_ context.Context, tokenValue, ip, replacedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revokeLocked(tokenValue, ip, replacedBy)
}

func (m *MemoryRefreshTokenStore) Rotate(_ context.Context, oldValue string, next *models.RefreshToken, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.revokeLocked(oldValue, ip, next.Token); err != nil {
		return err
	}
	ensureID(&next.ID)
	next.CreatedAt = time.Now()
	m.tokens[next.Token] = *next
	return nil
}

func (m *MemoryRefreshTokenStore) RevokeAllForUser(_ context.Context, userID uuid.UUID, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for value, rt := range m.tokens {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &now
			rt.RevokedByIP = ip
			m.tokens[value] = rt
		}
	}
	return nil
}

// Token returns the stored record regardless of state. Test helper.
func (m *MemoryRefreshTokenStore) Token(value string) (models.RefreshToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[value]
	return rt, ok
}

// --- teams and invites ---

type MemoryTeamStore struct {
	mu      sync.Mutex
	teams   map[uuid.UUID]models.Team
	invites map[string]models.TeamInvite
}

func NewMemoryTeamStore() *MemoryTeamStore {
	return &MemoryTeamStore{
		teams:   make(map[uuid.UUID]models.Team),
		invites: make(map[string]models.TeamInvite),
	}
}

func (m *MemoryTeamStore) FindByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	team := t
	return &team, nil
}

func (m *MemoryTeamStore) FindByName(_ context.Context, name string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.Name == name {
			team := t
			return &team, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryTeamStore) Create(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.Name == team.Name {
			return ErrDuplicate
		}
	}
	ensureID(&team.ID)
	team.CreatedAt = time.Now()
	m.teams[team.ID] = *team
	return nil
}

func (m *MemoryTeamStore) Save(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[team.ID] = *team
	return nil
}

func (m *MemoryTeamStore) Delete(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.teams, team.ID)
	for code, inv := range m.invites {
		if inv.TeamID == team.ID {
			delete(m.invites, code)
		}
	}
	return nil
}

func (m *MemoryTeamStore) CountOwnedBy(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, t := range m.teams {
		if t.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryTeamStore) CreateInvite(_ context.Context, invite *models.TeamInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invites[invite.Code]; ok {
		return ErrDuplicate
	}
	ensureID(&invite.ID)
	invite.CreatedAt = time.Now()
	m.invites[invite.Code] = *invite
	return nil
}

func (m *MemoryTeamStore) FindInvite(_ context.Context, code string) (*models.TeamInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[code]
	if !ok {
		return nil, ErrNotFound
	}
	if team, teamOK := m.teams[inv.TeamID]; teamOK {
		inv.Team = team
	}
	invite := inv
	return &invite, nil
}

func (m *MemoryTeamStore) UseInvite(_ context.Context, invite *models.TeamInvite, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[invite.Code]
	if !ok {
		return ErrNotFound
	}
	// Re-checked under the lock, matching the SQL store's locked re-check,
	// so concurrent redeems of a one-use invite have a single winner.
	if !inv.IsUsable() {
		return ErrInviteNotUsable
	}
	inv.Uses = append(inv.Uses, *user)
	m.invites[invite.Code] = inv

	team, ok := m.teams[inv.TeamID]
	if !ok {
		return ErrNotFound
	}
	team.Members = append(team.Members, *user)
	m.teams[team.ID] = team
	return nil
}

// --- CTFs ---

type MemoryCTFStore struct {
	mu   sync.Mutex
	ctfs map[uuid.UUID]models.CTF
}

func NewMemoryCTFStore() *MemoryCTFStore {
	return &MemoryCTFStore{ctfs: make(map[uuid.UUID]models.CTF)}
}

func (m *MemoryCTFStore) FindByID(_ context.Context, id uuid.UUID) (*models.CTF, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.ctfs[id]
	if !ok {
		return nil, ErrNotFound
	}
	ctf := c
	return &ctf, nil
}

func (m *MemoryCTFStore) ListByTeam(_ context.Context, teamID uuid.UUID, includeArchived bool) ([]models.CTF, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CTF
	for _, c := range m.ctfs {
		if c.TeamID != teamID {
			continue
		}
		if c.Archived && !includeArchived {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryCTFStore) Create(_ context.Context, ctf *models.CTF) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&ctf.ID)
	ctf.CreatedAt = time.Now()
	m.ctfs[ctf.ID] = *ctf
	return nil
}

func (m *MemoryCTFStore) Save(_ context.Context, ctf *models.CTF) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctfs[ctf.ID] = *ctf
	return nil
}

// --- challenges ---

type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]models.Challenge
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{challenges: make(map[uuid.UUID]models.Challenge)}
}

func (m *MemoryChallengeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	challenge := ch
	return &challenge, nil
}

func (m *MemoryChallengeStore) Create(_ context.Context, challenge *models.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&challenge.ID)
	challenge.CreatedAt = time.Now()
	m.challenges[challenge.ID] = *challenge
	return nil
}

func (m *MemoryChallengeStore) Save(_ context.Context, challenge *models.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[challenge.ID] = *challenge
	return nil
}
