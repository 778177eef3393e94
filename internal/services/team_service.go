package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
	"gorm.io/datatypes"
)

type TeamService struct {
	teams store.TeamStore
}

func NewTeamService(teams store.TeamStore) *TeamService {
	return &TeamService{teams: teams}
}

func (s *TeamService) Create(ctx context.Context, actor *models.User, teamName string) (*dto.TeamResponse, error) {
	normalized := strings.ToLower(teamName)

	if _, err := s.teams.FindByName(ctx, normalized); err == nil {
		return nil, ErrTeamExists
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("team lookup failed during create", "error", err)
		return nil, apperr.Internal()
	}

	team := models.Team{
		Name:    normalized,
		OwnerID: actor.ID,
	}
	if err := s.teams.Create(ctx, &team); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		slog.Error("failed to create team", "error", err)
		return nil, apperr.Internal()
	}

	return teamView(&team), nil
}

func (s *TeamService) Get(ctx context.Context, actor *models.User, team *models.Team) (*dto.TeamResponse, error) {
	if err := requireTeamMember(actor, team); err != nil {
		return nil, err
	}
	return teamView(team), nil
}

func (s *TeamService) Update(ctx context.Context, actor *models.User, team *models.Team, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	if err := requireTeamOwner(actor, team); err != nil {
		return nil, err
	}

	if req.Socials != nil {
		team.Socials = datatypes.NewJSONType(*req.Socials)
	}

	if err := s.teams.Save(ctx, team); err != nil {
		slog.Error("failed to save team", "error", err)
		return nil, apperr.Internal()
	}
	return teamView(team), nil
}

func (s *TeamService) Delete(ctx context.Context, actor *models.User, team *models.Team) error {
	if err := requireTeamOwner(actor, team); err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, team); err != nil {
		slog.Error("failed to delete team", "error", err)
		return apperr.Internal()
	}
	return nil
}

// CreateInvite mints a short shareable code. Owner or admin only.
func (s *TeamService) CreateInvite(ctx context.Context, actor *models.User, team *models.Team, req *dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	if err := requireTeamOwner(actor, team); err != nil {
		return nil, err
	}

	code, err := newInviteCode()
	if err != nil {
		slog.Error("invite code generation failed", "error", err)
		return nil, apperr.Internal()
	}

	invite := models.TeamInvite{
		TeamID:      team.ID,
		Code:        code,
		ExpiresAt:   req.ExpiresAt,
		MaxUses:     req.MaxUses,
		CreatedByID: actor.ID,
	}
	if err := s.teams.CreateInvite(ctx, &invite); err != nil {
		slog.Error("failed to create invite", "error", err)
		return nil, apperr.Internal()
	}

	invite.Team = *team
	return inviteView(&invite), nil
}

// GetInvite resolves an invite code. Anonymous callers get a reduced view
// so an invite link can be previewed before logging in.
func (s *TeamService) GetInvite(ctx context.Context, actor *models.User, code string) (interface{}, error) {
	invite, err := s.findInvite(ctx, code)
	if err != nil {
		return nil, err
	}

	if actor == nil {
		return &dto.PublicInviteResponse{Code: invite.Code, TeamName: invite.Team.Name}, nil
	}
	return inviteView(invite), nil
}

// UseInvite redeems a code and joins the actor to the team.
func (s *TeamService) UseInvite(ctx context.Context, actor *models.User, code string) (*dto.TeamResponse, error) {
	invite, err := s.findInvite(ctx, code)
	if err != nil {
		return nil, err
	}

	if !invite.IsUsable() {
		return nil, ErrInviteNotUsable
	}
	if invite.Team.InTeam(actor) {
		return nil, ErrAlreadyInTeam
	}

	if err := s.teams.UseInvite(ctx, invite, actor); err != nil {
		// The store re-checks usability atomically; a concurrent redeem
		// may have consumed the last use after our snapshot above.
		if errors.Is(err, store.ErrInviteNotUsable) {
			return nil, ErrInviteNotUsable
		}
		slog.Error("failed to use invite", "error", err)
		return nil, apperr.Internal()
	}

	team, err := s.teams.FindByID(ctx, invite.TeamID)
	if err != nil {
		slog.Error("team lookup failed after invite use", "error", err)
		return nil, apperr.Internal()
	}
	return teamView(team), nil
}

func (s *TeamService) findInvite(ctx context.Context, code string) (*models.TeamInvite, error) {
	invite, err := s.teams.FindInvite(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		slog.Error("invite lookup failed", "error", err)
		return nil, apperr.Internal()
	}
	return invite, nil
}

// newInviteCode returns 3 random bytes hex-encoded: a 6-character code.
func newInviteCode() (string, error) {
	raw := make([]byte, 3)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func teamView(team *models.Team) *dto.TeamResponse {
	resp := &dto.TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Socials: team.Socials.Data(),
	}
	for i := range team.Members {
		resp.Members = append(resp.Members, SanitizeUser(&team.Members[i]))
	}
	return resp
}

func inviteView(invite *models.TeamInvite) *dto.InviteResponse {
	return &dto.InviteResponse{
		Code:      invite.Code,
		TeamID:    invite.TeamID,
		TeamName:  invite.Team.Name,
		CreatedBy: invite.CreatedByID,
		ExpiresAt: invite.ExpiresAt,
		MaxUses:   invite.MaxUses,
		Uses:      len(invite.Uses),
	}
}
