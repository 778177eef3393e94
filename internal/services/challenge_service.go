package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/dto"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

type ChallengeService struct {
	challenges store.ChallengeStore
	notepad    NotepadCreator
}

func NewChallengeService(challenges store.ChallengeStore, notepad NotepadCreator) *ChallengeService {
	return &ChallengeService{challenges: challenges, notepad: notepad}
}

// Create adds a challenge to a CTF. The notepad (including the points
// table) is created before anything is persisted.
func (s *ChallengeService) Create(ctx context.Context, actor *models.User, team *models.Team, ctf *models.CTF, req *dto.CreateChallengeRequest) (*models.Challenge, error) {
	if err := s.authorize(actor, team, ctf); err != nil {
		return nil, err
	}

	notepad, err := s.notepad.CreateChallengeNote(ctx, req.Name, req.Points)
	if err != nil {
		slog.Warn("challenge notepad creation failed", "error", err)
		return nil, apperr.Internal()
	}

	challenge := models.Challenge{
		CTFID:   ctf.ID,
		Name:    req.Name,
		Notepad: notepad,
		Points:  req.Points,
	}
	if err := s.challenges.Create(ctx, &challenge); err != nil {
		slog.Error("failed to create challenge", "error", err)
		return nil, apperr.Internal()
	}
	return &challenge, nil
}

func (s *ChallengeService) Get(ctx context.Context, actor *models.User, team *models.Team, ctf *models.CTF, challengeID uuid.UUID) (*models.Challenge, error) {
	if err := s.authorize(actor, team, ctf); err != nil {
		return nil, err
	}
	return s.find(ctx, ctf, challengeID)
}

func (s *ChallengeService) Update(ctx context.Context, actor *models.User, team *models.Team, ctf *models.CTF, challengeID uuid.UUID, req *dto.UpdateChallengeRequest) (*models.Challenge, error) {
	if err := s.authorize(actor, team, ctf); err != nil {
		return nil, err
	}

	challenge, err := s.find(ctx, ctf, challengeID)
	if err != nil {
		return nil, err
	}

	if req.Solved != nil {
		challenge.Solved = *req.Solved
	}
	if err := s.challenges.Save(ctx, challenge); err != nil {
		slog.Error("failed to save challenge", "error", err)
		return nil, apperr.Internal()
	}
	return challenge, nil
}

// authorize checks membership of the team the route was scoped to and then
// confirms the CTF actually belongs to that team. Without the second check a
// member of any team could reach another team's challenges by mixing a CTF
// id into their own team's URL. A foreign CTF reads as not found.
func (s *ChallengeService) authorize(actor *models.User, team *models.Team, ctf *models.CTF) error {
	if err := requireTeamMember(actor, team); err != nil {
		return err
	}
	if ctf.TeamID != team.ID {
		return ErrCTFNotFound
	}
	return nil
}

func (s *ChallengeService) find(ctx context.Context, ctf *models.CTF, challengeID uuid.UUID) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		slog.Error("challenge lookup failed", "error", err)
		return nil, apperr.Internal()
	}
	if challenge.CTFID != ctf.ID {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}
