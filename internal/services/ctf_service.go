package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flagforge/flagforge-backend/internal/apperr"
	"github.com/flagforge/flagforge-backend/internal/models"
	"github.com/flagforge/flagforge-backend/internal/store"
)

type CTFService struct {
	ctfs    store.CTFStore
	notepad NotepadCreator
}

func NewCTFService(ctfs store.CTFStore, notepad NotepadCreator) *CTFService {
	return &CTFService{ctfs: ctfs, notepad: notepad}
}

// Create makes the external notepad first; if that fails, nothing is
// persisted, so there is never a CTF record without its pad.
func (s *CTFService) Create(ctx context.Context, actor *models.User, team *models.Team, name string) (*models.CTF, error) {
	if err := requireTeamMember(actor, team); err != nil {
		return nil, err
	}

	notepad, err := s.notepad.CreateNote(ctx, name)
	if err != nil {
		slog.Warn("notepad creation failed", "error", err)
		return nil, apperr.Internal()
	}

	ctf := models.CTF{
		TeamID:  team.ID,
		Name:    name,
		Notepad: notepad,
	}
	if err := s.ctfs.Create(ctx, &ctf); err != nil {
		slog.Error("failed to create CTF", "error", err)
		return nil, apperr.Internal()
	}
	return &ctf, nil
}

func (s *CTFService) List(ctx context.Context, actor *models.User, team *models.Team, includeArchived bool) ([]models.CTF, error) {
	if err := requireTeamMember(actor, team); err != nil {
		return nil, err
	}

	ctfs, err := s.ctfs.ListByTeam(ctx, team.ID, includeArchived)
	if err != nil {
		slog.Error("failed to list CTFs", "error", err)
		return nil, apperr.Internal()
	}
	return ctfs, nil
}

func (s *CTFService) Get(ctx context.Context, actor *models.User, team *models.Team, ctfID uuid.UUID) (*models.CTF, error) {
	if err := requireTeamMember(actor, team); err != nil {
		return nil, err
	}
	return s.find(ctx, team, ctfID)
}

// SetArchived flips the archive flag. Member or admin, like every other
// CTF mutation.
func (s *CTFService) SetArchived(ctx context.Context, actor *models.User, team *models.Team, ctfID uuid.UUID, archived bool) (*models.CTF, error) {
	if err := requireTeamMember(actor, team); err != nil {
		return nil, err
	}

	ctf, err := s.find(ctx, team, ctfID)
	if err != nil {
		return nil, err
	}

	ctf.Archived = archived
	if err := s.ctfs.Save(ctx, ctf); err != nil {
		slog.Error("failed to save CTF", "error", err)
		return nil, apperr.Internal()
	}
	return ctf, nil
}

// find resolves a CTF and confirms it belongs to the team the caller was
// authorized against. A CTF from another team is reported as not found,
// not as forbidden.
func (s *CTFService) find(ctx context.Context, team *models.Team, ctfID uuid.UUID) (*models.CTF, error) {
	ctf, err := s.ctfs.FindByID(ctx, ctfID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCTFNotFound
		}
		slog.Error("CTF lookup failed", "error", err)
		return nil, apperr.Internal()
	}
	if ctf.TeamID != team.ID {
		return nil, ErrCTFNotFound
	}
	return ctf, nil
}
