package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flagforge/flagforge-backend/internal/models"
)

type GormTeamStore struct {
	db *gorm.DB
}

func NewGormTeamStore(db *gorm.DB) *GormTeamStore {
	return &GormTeamStore{db: db}
}

func (s *GormTeamStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return &team, nil
}

func (s *GormTeamStore) FindByName(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find team by name: %w", err)
	}
	return &team, nil
}

func (s *GormTeamStore) Create(ctx context.Context, team *models.Team) error {
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (s *GormTeamStore) Save(ctx context.Context, team *models.Team) error {
	if err := s.db.WithContext(ctx).Omit("Members").Save(team).Error; err != nil {
		return fmt.Errorf("failed to save team: %w", err)
	}
	return nil
}

func (s *GormTeamStore) Delete(ctx context.Context, team *models.Team) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamInvite{}).Error; err != nil {
			return fmt.Errorf("failed to delete team invites: %w", err)
		}
		if err := tx.Model(team).Association("Members").Clear(); err != nil {
			return fmt.Errorf("failed to clear team members: %w", err)
		}
		if err := tx.Delete(team).Error; err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}
		return nil
	})
}

func (s *GormTeamStore) CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Team{}).Where("owner_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count owned teams: %w", err)
	}
	return count, nil
}

func (s *GormTeamStore) CreateInvite(ctx context.Context, invite *models.TeamInvite) error {
	if err := s.db.WithContext(ctx).Create(invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (s *GormTeamStore) FindInvite(ctx context.Context, code string) (*models.TeamInvite, error) {
	var invite models.TeamInvite
	err := s.db.WithContext(ctx).
		Preload("Team").Preload("Team.Members").Preload("Uses").
		Where("code = ?", code).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}
	return &invite, nil
}

func (s *GormTeamStore) UseInvite(ctx context.Context, invite *models.TeamInvite, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the invite row and re-check usability under the lock. The
		// service's pre-check reads an unlocked snapshot, so two racing
		// redeems of a one-use invite can both pass it; only one may pass
		// here.
		var current models.TeamInvite
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", invite.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock invite: %w", err)
		}
		if current.ExpiresAt != nil && !time.Now().Before(*current.ExpiresAt) {
			return ErrInviteNotUsable
		}
		if current.MaxUses > 0 {
			var uses int64
			if err := tx.Table("invite_uses").Where("team_invite_id = ?", invite.ID).Count(&uses).Error; err != nil {
				return fmt.Errorf("failed to count invite uses: %w", err)
			}
			if uses >= int64(current.MaxUses) {
				return ErrInviteNotUsable
			}
		}

		if err := tx.Model(invite).Association("Uses").Append(user); err != nil {
			return fmt.Errorf("failed to record invite use: %w", err)
		}
		if err := tx.Model(&invite.Team).Association("Members").Append(user); err != nil {
			return fmt.Errorf("failed to add team member: %w", err)
		}
		return nil
	})
}
