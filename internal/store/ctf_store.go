package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flagforge/flagforge-backend/internal/models"
)

type GormCTFStore struct {
	db *gorm.DB
}

func NewGormCTFStore(db *gorm.DB) *GormCTFStore {
	return &GormCTFStore{db: db}
}

func (s *GormCTFStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CTF, error) {
	var ctf models.CTF
	err := s.db.WithContext(ctx).Preload("Challenges").First(&ctf, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find CTF: %w", err)
	}
	return &ctf, nil
}

func (s *GormCTFStore) ListByTeam(ctx context.Context, teamID uuid.UUID, includeArchived bool) ([]models.CTF, error) {
	q := s.db.WithContext(ctx).Where("team_id = ?", teamID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	var ctfs []models.CTF
	if err := q.Order("created_at DESC").Find(&ctfs).Error; err != nil {
		return nil, fmt.Errorf("failed to list CTFs: %w", err)
	}
	return ctfs, nil
}

func (s *GormCTFStore) Create(ctx context.Context, ctf *models.CTF) error {
	if err := s.db.WithContext(ctx).Create(ctf).Error; err != nil {
		return fmt.Errorf("failed to create CTF: %w", err)
	}
	return nil
}

func (s *GormCTFStore) Save(ctx context.Context, ctf *models.CTF) error {
	if err := s.db.WithContext(ctx).Save(ctf).Error; err != nil {
		return fmt.Errorf("failed to save CTF: %w", err)
	}
	return nil
}

type GormChallengeStore struct {
	db *gorm.DB
}

func NewGormChallengeStore(db *gorm.DB) *GormChallengeStore {
	return &GormChallengeStore{db: db}
}

func (s *GormChallengeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.WithContext(ctx).First(&challenge, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}
	return &challenge, nil
}

func (s *GormChallengeStore) Create(ctx context.Context, challenge *models.Challenge) error {
	if err := s.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

func (s *GormChallengeStore) Save(ctx context.Context, challenge *models.Challenge) error {
	if err := s.db.WithContext(ctx).Save(challenge).Error; err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}
	return nil
}
