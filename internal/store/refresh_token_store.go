package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flagforge/flagforge-backend/internal/models"
)

type GormRefreshTokenStore struct {
	db *gorm.DB
}

func NewGormRefreshTokenStore(db *gorm.DB) *GormRefreshTokenStore {
	return &GormRefreshTokenStore{db: db}
}

func (s *GormRefreshTokenStore) Active(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotActive
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if !rt.IsActive() {
		return nil, ErrTokenNotActive
	}
	return &rt, nil
}

func (s *GormRefreshTokenStore) Create(ctx context.Context, rt *models.RefreshToken) error {
	if err := s.db.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// revoke flips the token to revoked only while it is still active. The
// conditional WHERE makes concurrent revocations race safely: exactly one
// caller observes RowsAffected == 1.
func (s *GormRefreshTokenStore) revoke(tx *gorm.DB, tokenValue, ip, replacedBy string) error {
	now := time.Now()
	res := tx.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL AND expires_at > ?", tokenValue, now).
		Updates(map[string]interface{}{
			"revoked_at":        now,
			"revoked_by_ip":     ip,
			"replaced_by_token": replacedBy,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotActive
	}
	return nil
}

func (s *GormRefreshTokenStore) Revoke(ctx context.Context, tokenValue, ip, replacedBy string) error {
	return s.revoke(s.db.WithContext(ctx), tokenValue, ip, replacedBy)
}

// Rotate revokes the old token and persists its replacement in a single
// transaction. The conditional revoke is the atomicity guard: if two callers
// rotate the same token concurrently, the loser's update matches zero rows
// and its transaction rolls back without creating a new token.
func (s *GormRefreshTokenStore) Rotate(ctx context.Context, oldValue string, next *models.RefreshToken, ip string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.revoke(tx, oldValue, ip, next.Token); err != nil {
			return err
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("failed to store rotated refresh token: %w", err)
		}
		return nil
	})
}

func (s *GormRefreshTokenStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, ip string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{
			"revoked_at":    now,
			"revoked_by_ip": ip,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return nil
}
