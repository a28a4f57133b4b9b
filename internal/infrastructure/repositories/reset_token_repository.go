package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// ResetTokenRepositoryImpl implements domain.ResetTokenRepository using
// GORM. Rotate is the only write path that touches more than one table and
// always runs inside a single transaction.
type ResetTokenRepositoryImpl struct {
	db *gorm.DB
}

// DBPasswordResetToken represents the database model for PasswordResetToken
type DBPasswordResetToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;index"`
	TokenHash string `gorm:"size:255"`
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBPasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// NewResetTokenRepository creates a new reset token repository
func NewResetTokenRepository(db *gorm.DB) domain.ResetTokenRepository {
	return &ResetTokenRepositoryImpl{db: db}
}

// Create implements domain.ResetTokenRepository
func (r *ResetTokenRepositoryImpl) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(r.domainToDB(token)).Error
}

// FindByID implements domain.ResetTokenRepository
func (r *ResetTokenRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.PasswordResetToken, error) {
	var dbToken DBPasswordResetToken
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, err
	}
	return r.dbToDomain(&dbToken), nil
}

// Rotate implements domain.ResetTokenRepository. The four steps commit or
// roll back together; a rotated password must never coexist with live
// sessions or a replayable sibling token.
func (r *ResetTokenRepositoryImpl) Rotate(ctx context.Context, userID, tokenID, newPasswordHash string, now time.Time) ([]string, error) {
	var sessionIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DBUser{}).
			Where("id = ?", userID).
			Update("password_hash", newPasswordHash).Error; err != nil {
			return err
		}

		if err := tx.Model(&DBPasswordResetToken{}).
			Where("id = ? AND used_at IS NULL", tokenID).
			Update("used_at", now).Error; err != nil {
			return err
		}

		if err := tx.Model(&DBSession{}).
			Where("user_id = ?", userID).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&DBSession{}).Error; err != nil {
			return err
		}

		return tx.Model(&DBPasswordResetToken{}).
			Where("user_id = ? AND used_at IS NULL AND id <> ?", userID, tokenID).
			Update("used_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return sessionIDs, nil
}

func (r *ResetTokenRepositoryImpl) domainToDB(token *domain.PasswordResetToken) *DBPasswordResetToken {
	return &DBPasswordResetToken{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		UsedAt:    token.UsedAt,
		CreatedAt: token.CreatedAt,
	}
}

func (r *ResetTokenRepositoryImpl) dbToDomain(dbToken *DBPasswordResetToken) *domain.PasswordResetToken {
	return &domain.PasswordResetToken{
		ID:        dbToken.ID,
		UserID:    dbToken.UserID,
		TokenHash: dbToken.TokenHash,
		ExpiresAt: dbToken.ExpiresAt,
		UsedAt:    dbToken.UsedAt,
		CreatedAt: dbToken.CreatedAt,
	}
}
