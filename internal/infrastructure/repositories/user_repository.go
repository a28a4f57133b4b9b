package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags). The
// tenant-scoped uniqueness of email and username holds among non-deleted
// rows; soft-deleted rows keep their values for audit history.
type DBUser struct {
	ID               string `gorm:"primaryKey;size:36"`
	TenantID         string `gorm:"size:36;index;uniqueIndex:uq_users_tenant_email;uniqueIndex:uq_users_tenant_username"`
	Name             string `gorm:"size:255"`
	Email            string `gorm:"size:255;uniqueIndex:uq_users_tenant_email"`
	Username         string `gorm:"size:64;uniqueIndex:uq_users_tenant_username"`
	PasswordHash     string `gorm:"size:255"`
	IsActive         bool   `gorm:"index"`
	IsEmailConfirmed bool
	LoginAttempts    int
	LockedUntil      *time.Time
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// FindByLogin implements domain.UserRepository. The login string matches
// either email or username, always inside one tenant; soft-deleted rows are
// excluded by GORM's DeletedAt handling.
func (r *UserRepositoryImpl) FindByLogin(ctx context.Context, tenantID, login string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (email = ? OR username = ?)", tenantID, login, login).
		First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindActiveByEmail implements domain.UserRepository. Only active,
// email-confirmed accounts qualify for a password reset.
func (r *UserRepositoryImpl) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ? AND is_email_confirmed = ?", email, true, true).
		First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// IncrementLoginAttempts implements domain.UserRepository. The increment
// runs in the database and returns the stored value, so two racing failed
// logins each land their own increment.
func (r *UserRepositoryImpl) IncrementLoginAttempts(ctx context.Context, userID string) (int, error) {
	var attempts int
	result := r.db.WithContext(ctx).Raw(
		"UPDATE users SET login_attempts = login_attempts + 1, updated_at = ? WHERE id = ? AND deleted_at IS NULL RETURNING login_attempts",
		time.Now(), userID,
	).Scan(&attempts)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.ErrUserNotFound
	}
	return attempts, nil
}

// SetLockedUntil implements domain.UserRepository
func (r *UserRepositoryImpl) SetLockedUntil(ctx context.Context, userID string, until time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("locked_until", until).Error
}

// UpdateLoginState implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateLoginState(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error {
	updates := map[string]interface{}{
		"login_attempts": attempts,
		"locked_until":   lockedUntil,
	}
	if lastLoginAt != nil {
		updates["last_login_at"] = lastLoginAt
	}
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:               dbUser.ID,
		TenantID:         dbUser.TenantID,
		Name:             dbUser.Name,
		Email:            dbUser.Email,
		Username:         dbUser.Username,
		PasswordHash:     dbUser.PasswordHash,
		IsActive:         dbUser.IsActive,
		IsEmailConfirmed: dbUser.IsEmailConfirmed,
		LoginAttempts:    dbUser.LoginAttempts,
		LockedUntil:      dbUser.LockedUntil,
		LastLoginAt:      dbUser.LastLoginAt,
		CreatedAt:        dbUser.CreatedAt,
		UpdatedAt:        dbUser.UpdatedAt,
	}
}
