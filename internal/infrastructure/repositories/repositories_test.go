package repositories

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database with the full schema.
// The pool is pinned to one connection so every query sees the same
// in-memory store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&DBTenant{},
		&DBUser{},
		&DBRole{},
		&DBPermission{},
		&DBRolePermission{},
		&DBUserRole{},
		&DBPasswordResetToken{},
		&DBSession{},
		&DBAuditLog{},
	))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, id, slug string, active bool) {
	t.Helper()
	require.NoError(t, db.Create(&DBTenant{
		ID:       id,
		Name:     "Tenant " + id,
		Slug:     slug,
		IsActive: active,
	}).Error)
}

func seedUser(t *testing.T, db *gorm.DB, user *DBUser) {
	t.Helper()
	if user.Name == "" {
		user.Name = "User " + user.ID
	}
	if user.PasswordHash == "" {
		user.PasswordHash = "hash-" + user.ID
	}
	require.NoError(t, db.Create(user).Error)
}

func seedSession(t *testing.T, db *gorm.DB, id, userID, tenantID string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&DBSession{
		ID:        id,
		UserID:    userID,
		TenantID:  tenantID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}).Error)
}
