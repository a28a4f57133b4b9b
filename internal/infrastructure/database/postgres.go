package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Roniclay/agrovet-api/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for every table this service
// owns.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&repositories.DBTenant{},
		&repositories.DBUser{},
		&repositories.DBRole{},
		&repositories.DBPermission{},
		&repositories.DBRolePermission{},
		&repositories.DBUserRole{},
		&repositories.DBPasswordResetToken{},
		&repositories.DBSession{},
		&repositories.DBAuditLog{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
