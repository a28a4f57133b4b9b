package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// TenantRepositoryImpl implements domain.TenantRepository using GORM
type TenantRepositoryImpl struct {
	db *gorm.DB
}

// DBTenant represents the database model for Tenant
type DBTenant struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255"`
	Slug      string `gorm:"size:64;uniqueIndex"`
	IsActive  bool   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBTenant) TableName() string {
	return "tenants"
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) domain.TenantRepository {
	return &TenantRepositoryImpl{db: db}
}

// FindBySlug implements domain.TenantRepository
func (r *TenantRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var dbTenant DBTenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&dbTenant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbTenant), nil
}

// FindByID implements domain.TenantRepository
func (r *TenantRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var dbTenant DBTenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbTenant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbTenant), nil
}

func (r *TenantRepositoryImpl) dbToDomain(dbTenant *DBTenant) *domain.Tenant {
	return &domain.Tenant{
		ID:        dbTenant.ID,
		Name:      dbTenant.Name,
		Slug:      dbTenant.Slug,
		IsActive:  dbTenant.IsActive,
		CreatedAt: dbTenant.CreatedAt,
		UpdatedAt: dbTenant.UpdatedAt,
	}
}
