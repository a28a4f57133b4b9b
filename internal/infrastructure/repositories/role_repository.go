package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Roniclay/agrovet-api/domain"
)

// RoleRepositoryImpl implements domain.RoleRepository using GORM
type RoleRepositoryImpl struct {
	db *gorm.DB
}

// DBRole represents the database model for Role. A NULL tenant_id marks a
// system role.
type DBRole struct {
	ID          string  `gorm:"primaryKey;size:36"`
	TenantID    *string `gorm:"size:36;index"`
	Name        string  `gorm:"size:128;index"`
	Description string  `gorm:"size:512"`
	IsSystem    bool    `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DBRole) TableName() string { return "roles" }

// DBPermission represents the database model for Permission
type DBPermission struct {
	ID     string `gorm:"primaryKey;size:36"`
	Code   string `gorm:"size:128;uniqueIndex"`
	Module string `gorm:"size:64;index"`
}

func (DBPermission) TableName() string { return "permissions" }

// DBRolePermission links roles to permissions
type DBRolePermission struct {
	RoleID       string `gorm:"primaryKey;size:36"`
	PermissionID string `gorm:"primaryKey;size:36"`
}

func (DBRolePermission) TableName() string { return "role_permission" }

// DBUserRole links users to roles
type DBUserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID string `gorm:"primaryKey;size:36"`
}

func (DBUserRole) TableName() string { return "user_roles" }

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) domain.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

// FindRolesForUser implements domain.RoleRepository
func (r *RoleRepositoryImpl) FindRolesForUser(ctx context.Context, userID string) ([]domain.Role, error) {
	var dbRoles []DBRole
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name asc").
		Find(&dbRoles).Error
	if err != nil {
		return nil, err
	}
	return r.dbToDomainSlice(dbRoles), nil
}

// FindPermissionsForRoles implements domain.RoleRepository
func (r *RoleRepositoryImpl) FindPermissionsForRoles(ctx context.Context, roleIDs []string) ([]domain.Permission, error) {
	if len(roleIDs) == 0 {
		return []domain.Permission{}, nil
	}
	var dbPerms []DBPermission
	err := r.db.WithContext(ctx).
		Joins("JOIN role_permission ON role_permission.permission_id = permissions.id").
		Where("role_permission.role_id IN ?", roleIDs).
		Find(&dbPerms).Error
	if err != nil {
		return nil, err
	}
	perms := make([]domain.Permission, len(dbPerms))
	for i, p := range dbPerms {
		perms[i] = domain.Permission{ID: p.ID, Code: p.Code, Module: p.Module}
	}
	return perms, nil
}

// FindByID implements domain.RoleRepository
func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var dbRole DBRole
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbRole).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	role := r.dbToDomain(&dbRole)
	return &role, nil
}

// FindByNameInScope implements domain.RoleRepository. The scope covers the
// tenant's own roles and the system roles they share the namespace with.
func (r *RoleRepositoryImpl) FindByNameInScope(ctx context.Context, tenantID, name string) (*domain.Role, error) {
	var dbRole DBRole
	err := r.db.WithContext(ctx).
		Where("name = ? AND (tenant_id = ? OR tenant_id IS NULL)", name, tenantID).
		First(&dbRole).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	role := r.dbToDomain(&dbRole)
	return &role, nil
}

// FindVisibleToTenant implements domain.RoleRepository
func (r *RoleRepositoryImpl) FindVisibleToTenant(ctx context.Context, tenantID string) ([]domain.Role, error) {
	var dbRoles []DBRole
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? OR is_system = ?", tenantID, true).
		Order("is_system desc, name asc").
		Find(&dbRoles).Error
	if err != nil {
		return nil, err
	}
	return r.dbToDomainSlice(dbRoles), nil
}

// CountPermissionsByIDs implements domain.RoleRepository
func (r *RoleRepositoryImpl) CountPermissionsByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBPermission{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

// Create implements domain.RoleRepository
func (r *RoleRepositoryImpl) Create(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r.domainToDB(role)).Error; err != nil {
			return err
		}
		return replacePermissionLinks(tx, role.ID, permissionIDs)
	})
}

// Update implements domain.RoleRepository. A nil permissionIDs slice keeps
// the existing links.
func (r *RoleRepositoryImpl) Update(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DBRole{}).Where("id = ?", role.ID).Updates(map[string]interface{}{
			"name":        role.Name,
			"description": role.Description,
		}).Error; err != nil {
			return err
		}
		if permissionIDs == nil {
			return nil
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&DBRolePermission{}).Error; err != nil {
			return err
		}
		return replacePermissionLinks(tx, role.ID, permissionIDs)
	})
}

// Delete implements domain.RoleRepository
func (r *RoleRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&DBRolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&DBUserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&DBRole{}).Error
	})
}

func replacePermissionLinks(tx *gorm.DB, roleID string, permissionIDs []string) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	links := make([]DBRolePermission, len(permissionIDs))
	for i, pid := range permissionIDs {
		links[i] = DBRolePermission{RoleID: roleID, PermissionID: pid}
	}
	return tx.Create(&links).Error
}

func (r *RoleRepositoryImpl) dbToDomain(dbRole *DBRole) domain.Role {
	return domain.Role{
		ID:          dbRole.ID,
		TenantID:    dbRole.TenantID,
		Name:        dbRole.Name,
		Description: dbRole.Description,
		IsSystem:    dbRole.IsSystem,
	}
}

func (r *RoleRepositoryImpl) dbToDomainSlice(dbRoles []DBRole) []domain.Role {
	roles := make([]domain.Role, len(dbRoles))
	for i := range dbRoles {
		roles[i] = r.dbToDomain(&dbRoles[i])
	}
	return roles
}

func (r *RoleRepositoryImpl) domainToDB(role *domain.Role) *DBRole {
	return &DBRole{
		ID:          role.ID,
		TenantID:    role.TenantID,
		Name:        role.Name,
		Description: role.Description,
		IsSystem:    role.IsSystem,
	}
}
