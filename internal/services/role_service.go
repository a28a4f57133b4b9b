package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Roniclay/agrovet-api/domain"
)

// RoleServiceImpl implements domain.RoleService. It enforces the role
// invariants: system roles are immutable and tenant-agnostic, non-system
// roles are mutable only by their owning tenant, and role names are unique
// within the tenant-plus-system scope.
type RoleServiceImpl struct {
	roleRepo domain.RoleRepository
}

// NewRoleService creates a new role service.
func NewRoleService(roleRepo domain.RoleRepository) *RoleServiceImpl {
	return &RoleServiceImpl{roleRepo: roleRepo}
}

// Create implements domain.RoleService.
func (s *RoleServiceImpl) Create(ctx context.Context, tenantID, name, description string, permissionIDs []string) (*domain.Role, error) {
	existing, err := s.roleRepo.FindByNameInScope(ctx, tenantID, name)
	if err != nil && err != domain.ErrRoleNotFound {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrRoleNameTaken
	}

	if err := s.checkPermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}

	tid := tenantID
	role := &domain.Role{
		ID:          uuid.NewString(),
		TenantID:    &tid,
		Name:        name,
		Description: description,
		IsSystem:    false,
	}
	if err := s.roleRepo.Create(ctx, role, permissionIDs); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// Update implements domain.RoleService. Nil name/description keep the
// current value; a nil permissionIDs slice keeps the existing links while
// an empty one clears them.
func (s *RoleServiceImpl) Update(ctx context.Context, tenantID, roleID string, name, description *string, permissionIDs []string) (*domain.Role, error) {
	role, err := s.ownedRole(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	if permissionIDs != nil {
		if err := s.checkPermissionIDs(ctx, permissionIDs); err != nil {
			return nil, err
		}
	}

	if name != nil {
		role.Name = *name
	}
	if description != nil {
		role.Description = *description
	}

	if err := s.roleRepo.Update(ctx, role, permissionIDs); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

// Delete implements domain.RoleService.
func (s *RoleServiceImpl) Delete(ctx context.Context, tenantID, roleID string) error {
	if _, err := s.ownedRole(ctx, tenantID, roleID); err != nil {
		return err
	}
	return s.roleRepo.Delete(ctx, roleID)
}

// ListForTenant implements domain.RoleService: the tenant's own roles plus
// the system roles visible to everyone.
func (s *RoleServiceImpl) ListForTenant(ctx context.Context, tenantID string) ([]domain.Role, error) {
	return s.roleRepo.FindVisibleToTenant(ctx, tenantID)
}

func (s *RoleServiceImpl) ownedRole(ctx context.Context, tenantID, roleID string) (*domain.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, domain.ErrSystemRoleImmutable
	}
	if role.TenantID == nil || *role.TenantID != tenantID {
		return nil, domain.ErrRoleWrongTenant
	}
	return role, nil
}

func (s *RoleServiceImpl) checkPermissionIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.roleRepo.CountPermissionsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate permissions: %w", err)
	}
	if count != int64(len(ids)) {
		return domain.ErrPermissionNotFound
	}
	return nil
}
