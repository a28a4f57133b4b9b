package services

import (
	"context"
	"sort"

	"github.com/Roniclay/agrovet-api/domain"
)

// RBACResolver aggregates a user's roles into a deduplicated permission
// set. Resolution is always fresh; nothing is cached across requests.
type RBACResolver struct {
	roleRepo domain.RoleRepository
}

// NewRBACResolver creates a new resolver.
func NewRBACResolver(roleRepo domain.RoleRepository) *RBACResolver {
	return &RBACResolver{roleRepo: roleRepo}
}

// ResolvePermissions returns the union of permission codes linked to the
// given roles. Output is sorted so permuting the input yields an identical
// slice; duplicates across roles appear once.
func (r *RBACResolver) ResolvePermissions(ctx context.Context, roleIDs []string) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	permissions, err := r.roleRepo.FindPermissionsForRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(permissions))
	codes := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p.Code]; ok {
			continue
		}
		seen[p.Code] = struct{}{}
		codes = append(codes, p.Code)
	}
	sort.Strings(codes)
	return codes, nil
}
