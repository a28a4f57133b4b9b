package services

import "github.com/Roniclay/agrovet-api/domain"

// Authorize evaluates a caller's roles and permissions against a resource's
// declared requirement. An empty requirement allows any authenticated
// caller. Otherwise the caller needs at least one of the required roles and
// all of the required permissions; whichever kind is declared is checked.
// A nil caller means no verified token reached this stage, which is an
// upstream ordering bug and is denied outright.
func Authorize(caller *domain.TokenClaims, req domain.Requirement) error {
	if caller == nil {
		return domain.ErrForbidden
	}

	if len(req.Roles) == 0 && len(req.Permissions) == 0 {
		return nil
	}

	if len(req.Roles) > 0 && !hasAny(caller.Roles, req.Roles) {
		return domain.ErrForbidden
	}

	if len(req.Permissions) > 0 && !hasAll(caller.Permissions, req.Permissions) {
		return domain.ErrForbidden
	}

	return nil
}

func hasAny(have, want []string) bool {
	set := toSet(have)
	for _, w := range want {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func hasAll(have, want []string) bool {
	set := toSet(have)
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
