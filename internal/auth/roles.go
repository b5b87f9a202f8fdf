package auth

import (
	"strings"

	"github.com/chayanin/inventory-api/internal"
)

// GlobalRole is the system-wide authority level, assigned once at registration.
type GlobalRole string

const (
	GlobalRoleOwner    GlobalRole = "owner"
	GlobalRoleManager  GlobalRole = "manager"
	GlobalRoleEmployee GlobalRole = "employee"
)

// ParseGlobalRole normalizes a loosely-validated boundary string into the
// closed enum. Unknown values are rejected before anything is persisted.
func ParseGlobalRole(s string) (GlobalRole, error) {
	switch GlobalRole(strings.ToLower(strings.TrimSpace(s))) {
	case GlobalRoleOwner:
		return GlobalRoleOwner, nil
	case GlobalRoleManager:
		return GlobalRoleManager, nil
	case GlobalRoleEmployee:
		return GlobalRoleEmployee, nil
	default:
		return "", internal.ErrInvalidRole
	}
}

// BranchRole is the per-branch authority granted through a membership row,
// independent of the global role.
type BranchRole string

const (
	BranchRoleManager BranchRole = "MANAGER"
	BranchRoleStaff   BranchRole = "STAFF"
)

var branchRoleRank = map[BranchRole]int{
	BranchRoleStaff:   1,
	BranchRoleManager: 2,
}

// Meets reports whether the role is at least min. MANAGER outranks STAFF.
func (r BranchRole) Meets(min BranchRole) bool {
	return branchRoleRank[r] >= branchRoleRank[min]
}

// BranchRoleForGlobal maps a registration-time global role to the branch role
// its membership row gets: manager -> MANAGER, employee -> STAFF.
func BranchRoleForGlobal(role GlobalRole) (BranchRole, bool) {
	switch role {
	case GlobalRoleManager:
		return BranchRoleManager, true
	case GlobalRoleEmployee:
		return BranchRoleStaff, true
	default:
		return "", false
	}
}
