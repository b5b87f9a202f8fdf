package auth

import (
	"log/slog"
	"net/http"

	"github.com/chayanin/inventory-api/internal"
)

// MembershipRepository looks up a user's role in a branch. A missing row is
// reported as (nil, nil), not an error.
type MembershipRepository interface {
	MembershipFor(userID, branchID int64) (*BranchMembership, error)
}

// Authorizer is the single authority for branch-level access. Every
// branch-scoped mutation goes through it; no handler checks memberships on
// its own.
type Authorizer struct {
	memberships MembershipRepository
	logger      *slog.Logger
}

func NewAuthorizer(memberships MembershipRepository, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		memberships: memberships,
		logger:      logger,
	}
}

// AuthorizeBranchAccess decides whether user may act on branchID.
//
// Owners pass unconditionally, even for branch ids that do not exist. Everyone
// else needs a membership row; when minRole is non-nil the member's rank must
// meet it (MANAGER outranks STAFF).
func (a *Authorizer) AuthorizeBranchAccess(user *User, branchID int64, minRole *BranchRole) error {
	if user.IsOwner() {
		return nil
	}

	membership, err := a.memberships.MembershipFor(user.ID, branchID)
	if err != nil {
		return internal.NewInternalError("failed to look up branch membership", err)
	}
	if membership == nil {
		a.logger.Warn("branch access denied: not a member",
			"user_id", user.ID,
			"branch_id", branchID)
		return internal.ErrNotABranchMember
	}

	if minRole == nil {
		return nil
	}

	if !membership.Role.Meets(*minRole) {
		a.logger.Warn("branch access denied: insufficient role",
			"user_id", user.ID,
			"branch_id", branchID,
			"role", membership.Role,
			"min_role", *minRole)
		return internal.ErrInsufficientRole
	}

	return nil
}

// BranchRoleFor resolves the caller's role in a branch for field-level
// decisions. Owners never reach this; callers short-circuit on IsOwner first.
func (a *Authorizer) BranchRoleFor(user *User, branchID int64) (BranchRole, error) {
	membership, err := a.memberships.MembershipFor(user.ID, branchID)
	if err != nil {
		return "", internal.NewInternalError("failed to look up branch membership", err)
	}
	if membership == nil {
		return "", internal.ErrNotABranchMember
	}
	return membership.Role, nil
}

// RequireOwner guards owner-only routes such as branch mutations.
func (a *Authorizer) RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsOwner() {
				a.logger.Warn("access denied: owner only", "user_id", user.ID, "global_role", user.GlobalRole)
				http.Error(w, "Forbidden: owner only access", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
