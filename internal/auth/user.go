package auth

import (
	"context"
	"time"
)

type User struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	Username        string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	PasswordHash    string     `json:"-" gorm:"column:password_hash;size:255;not null"`
	GlobalRole      GlobalRole `json:"global_role" gorm:"column:global_role;size:20;not null;default:employee"`
	DefaultBranchID *int64     `json:"default_branch_id,omitempty" gorm:"column:default_branch_id"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`

	Memberships []BranchMembership `json:"memberships,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsOwner() bool {
	return u.GlobalRole == GlobalRoleOwner
}

// BranchMembership links a user to a branch with a branch role. A user holds
// at most one role per branch, enforced by a unique (user_id, branch_id) index.
type BranchMembership struct {
	ID       int64      `json:"id" gorm:"primaryKey"`
	UserID   int64      `json:"user_id" gorm:"column:user_id;uniqueIndex:uq_user_branch;not null"`
	BranchID int64      `json:"branch_id" gorm:"column:branch_id;uniqueIndex:uq_user_branch;not null"`
	Role     BranchRole `json:"role" gorm:"column:role;size:20;not null"`
}

func (BranchMembership) TableName() string {
	return "user_branch_roles"
}

type userCtxKey struct{}

// ContextWithUser stores the authenticated user for downstream handlers.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*User)
	return user, ok
}
