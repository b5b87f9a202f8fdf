package postgres

import (
	"errors"
	"strings"

	"github.com/chayanin/inventory-api/internal"
	"github.com/chayanin/inventory-api/internal/auth"
	"gorm.io/gorm"
)

// Repository implements auth.UserRepository and auth.MembershipRepository
// using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUsername(username string) (*auth.User, error) {
	var user auth.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(id int64) (*auth.User, error) {
	var user auth.User
	err := r.db.Preload("Memberships").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation matches the dialect-specific unique-constraint errors;
// gorm only translates them to ErrDuplicatedKey when TranslateError is set.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateWithMembership wraps user and membership creation in one transaction
// so a failed membership insert never leaves a branch-less manager/employee.
// Losing the insert race on username reports a duplicate, not a plain DB
// error; username is the only unique column on the users insert.
func (r *Repository) CreateWithMembership(user *auth.User, membership *auth.BranchMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return internal.ErrDuplicateUsername
			}
			return err
		}
		if membership != nil {
			membership.UserID = user.ID
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FirstMembership returns the lowest-branch-id membership, giving login's
// fallback branch resolution a deterministic tie-break.
func (r *Repository) FirstMembership(userID int64) (*auth.BranchMembership, error) {
	var membership auth.BranchMembership
	err := r.db.Where("user_id = ?", userID).Order("branch_id ASC").First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *Repository) MembershipFor(userID, branchID int64) (*auth.BranchMembership, error) {
	var membership auth.BranchMembership
	err := r.db.Where("user_id = ? AND branch_id = ?", userID, branchID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *Repository) BranchExists(branchID int64) (bool, error) {
	var count int64
	if err := r.db.Table("branches").Where("id = ?", branchID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
