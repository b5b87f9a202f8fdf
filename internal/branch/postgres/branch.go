package postgres

import (
	"errors"

	"github.com/chayanin/inventory-api/internal/branch"
	"gorm.io/gorm"
)

// BranchRepository implements the branch.Repository interface using GORM
type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) branch.Repository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) GetAll() ([]*branch.Branch, error) {
	var branches []*branch.Branch
	err := r.db.Order("name ASC").Find(&branches).Error
	return branches, err
}

func (r *BranchRepository) GetByID(id int64) (*branch.Branch, error) {
	var b branch.Branch
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) Create(b *branch.Branch) error {
	return r.db.Create(b).Error
}

func (r *BranchRepository) Update(b *branch.Branch) error {
	return r.db.Save(b).Error
}

func (r *BranchRepository) Delete(id int64) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&branch.Branch{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
