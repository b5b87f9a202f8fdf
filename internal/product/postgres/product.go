package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/chayanin/inventory-api/internal/product"
	"gorm.io/gorm"
)

// ProductRepository implements the product.Repository interface using GORM
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(query product.ListQuery) ([]*product.Product, error) {
	q := r.db.Model(&product.Product{})

	if query.Name != "" {
		// LOWER on both sides keeps the match case-insensitive across dialects
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query.Name)+"%")
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.MinPrice != nil {
		q = q.Where("price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("price <= ?", *query.MaxPrice)
	}
	if query.BranchID != nil {
		q = q.Where("branch_id = ?", *query.BranchID)
	}

	var products []*product.Product
	err := q.Order("id ASC").
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) GetByID(id int64) (*product.Product, error) {
	var p product.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(p *product.Product) error {
	return r.db.Create(p).Error
}

// ApplyPatch updates only the columns present in the patch and returns the
// fresh row. Unset fields are untouched.
func (r *ProductRepository) ApplyPatch(id int64, patch product.UpdateProductDTO) (*product.Product, error) {
	updates := map[string]interface{}{}

	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.Unit != nil {
		updates["unit"] = *patch.Unit
	}
	if patch.BranchID != nil {
		updates["branch_id"] = *patch.BranchID
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := r.db.Model(&product.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(id)
}

func (r *ProductRepository) Delete(id int64) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&product.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
