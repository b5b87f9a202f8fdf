package product

import (
	"time"
)

// Product always belongs to exactly one branch and cannot outlive it.
type Product struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null;index"`
	Price     float64    `json:"price" gorm:"not null"`
	Quantity  int        `json:"quantity" gorm:"not null;default:0"`
	Category  *string    `json:"category,omitempty" gorm:"size:100;index"`
	ImageURL  *string    `json:"image_url,omitempty" gorm:"column:image_url;size:512"`
	Unit      *string    `json:"unit,omitempty" gorm:"size:50"`
	BranchID  int64      `json:"branch_id" gorm:"column:branch_id;not null;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}
