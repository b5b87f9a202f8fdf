package product

// CreateProductDTO is the payload for creating a product. branch_id is
// mandatory; every product is branch-scoped from birth.
type CreateProductDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category *string `json:"category,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	BranchID int64   `json:"branch_id"`
}

// UpdateProductDTO enumerates every patchable field as present-or-absent, so
// the staff allow-list can be checked structurally instead of by reflection.
type UpdateProductDTO struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Category *string  `json:"category,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	BranchID *int64   `json:"branch_id,omitempty"`
}

// TouchesBeyondQuantity reports whether any field outside quantity is set.
func (d UpdateProductDTO) TouchesBeyondQuantity() bool {
	return d.Name != nil ||
		d.Price != nil ||
		d.Category != nil ||
		d.ImageURL != nil ||
		d.Unit != nil ||
		d.BranchID != nil
}

// QuantityOnly returns a narrowed patch carrying only the quantity change.
func (d UpdateProductDTO) QuantityOnly() UpdateProductDTO {
	return UpdateProductDTO{Quantity: d.Quantity}
}

// ListQuery carries the product listing filters and pagination window.
type ListQuery struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	BranchID *int64
	Skip     int
	Limit    int
}

// MaxListLimit bounds a single listing window to prevent unbounded scans.
const MaxListLimit = 1000

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateProductDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Price < 0 {
		return ValidationError{Msg: "price must be non-negative"}
	}
	if d.Quantity < 0 {
		return ValidationError{Msg: "quantity must be non-negative"}
	}
	if d.BranchID == 0 {
		return ValidationError{Msg: "branch_id is required"}
	}
	return nil
}

func (d UpdateProductDTO) Validate() error {
	if d.Price != nil && *d.Price < 0 {
		return ValidationError{Msg: "price must be non-negative"}
	}
	if d.Quantity != nil && *d.Quantity < 0 {
		return ValidationError{Msg: "quantity must be non-negative"}
	}
	if d.Name != nil && *d.Name == "" {
		return ValidationError{Msg: "name cannot be empty"}
	}
	return nil
}

func (q *ListQuery) Validate() error {
	if q.Skip < 0 {
		return ValidationError{Msg: "skip must be non-negative"}
	}
	if q.Limit == 0 {
		q.Limit = 100
	}
	if q.Limit < 0 {
		return ValidationError{Msg: "limit must be positive"}
	}
	if q.Limit > MaxListLimit {
		return ValidationError{Msg: "limit must be at most 1000"}
	}
	if q.MinPrice != nil && *q.MinPrice < 0 {
		return ValidationError{Msg: "min_price must be non-negative"}
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return ValidationError{Msg: "max_price must be non-negative"}
	}
	return nil
}
