package branch

// CreateBranchDTO optionally carries an explicit id so seed data and mobile
// clients can pin well-known branch ids, matching the create contract.
type CreateBranchDTO struct {
	ID       *int64  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
}

// UpdateBranchDTO applies only fields that are present; absent pointers leave
// the column untouched.
type UpdateBranchDTO struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

type SetLocationDTO struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   *string `json:"address,omitempty"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateBranchDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}
