package auth

// RegisterDTO is the transport shape for POST /auth/register. The role string
// is parsed into the closed GlobalRole enum by the service.
type RegisterDTO struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	GlobalRole      string `json:"global_role"`
	BranchID        *int64 `json:"branch_id,omitempty"`
	DefaultBranchID *int64 `json:"default_branch_id,omitempty"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d RegisterDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	if d.GlobalRole == "" {
		return ValidationError{Msg: "global_role is required"}
	}
	return nil
}

func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}
