package auth

import (
	"errors"
	"log/slog"

	"github.com/chayanin/inventory-api/internal"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the persistence surface the credential flow needs.
type UserRepository interface {
	GetByUsername(username string) (*User, error)
	GetByID(id int64) (*User, error)
	// CreateWithMembership persists the user and, when membership is non-nil,
	// its branch membership in one transaction.
	CreateWithMembership(user *User, membership *BranchMembership) error
	FirstMembership(userID int64) (*BranchMembership, error)
	BranchExists(branchID int64) (bool, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a user and, for manager/employee roles, the branch
// membership that anchors their authority. The two writes are atomic so a
// manager or employee can never exist without a branch.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := ParseGlobalRole(dto.GlobalRole)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(dto.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateUsername
	}

	var membership *BranchMembership
	if branchRole, needsBranch := BranchRoleForGlobal(role); needsBranch {
		if dto.BranchID == nil {
			return nil, internal.ErrBranchRequired
		}
		exists, err := s.userRepo.BranchExists(*dto.BranchID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check branch", err)
		}
		if !exists {
			return nil, internal.ErrBranchNotFound
		}
		membership = &BranchMembership{BranchID: *dto.BranchID, Role: branchRole}
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:        dto.Username,
		PasswordHash:    hash,
		GlobalRole:      role,
		DefaultBranchID: dto.DefaultBranchID,
	}

	if err := s.userRepo.CreateWithMembership(user, membership); err != nil {
		// the pre-check races with concurrent registration; the unique
		// constraint is the authority
		if errors.Is(err, internal.ErrDuplicateUsername) {
			return nil, internal.ErrDuplicateUsername
		}
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "global_role", role)
	return user, nil
}

// Login verifies credentials and issues a token carrying the resolved branch
// context. Unknown username and wrong password return the same error so the
// endpoint cannot be used for username enumeration.
func (s *Service) Login(dto LoginDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByUsername(dto.Username)
	if err != nil || user == nil {
		return "", internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return "", internal.ErrInvalidCredentials
	}

	branchID := user.DefaultBranchID
	if branchID == nil {
		if m, err := s.userRepo.FirstMembership(user.ID); err == nil && m != nil {
			branchID = &m.BranchID
		}
	}

	token, err := s.tokenGenerator.GenerateAccessToken(user, branchID)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", user.ID)
		return "", internal.NewInternalError("failed to sign token", err)
	}

	return token, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) GetUser(userID int64) (*User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
