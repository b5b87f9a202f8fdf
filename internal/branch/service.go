package branch

import (
	"log/slog"

	"github.com/chayanin/inventory-api/internal"
)

// Repository defines the data access methods for branches.
type Repository interface {
	GetAll() ([]*Branch, error)
	GetByID(id int64) (*Branch, error)
	Create(branch *Branch) error
	Update(branch *Branch) error
	// Delete removes the branch; products and memberships cascade at the
	// database layer.
	Delete(id int64) (bool, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListBranches() ([]*Branch, error) {
	branches, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list branches", "error", err)
		return nil, internal.NewInternalError("failed to list branches", err)
	}
	return branches, nil
}

func (s *Service) GetBranch(id int64) (*Branch, error) {
	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get branch", err)
	}
	if b == nil {
		return nil, internal.ErrBranchNotFound
	}
	return b, nil
}

func (s *Service) CreateBranch(dto CreateBranchDTO) (*Branch, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b := &Branch{
		Name:     dto.Name,
		Location: dto.Location,
	}
	if dto.ID != nil {
		b.ID = *dto.ID
	}

	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create branch", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create branch", err)
	}

	s.logger.Info("branch created", "branch_id", b.ID, "name", b.Name)
	return b, nil
}

func (s *Service) UpdateBranch(id int64, dto UpdateBranchDTO) (*Branch, error) {
	b, err := s.GetBranch(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		b.Name = *dto.Name
	}
	if dto.Location != nil {
		b.Location = dto.Location
	}

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update branch", "error", err, "branch_id", id)
		return nil, internal.NewInternalError("failed to update branch", err)
	}

	return b, nil
}

func (s *Service) SetLocation(id int64, dto SetLocationDTO) (*Branch, error) {
	b, err := s.GetBranch(id)
	if err != nil {
		return nil, err
	}

	b.Latitude = &dto.Latitude
	b.Longitude = &dto.Longitude
	b.Address = dto.Address

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to set branch location", "error", err, "branch_id", id)
		return nil, internal.NewInternalError("failed to set branch location", err)
	}

	return b, nil
}

func (s *Service) DeleteBranch(id int64) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.logger.Error("failed to delete branch", "error", err, "branch_id", id)
		return internal.NewInternalError("failed to delete branch", err)
	}
	if !deleted {
		return internal.ErrBranchNotFound
	}

	s.logger.Info("branch deleted", "branch_id", id)
	return nil
}
